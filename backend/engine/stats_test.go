package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWeeklyBreakdownExcludesUntrackedHabit(t *testing.T) {
	habits := []HabitHistory{
		{
			ID:        1,
			Text:      "reading",
			Cadence:   CadenceDaily,
			StartDate: "2024-06-01",
			CheckedDates: []string{
				"2024-06-10", "2024-06-11", "2024-06-12",
			},
		},
		{
			// Стартовала после конца прошлой недели — в той неделе её нет
			ID:           2,
			Text:         "running",
			Cadence:      CadenceDaily,
			StartDate:    "2024-06-18",
			CheckedDates: []string{"2024-06-18"},
		},
	}

	periods, err := ComputeWeeklyBreakdown(habits, "2024-06-18", 2)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	current := periods[0]
	assert.Equal(t, "2024-06-17", current.Start)
	assert.Len(t, current.Habits, 2)

	previous := periods[1]
	assert.Equal(t, "2024-06-10", previous.Start)
	require.Len(t, previous.Habits, 1)
	assert.Equal(t, uint(1), previous.Habits[0].HabitID)
	assert.Equal(t, 3, previous.Habits[0].Checks)
	assert.Equal(t, 7, previous.Habits[0].PossibleDays)
	assert.Equal(t, 43, previous.Habits[0].Rate) // round(300/7)

	// Итог недели считается только по вошедшим привычкам
	assert.Equal(t, 3, previous.TotalChecks)
	assert.Equal(t, 7, previous.PossibleDays)
	assert.Equal(t, 43, previous.CompletionRate)
}

func TestComputeWeeklyBreakdownClampsByStartDate(t *testing.T) {
	habits := []HabitHistory{
		{
			ID:           1,
			Text:         "water",
			Cadence:      CadenceDaily,
			StartDate:    "2024-06-13", // четверг прошлой недели
			CheckedDates: []string{"2024-06-13", "2024-06-14"},
		},
	}

	periods, err := ComputeWeeklyBreakdown(habits, "2024-06-18", 2)
	require.NoError(t, err)

	previous := periods[1]
	require.Len(t, previous.Habits, 1)
	// Отслеживаемыми считаются только дни с даты старта
	assert.Equal(t, 4, previous.Habits[0].PossibleDays)
	assert.Equal(t, 2, previous.Habits[0].Checks)
	assert.Equal(t, 50, previous.Habits[0].Rate)
}

func TestComputeMonthlyBreakdownTruncatesCurrentMonth(t *testing.T) {
	habits := []HabitHistory{
		{
			ID:           1,
			Text:         "stretch",
			Cadence:      CadenceDaily,
			StartDate:    "2024-05-01",
			CheckedDates: []string{"2024-06-01", "2024-06-05", "2024-06-10"},
		},
	}

	periods, err := ComputeMonthlyBreakdown(habits, "2024-06-10", 2)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	current := periods[0]
	assert.Equal(t, "2024-06-01", current.Start)
	require.Len(t, current.Habits, 1)
	// Текущий месяц обрезан по сегодня: 10 возможных дней, не 30
	assert.Equal(t, 10, current.Habits[0].PossibleDays)
	assert.Equal(t, 3, current.Habits[0].Checks)
	assert.Equal(t, 30, current.Habits[0].Rate)

	may := periods[1]
	assert.Equal(t, "2024-05-01", may.Start)
	assert.Equal(t, "2024-05-31", may.End)
	require.Len(t, may.Habits, 1)
	assert.Equal(t, 31, may.Habits[0].PossibleDays)
}

func TestBestHabitThisWeekScoring(t *testing.T) {
	// A: 3 отметки в окне, серия 3 → счёт 3.3
	a := HabitHistory{
		ID: 1, Text: "A", Cadence: CadenceDaily, StartDate: "2024-01-01",
		CheckedDates: []string{"2024-06-15", "2024-06-16", "2024-06-17"},
	}

	// B: всего 1 отметка в окне, но недельная серия 8 недель (56 дней)
	// → счёт 1 + 5.6 = 6.6; объём проигрывает весу серии
	b := HabitHistory{ID: 2, Text: "B", Cadence: CadenceWeekly, WeeklyTarget: 1, StartDate: "2024-01-01"}
	day := "2024-04-29"
	for i := 0; i < 8; i++ {
		b.CheckedDates = append(b.CheckedDates, day)
		day, _ = AddDays(day, 7)
	}

	best, err := BestHabitThisWeek([]HabitHistory{a, b}, "2024-06-17")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, uint(2), best.HabitID)
	assert.Equal(t, 56, best.CurrentStreak)
	assert.InDelta(t, 6.6, best.Score, 0.001)
}

func TestBestHabitThisWeekNoChecks(t *testing.T) {
	habits := []HabitHistory{
		{ID: 1, Text: "A", Cadence: CadenceDaily, StartDate: "2024-01-01", CheckedDates: []string{"2024-05-01"}},
	}
	best, err := BestHabitThisWeek(habits, "2024-06-17")
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestBestHabitOverall(t *testing.T) {
	habits := []HabitHistory{
		{ID: 1, Text: "A", Cadence: CadenceDaily, StartDate: "2024-06-08",
			CheckedDates: []string{"2024-06-08", "2024-06-09", "2024-06-10", "2024-06-11", "2024-06-12"}},
		{ID: 2, Text: "B", Cadence: CadenceDaily, StartDate: "2024-06-01",
			CheckedDates: []string{"2024-06-01", "2024-06-02"}},
	}

	best, err := BestHabitOverall(habits, "2024-06-17")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, uint(1), best.HabitID)
	assert.Equal(t, 5, best.Checks)
	// 5 отметок за 10 дней с даты старта
	assert.Equal(t, 50, best.CompletionRate)
}

func TestComputeOverallStatsEmpty(t *testing.T) {
	stats, err := ComputeOverallStats(nil, "2024-06-17")
	require.NoError(t, err)
	assert.Equal(t, OverallStats{}, stats)
}

func TestComputeOverallStats(t *testing.T) {
	habits := []HabitHistory{
		{ID: 1, Text: "A", Cadence: CadenceDaily, StartDate: "2024-06-13",
			CheckedDates: []string{"2024-06-15", "2024-06-16", "2024-06-17"}},
		{ID: 2, Text: "B", Cadence: CadenceDaily, StartDate: "2024-06-13", HallOfFame: true,
			CheckedDates: []string{"2024-06-13", "2024-06-14"}},
	}

	stats, err := ComputeOverallStats(habits, "2024-06-17")
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalChecks)
	assert.Equal(t, 1, stats.ActiveHabits)
	assert.Equal(t, 1, stats.HallOfFameHabits)
	// По 5 отслеживаемых дней на каждую привычку
	assert.Equal(t, 10, stats.TotalDaysTracked)
	assert.Equal(t, 50, stats.CompletionRate)
	assert.Equal(t, 3, stats.LongestStreakEver)
	// A: текущая серия 3, B: 0 → среднее 1.5
	assert.InDelta(t, 1.5, stats.AverageStreakDays, 0.001)
	// B заглохла: последняя отметка 14-го, сегодня 17-е → один рестарт
	assert.Equal(t, 1, stats.TotalRestarts)
}

func TestUncheckOnlyDateReturnsBaseline(t *testing.T) {
	// Снятие единственной отметки возвращает привычку к пустому состоянию
	withCheck, err := ComputeGapRuleProgress([]string{"2024-06-17"}, "2024-06-17")
	require.NoError(t, err)
	assert.Equal(t, 1, withCheck.Progress)

	after, err := ComputeGapRuleProgress(nil, "2024-06-17")
	require.NoError(t, err)
	assert.Equal(t, 0, after.Progress)
	assert.Equal(t, 0, after.RestartCount)

	streak, err := ComputeDailyStreak(nil, "2024-06-17")
	require.NoError(t, err)
	assert.Equal(t, DailyStreak{}, streak)
}
