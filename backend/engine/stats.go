package engine

import (
	"math"
	"time"
)

// Cadence — периодичность привычки
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// HabitHistory is the aggregator's read-only view of one habit: cadence,
// start date and the habit's checked date keys. Controllers assemble it from
// storage; the aggregator itself never touches the database.
type HabitHistory struct {
	ID           uint
	Text         string
	Cadence      Cadence
	WeeklyTarget int
	StartDate    string
	HallOfFame   bool
	CheckedDates []string
}

// HabitPeriodStat is one habit's slice of a period.
type HabitPeriodStat struct {
	HabitID      uint   `json:"habit_id"`
	Text         string `json:"text"`
	Checks       int    `json:"checks"`
	PossibleDays int    `json:"possible_days"`
	Rate         int    `json:"rate"`
}

// PeriodStat is one week or month window with its per-habit breakdown.
// Привычки без отслеживаемых дней в окне в разбивку не попадают.
type PeriodStat struct {
	Start          string            `json:"start"`
	End            string            `json:"end"`
	TotalChecks    int               `json:"total_checks"`
	PossibleDays   int               `json:"possible_days"`
	CompletionRate int               `json:"completion_rate"`
	Habits         []HabitPeriodStat `json:"habits"`
}

// BestHabit is a ranking result for §best-habit selection.
type BestHabit struct {
	HabitID        uint    `json:"habit_id"`
	Text           string  `json:"text"`
	Checks         int     `json:"checks"`
	CurrentStreak  int     `json:"current_streak"`
	Score          float64 `json:"score"`
	CompletionRate int     `json:"completion_rate"`
}

// OverallStats — сводная статистика по всем привычкам пользователя
type OverallStats struct {
	TotalChecks       int     `json:"total_checks"`
	AverageStreakDays float64 `json:"average_streak_days"`
	LongestStreakEver int     `json:"longest_streak_ever"`
	TotalRestarts     int     `json:"total_restarts"`
	ActiveHabits      int     `json:"active_habits"`
	HallOfFameHabits  int     `json:"hall_of_fame_habits"`
	TotalDaysTracked  int     `json:"total_days_tracked"`
	CompletionRate    int     `json:"completion_rate"`
}

// ComputeWeeklyBreakdown returns the last `weeks` Mon–Sun windows anchored to
// today, most recent first. The current week is truncated at today.
func ComputeWeeklyBreakdown(habits []HabitHistory, today string, weeks int) ([]PeriodStat, error) {
	thisWeek, err := WeekStart(today)
	if err != nil {
		return nil, err
	}

	periods := make([]PeriodStat, 0, weeks)
	for i := 0; i < weeks; i++ {
		start, err := AddDays(thisWeek, -7*i)
		if err != nil {
			return nil, err
		}
		end, _ := AddDays(start, 6)
		p, err := buildPeriod(habits, start, end, today)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// ComputeMonthlyBreakdown returns the last `months` calendar months anchored
// to today, most recent first. The current month is truncated at today.
func ComputeMonthlyBreakdown(habits []HabitHistory, today string, months int) ([]PeriodStat, error) {
	t, err := ParseDateKey(today)
	if err != nil {
		return nil, err
	}

	periods := make([]PeriodStat, 0, months)
	for i := 0; i < months; i++ {
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		last := first.AddDate(0, 1, -1)
		p, err := buildPeriod(habits, FormatDateKey(first), FormatDateKey(last), today)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// buildPeriod aggregates one [start, end] window across all habits. The
// window end is clamped at today so days that have not happened yet are not
// counted as misses.
func buildPeriod(habits []HabitHistory, start, end, today string) (PeriodStat, error) {
	p := PeriodStat{Start: start, End: end, Habits: []HabitPeriodStat{}}

	clampedEnd := end
	if today < end {
		clampedEnd = today
	}

	for _, h := range habits {
		from := start
		if h.StartDate > from {
			from = h.StartDate
		}

		possible, err := DaysBetween(from, clampedEnd)
		if err != nil {
			return p, err
		}
		possible++ // границы включительно
		if possible <= 0 {
			// Привычка не имела отслеживаемых дней в окне — в разбивке её нет
			continue
		}

		checks := 0
		for _, d := range h.CheckedDates {
			if d >= from && d <= clampedEnd {
				checks++
			}
		}

		p.Habits = append(p.Habits, HabitPeriodStat{
			HabitID:      h.ID,
			Text:         h.Text,
			Checks:       checks,
			PossibleDays: possible,
			Rate:         roundRate(checks, possible),
		})
		p.TotalChecks += checks
		p.PossibleDays += possible
	}

	p.CompletionRate = roundRate(p.TotalChecks, p.PossibleDays)
	return p, nil
}

// BestHabitThisWeek ranks habits with at least one check in the trailing
// 7-day window ending today by checks + currentStreak/10. Ties keep the first
// habit in input order.
func BestHabitThisWeek(habits []HabitHistory, today string) (*BestHabit, error) {
	windowStart, err := AddDays(today, -6)
	if err != nil {
		return nil, err
	}

	var best *BestHabit
	for _, h := range habits {
		checks := 0
		for _, d := range h.CheckedDates {
			if d >= windowStart && d <= today {
				checks++
			}
		}
		if checks == 0 {
			continue
		}

		streak, err := currentStreakDays(h, today)
		if err != nil {
			return nil, err
		}

		score := float64(checks) + float64(streak)/10
		if best == nil || score > best.Score {
			best = &BestHabit{
				HabitID:       h.ID,
				Text:          h.Text,
				Checks:        checks,
				CurrentStreak: streak,
				Score:         score,
			}
		}
	}
	return best, nil
}

// BestHabitOverall picks the habit with the most lifetime checked days and
// reports its lifetime completion rate, clamped to [0, 100].
func BestHabitOverall(habits []HabitHistory, today string) (*BestHabit, error) {
	var best *BestHabit
	for _, h := range habits {
		checks := len(h.CheckedDates)
		if checks == 0 {
			continue
		}
		if best != nil && checks <= best.Checks {
			continue
		}

		tracked, err := DaysBetween(h.StartDate, today)
		if err != nil {
			return nil, err
		}
		tracked++

		rate := 0
		if tracked > 0 {
			rate = roundRate(checks, tracked)
		}
		if rate > 100 {
			rate = 100
		}

		streak, err := currentStreakDays(h, today)
		if err != nil {
			return nil, err
		}

		best = &BestHabit{
			HabitID:        h.ID,
			Text:           h.Text,
			Checks:         checks,
			CurrentStreak:  streak,
			CompletionRate: rate,
		}
	}
	return best, nil
}

// ComputeOverallStats derives the lifetime totals across all habits. Every
// degenerate case (no habits, zero tracked days) resolves to zero, never to
// an error: the aggregator stays total on empty input.
func ComputeOverallStats(habits []HabitHistory, today string) (OverallStats, error) {
	var stats OverallStats

	if _, err := ParseDateKey(today); err != nil {
		return stats, err
	}

	streakSum := 0
	for _, h := range habits {
		stats.TotalChecks += len(h.CheckedDates)

		streak, err := currentStreakDays(h, today)
		if err != nil {
			return stats, err
		}
		streakSum += streak

		longest, err := longestStreakDays(h, today)
		if err != nil {
			return stats, err
		}
		if longest > stats.LongestStreakEver {
			stats.LongestStreakEver = longest
		}

		prog, err := ComputeGapRuleProgress(h.CheckedDates, today)
		if err != nil {
			return stats, err
		}
		stats.TotalRestarts += prog.RestartCount

		if h.HallOfFame {
			stats.HallOfFameHabits++
		} else {
			stats.ActiveHabits++
		}

		tracked, err := DaysBetween(h.StartDate, today)
		if err != nil {
			return stats, err
		}
		if tracked+1 > 0 {
			stats.TotalDaysTracked += tracked + 1
		}
	}

	if len(habits) > 0 {
		stats.AverageStreakDays = float64(streakSum) / float64(len(habits))
	}
	if stats.TotalDaysTracked > 0 {
		stats.CompletionRate = roundRate(stats.TotalChecks, stats.TotalDaysTracked)
	}
	return stats, nil
}

// currentStreakDays resolves the cadence-appropriate current streak in days.
func currentStreakDays(h HabitHistory, today string) (int, error) {
	if h.Cadence == CadenceWeekly {
		ws, err := ComputeWeeklyStreak(h.CheckedDates, h.WeeklyTarget, today)
		return ws.Current, err
	}
	ds, err := ComputeDailyStreak(h.CheckedDates, today)
	return ds.Current, err
}

func longestStreakDays(h HabitHistory, today string) (int, error) {
	if h.Cadence == CadenceWeekly {
		ws, err := ComputeWeeklyStreak(h.CheckedDates, h.WeeklyTarget, today)
		return ws.Longest, err
	}
	ds, err := ComputeDailyStreak(h.CheckedDates, today)
	return ds.Longest, err
}

// roundRate возвращает round(100 × checks / possible); 0 при possible = 0
func roundRate(checks, possible int) int {
	if possible <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(checks) / float64(possible)))
}
