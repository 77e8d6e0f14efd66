package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDailyStreakEmpty(t *testing.T) {
	res, err := ComputeDailyStreak(nil, "2024-06-17")
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 0, res.Longest)
}

func TestComputeDailyStreakSingleDay(t *testing.T) {
	// Единственная отметка сегодня
	res, err := ComputeDailyStreak([]string{"2024-06-17"}, "2024-06-17")
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 1, res.Longest)

	// Единственная отметка вчера: строгое правило не даёт текущей серии
	res, _ = ComputeDailyStreak([]string{"2024-06-16"}, "2024-06-17")
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 1, res.Longest)
}

func TestComputeDailyStreakStrictRule(t *testing.T) {
	dates := []string{"2024-06-13", "2024-06-14", "2024-06-16", "2024-06-17"}
	res, err := ComputeDailyStreak(dates, "2024-06-17")
	assert.NoError(t, err)
	// Пропуск 15-го обрывает строгую серию
	assert.Equal(t, 2, res.Current)
	assert.Equal(t, 2, res.Longest)

	dates = []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-17"}
	res, _ = ComputeDailyStreak(dates, "2024-06-17")
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 4, res.Longest)
}

func TestGapRuleDenseSequences(t *testing.T) {
	// Любая последовательность с разрывами ≤2 дней: restartCount = 0,
	// progress = min(90, count)
	for _, count := range []int{1, 5, 45, 90, 120} {
		dates := make([]string, 0, count)
		day := "2024-01-01"
		for i := 0; i < count; i++ {
			dates = append(dates, day)
			day, _ = AddDays(day, 2)
		}
		today := dates[len(dates)-1]

		res, err := ComputeGapRuleProgress(dates, today)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.RestartCount, fmt.Sprintf("count=%d", count))
		want := count
		if want > 90 {
			want = 90
		}
		assert.Equal(t, want, res.Progress, fmt.Sprintf("count=%d", count))
	}
}

func TestGapRuleRestart(t *testing.T) {
	dates := []string{"2024-06-01", "2024-06-02", "2024-06-10", "2024-06-11"}
	res, err := ComputeGapRuleProgress(dates, "2024-06-11")
	assert.NoError(t, err)
	assert.Equal(t, 1, res.RestartCount)
	assert.Equal(t, 2, res.Progress)
	// Вторая отметка новой серии всё ещё считается рестартом
	assert.True(t, res.IsRestart)

	// Третья отметка после сброса — уже нет
	dates = append(dates, "2024-06-12")
	res, _ = ComputeGapRuleProgress(dates, "2024-06-12")
	assert.Equal(t, 3, res.Progress)
	assert.False(t, res.IsRestart)
}

func TestGapRuleInactiveDecay(t *testing.T) {
	// Разрыв между последней отметкой и сегодня тоже сбрасывает серию
	dates := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	res, err := ComputeGapRuleProgress(dates, "2024-06-10")
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Progress)
	assert.Equal(t, 1, res.RestartCount)
	assert.True(t, res.IsRestart)

	// Ровно два дня — ещё в допуске
	res, _ = ComputeGapRuleProgress(dates, "2024-06-05")
	assert.Equal(t, 3, res.Progress)
	assert.Equal(t, 0, res.RestartCount)
}

func TestGapRuleHallOfFame(t *testing.T) {
	dates := make([]string, 0, 90)
	day := "2024-01-01"
	for i := 0; i < 90; i++ {
		dates = append(dates, day)
		day, _ = AddDays(day, 1)
	}
	today := dates[len(dates)-1]

	res, err := ComputeGapRuleProgress(dates, today)
	assert.NoError(t, err)
	assert.True(t, res.HallOfFame)
	assert.Equal(t, 90, res.Progress)

	res, _ = ComputeGapRuleProgress(dates[:89], dates[88])
	assert.False(t, res.HallOfFame)
	assert.Equal(t, 89, res.Progress)
}

func TestGapRuleEmptyBaseline(t *testing.T) {
	res, err := ComputeGapRuleProgress(nil, "2024-06-17")
	assert.NoError(t, err)
	assert.Equal(t, Progress{}, res)
}

func TestComputeWeeklyStreak(t *testing.T) {
	// Три понедельника подряд, цель 1 в неделю → серия 3 недели → 21 день
	dates := []string{"2024-06-03", "2024-06-10", "2024-06-17"}
	res, err := ComputeWeeklyStreak(dates, 1, "2024-06-17")
	assert.NoError(t, err)
	assert.Equal(t, 21, res.Current)
	assert.Equal(t, 21, res.Longest)
}

func TestComputeWeeklyStreakGracePeriod(t *testing.T) {
	// Текущая неделя ещё не добрала цель — серия прошлых недель не рвётся
	dates := []string{"2024-06-03", "2024-06-04", "2024-06-10", "2024-06-11", "2024-06-17"}
	res, err := ComputeWeeklyStreak(dates, 2, "2024-06-18")
	assert.NoError(t, err)
	assert.Equal(t, 14, res.Current)
}

func TestComputeWeeklyStreakTargetNotMet(t *testing.T) {
	dates := []string{"2024-06-03", "2024-06-10"}
	res, err := ComputeWeeklyStreak(dates, 2, "2024-06-17")
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Current)
	assert.Equal(t, 0, res.Longest)
}

func TestComputeWeeklyStreakNonContiguous(t *testing.T) {
	// Успешные недели с промежутком не склеиваются в одну серию
	dates := []string{"2024-05-06", "2024-05-20", "2024-05-27"}
	res, err := ComputeWeeklyStreak(dates, 1, "2024-05-27")
	assert.NoError(t, err)
	assert.Equal(t, 14, res.Current)
	assert.Equal(t, 14, res.Longest)
}
