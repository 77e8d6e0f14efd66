package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCheckPointsBase(t *testing.T) {
	p := CalculateCheckPoints(1, false, false)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 1, p.Base)
	assert.Equal(t, 0, p.StreakBonus)
}

func TestCalculateCheckPointsMilestones(t *testing.T) {
	// Серия 7: база 1 + бонус 2
	p := CalculateCheckPoints(7, false, false)
	assert.Equal(t, 2, p.StreakBonus)
	assert.Equal(t, 3, p.Total)

	// Серия 14: кратна и 7, и 14 — побеждает больший бонус
	p = CalculateCheckPoints(14, false, false)
	assert.Equal(t, 3, p.StreakBonus)
	assert.Equal(t, 4, p.Total)

	// Серия 30: только бонус за 30 дней
	p = CalculateCheckPoints(30, false, false)
	assert.Equal(t, 5, p.StreakBonus)
	assert.Equal(t, 6, p.Total)

	// Серия 42 кратна 7 и 14
	p = CalculateCheckPoints(42, false, false)
	assert.Equal(t, 3, p.StreakBonus)

	// Серия 0 бонусов не даёт
	p = CalculateCheckPoints(0, false, false)
	assert.Equal(t, 0, p.StreakBonus)
	assert.Equal(t, 1, p.Total)
}

func TestCalculateCheckPointsRestartAndHallOfFame(t *testing.T) {
	p := CalculateCheckPoints(1, true, false)
	assert.Equal(t, 2, p.RestartBonus)
	assert.Equal(t, 3, p.Total)

	p = CalculateCheckPoints(90, false, true)
	assert.Equal(t, 5, p.StreakBonus) // 90 кратно 30
	assert.Equal(t, 20, p.HallOfFameBonus)
	assert.Equal(t, 26, p.Total)
}

func TestUncheckPenalty(t *testing.T) {
	assert.Equal(t, 1, UncheckPenalty(100))
	assert.Equal(t, 1, UncheckPenalty(1))
	assert.Equal(t, 0, UncheckPenalty(0))
	assert.Equal(t, 0, UncheckPenalty(-5))
}

func TestLevelTableInvariants(t *testing.T) {
	assert.Len(t, LevelTable, 50)
	assert.Equal(t, 0, LevelTable[0].MinPoints)
	for i := 1; i < len(LevelTable); i++ {
		assert.Greater(t, LevelTable[i].MinPoints, LevelTable[i-1].MinPoints)
		assert.NotEmpty(t, LevelTable[i].Title)
	}
}

func TestCalculateLevelAtThresholds(t *testing.T) {
	// Ровно на каждом пороге получаем соответствующий уровень
	for i, tier := range LevelTable {
		info := CalculateLevel(tier.MinPoints)
		assert.Equal(t, i+1, info.Level)
		assert.Equal(t, tier.Title, info.Title)
		assert.Equal(t, 0, info.CurrentLevelPoints)
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	prev := CalculateLevel(0).Level
	for points := 1; points <= 7000; points += 13 {
		level := CalculateLevel(points).Level
		assert.GreaterOrEqual(t, level, prev)
		prev = level
	}
}

func TestCalculateLevelProgress(t *testing.T) {
	// Уровень 1: 0..10 очков
	info := CalculateLevel(5)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 5, info.CurrentLevelPoints)
	assert.Equal(t, 10, info.NextLevelPoints)
	assert.Equal(t, 50, info.ProgressPercent)

	// Последний уровень: следующего нет, прогресс всегда 100
	info = CalculateLevel(999999)
	assert.Equal(t, 50, info.Level)
	assert.Equal(t, 0, info.NextLevelPoints)
	assert.Equal(t, 100, info.ProgressPercent)

	// Отрицательный итог сводится к нулю
	info = CalculateLevel(-3)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, 0, info.TotalPoints)
}

func TestCheckLevelUp(t *testing.T) {
	up, down := CheckLevelUp(9, 10)
	assert.True(t, up)
	assert.False(t, down)

	// Снятие отметки может понизить уровень
	up, down = CheckLevelUp(10, 9)
	assert.False(t, up)
	assert.True(t, down)

	up, down = CheckLevelUp(5, 6)
	assert.False(t, up)
	assert.False(t, down)
}
