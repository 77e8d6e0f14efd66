package engine

import "math"

// LevelTier is one row of the fixed level table.
type LevelTier struct {
	MinPoints int    `json:"min_points"`
	Title     string `json:"title"`
}

// LevelTable — неизменяемые 50 уровней; пороги строго возрастают.
// Шаг между уровнями растёт на 5 очков: ранние уровни берутся быстро,
// поздние требуют месяцев отметок.
var LevelTable = [50]LevelTier{
	{0, "Fresh Start"},
	{10, "First Steps"},
	{25, "Early Riser"},
	{45, "Spark"},
	{70, "Kindling"},
	{100, "Committed"},
	{135, "Consistent"},
	{175, "Steady Hand"},
	{220, "Pathfinder"},
	{270, "Trailblazer"},
	{325, "Week Warrior"},
	{385, "Rhythm Keeper"},
	{450, "Groove Setter"},
	{520, "Momentum"},
	{595, "Persistent"},
	{675, "Resolute"},
	{760, "Determined"},
	{850, "Dedicated"},
	{945, "Disciplined"},
	{1045, "Habit Builder"},
	{1150, "Routine Master"},
	{1260, "Streak Holder"},
	{1375, "Iron Will"},
	{1495, "Unshakeable"},
	{1620, "Relentless"},
	{1750, "Marathoner"},
	{1885, "Endurer"},
	{2025, "Stalwart"},
	{2170, "Veteran"},
	{2320, "Champion"},
	{2475, "Conqueror"},
	{2635, "Vanquisher"},
	{2800, "Paragon"},
	{2970, "Exemplar"},
	{3145, "Luminary"},
	{3325, "Mentor"},
	{3510, "Sage"},
	{3700, "Master"},
	{3895, "Grandmaster"},
	{4095, "Virtuoso"},
	{4300, "Ascendant"},
	{4510, "Transcendent"},
	{4725, "Enlightened"},
	{4945, "Zen Apprentice"},
	{5170, "Zen Adept"},
	{5400, "Zen Master"},
	{5635, "Kaizen Spirit"},
	{5875, "Kaizen Master"},
	{6120, "Living Legend"},
	{6370, "Hall of Famer"},
}

// LevelInfo resolves a point total against the level table.
type LevelInfo struct {
	Level              int    `json:"level"` // 1-based
	Title              string `json:"title"`
	TotalPoints        int    `json:"total_points"`
	CurrentLevelPoints int    `json:"current_level_points"`
	NextLevelPoints    int    `json:"next_level_points"` // 0 на последнем уровне
	ProgressPercent    int    `json:"progress_percent"`  // 0..100, на последнем уровне всегда 100
}

// CalculateLevel finds the highest tier whose threshold the total reaches.
func CalculateLevel(totalPoints int) LevelInfo {
	if totalPoints < 0 {
		totalPoints = 0
	}

	idx := 0
	for i := len(LevelTable) - 1; i >= 0; i-- {
		if LevelTable[i].MinPoints <= totalPoints {
			idx = i
			break
		}
	}

	info := LevelInfo{
		Level:              idx + 1,
		Title:              LevelTable[idx].Title,
		TotalPoints:        totalPoints,
		CurrentLevelPoints: totalPoints - LevelTable[idx].MinPoints,
	}

	if idx == len(LevelTable)-1 {
		info.ProgressPercent = 100
		return info
	}

	info.NextLevelPoints = LevelTable[idx+1].MinPoints - LevelTable[idx].MinPoints
	info.ProgressPercent = int(math.Round(100 * float64(info.CurrentLevelPoints) / float64(info.NextLevelPoints)))
	if info.ProgressPercent > 100 {
		info.ProgressPercent = 100
	}
	return info
}

// CheckLevelUp compares the level at two point totals. Both directions are
// real: un-checking a day can demote a user.
func CheckLevelUp(oldPoints, newPoints int) (levelUp, levelDown bool) {
	oldLevel := CalculateLevel(oldPoints).Level
	newLevel := CalculateLevel(newPoints).Level
	return newLevel > oldLevel, newLevel < oldLevel
}
