package engine

// CheckPoints itemizes the award for one unchecked→checked transition.
// Начисление происходит только на этом переходе: удаление отметки и
// повторная отметка того же дня очков не дают.
type CheckPoints struct {
	Base            int `json:"base"`
	StreakBonus     int `json:"streak_bonus"`
	RestartBonus    int `json:"restart_bonus"`
	HallOfFameBonus int `json:"hall_of_fame_bonus"`
	Total           int `json:"total"`
}

// CalculateCheckPoints computes the award for a single check. The streak
// milestone bonuses are mutually exclusive, largest wins: a streak of 30 gets
// only the 30-day bonus, not the 7- and 14-day ones on top.
func CalculateCheckPoints(streak int, isRestart, hallOfFameNow bool) CheckPoints {
	p := CheckPoints{Base: 1}

	switch {
	case streak > 0 && streak%30 == 0:
		p.StreakBonus = 5
	case streak > 0 && streak%14 == 0:
		p.StreakBonus = 3
	case streak > 0 && streak%7 == 0:
		p.StreakBonus = 2
	}

	if isRestart {
		p.RestartBonus = 2
	}
	if hallOfFameNow {
		p.HallOfFameBonus = 20
	}

	p.Total = p.Base + p.StreakBonus + p.RestartBonus + p.HallOfFameBonus
	return p
}

// UncheckPenalty возвращает списание за снятие отметки: min(1, total).
// Бонусы за вехи и зал славы задним числом не отзываются, итог не уходит
// в минус.
func UncheckPenalty(totalPoints int) int {
	if totalPoints < 1 {
		if totalPoints < 0 {
			return 0
		}
		return totalPoints
	}
	return 1
}
