package engine

import "sort"

const (
	// MaxGapDays — допустимый разрыв между отметками для правила непрерывности
	MaxGapDays = 2
	// HallOfFameDays — длина серии, после которой привычка попадает в зал славы
	HallOfFameDays = 90
)

// DailyStreak holds the display streak for a daily habit. Current uses the
// strict zero-gap rule: it is NOT the same as the gap-tolerant run that drives
// hall-of-fame progress (see GapRuleProgress), the two diverge on purpose.
type DailyStreak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeDailyStreak walks backward from today while every day is checked,
// and scans ascending runs of consecutive days for the longest streak.
func ComputeDailyStreak(checkedDates []string, today string) (DailyStreak, error) {
	var res DailyStreak

	if _, err := ParseDateKey(today); err != nil {
		return res, err
	}
	days, err := uniqueDayNumbers(checkedDates)
	if err != nil {
		return res, err
	}
	if len(days) == 0 {
		return res, nil
	}

	set := make(map[int]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}

	cursor, _ := dayNumber(today)
	for {
		if _, ok := set[cursor]; !ok {
			break
		}
		res.Current++
		cursor--
	}

	run := 1
	res.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
		} else {
			run = 1
		}
		if run > res.Longest {
			res.Longest = run
		}
	}

	return res, nil
}

// Progress is the gap-tolerant continuity state of one habit.
type Progress struct {
	// Progress — длина текущей серии, обрезанная до HallOfFameDays
	Progress int `json:"progress"`
	// RestartCount — сколько раз серия обнулялась разрывом больше MaxGapDays
	RestartCount int `json:"restart_count"`
	// IsRestart — отметка сразу после сброса (в первые два дня новой серии)
	IsRestart bool `json:"is_restart"`
	// HallOfFame — серия достигла HallOfFameDays
	HallOfFame bool `json:"hall_of_fame"`
}

// ComputeGapRuleProgress scans the checked dates in ascending order. A run
// extends while consecutive checks are at most MaxGapDays apart; a larger gap
// resets the run and counts a restart. An inactive habit decays too: when the
// last check is more than MaxGapDays before today the run drops to zero even
// without a new event.
func ComputeGapRuleProgress(checkedDates []string, today string) (Progress, error) {
	var res Progress

	todayNum, err := dayNumber(today)
	if err != nil {
		return res, err
	}
	days, err := uniqueDayNumbers(checkedDates)
	if err != nil {
		return res, err
	}
	if len(days) == 0 {
		return res, nil
	}

	run := 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] <= MaxGapDays {
			run++
		} else {
			run = 1
			res.RestartCount++
		}
	}

	if todayNum-days[len(days)-1] > MaxGapDays {
		run = 0
		res.RestartCount++
	}

	res.Progress = run
	if res.Progress > HallOfFameDays {
		res.Progress = HallOfFameDays
	}
	res.HallOfFame = run >= HallOfFameDays
	// Бонус за рестарт начисляется только в первые два дня новой серии,
	// иначе он срабатывал бы на каждой отметке после давнего сброса
	res.IsRestart = res.RestartCount > 0 && res.Progress < 3

	return res, nil
}

// WeeklyStreak holds week-based streaks reported in day-equivalents
// (weeks × 7) for unit consistency with daily habits.
type WeeklyStreak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeWeeklyStreak buckets checks by Monday week start; a week succeeds
// when its bucket reaches weeklyTarget. The week in progress gets a grace
// period: if it has not hit target yet, the streak is counted from the
// previous week instead of breaking.
func ComputeWeeklyStreak(checkedDates []string, weeklyTarget int, today string) (WeeklyStreak, error) {
	var res WeeklyStreak

	if weeklyTarget < 1 {
		weeklyTarget = 1
	}

	thisWeek, err := WeekStart(today)
	if err != nil {
		return res, err
	}
	thisWeekNum, _ := dayNumber(thisWeek)

	buckets := make(map[int]int)
	for _, d := range checkedDates {
		ws, err := WeekStart(d)
		if err != nil {
			return res, err
		}
		n, _ := dayNumber(ws)
		buckets[n]++
	}

	anchor := thisWeekNum
	if buckets[anchor] < weeklyTarget {
		anchor -= 7
	}
	for buckets[anchor] >= weeklyTarget {
		res.Current++
		anchor -= 7
	}

	// Недели, удовлетворившие цели, в хронологическом порядке
	var succeeded []int
	for n, count := range buckets {
		if count >= weeklyTarget {
			succeeded = append(succeeded, n)
		}
	}
	sort.Ints(succeeded)

	run := 0
	for i, n := range succeeded {
		if i > 0 && n-succeeded[i-1] == 7 {
			run++
		} else {
			run = 1
		}
		if run > res.Longest {
			res.Longest = run
		}
	}

	res.Current *= 7
	res.Longest *= 7
	return res, nil
}

// uniqueDayNumbers converts date keys to sorted unique day numbers.
func uniqueDayNumbers(dates []string) ([]int, error) {
	seen := make(map[int]struct{}, len(dates))
	days := make([]int, 0, len(dates))
	for _, d := range dates {
		n, err := dayNumber(d)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Ints(days)
	return days, nil
}
