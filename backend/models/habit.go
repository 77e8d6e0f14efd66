package models

import (
	"time"

	"gorm.io/gorm"

	"kaizen/backend/engine"
)

// Habit is a tracked recurring goal with a daily or weekly cadence.
// HallOfFameAt is stamped at most once, when the gap-tolerant run first
// reaches 90 days; it is never cleared afterwards.
type Habit struct {
	gorm.Model
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	Text         string         `gorm:"not null" json:"text"`
	Cadence      engine.Cadence `gorm:"type:varchar(8);not null;default:daily" json:"cadence"`
	WeeklyTarget int            `gorm:"not null;default:2" json:"weekly_target"`
	StartDate    string         `gorm:"type:varchar(10);not null" json:"start_date"` // YYYY-MM-DD
	EndDate      *string        `gorm:"type:varchar(10)" json:"end_date,omitempty"`
	HallOfFameAt *time.Time     `json:"hall_of_fame_at,omitempty"`
	Checks       []CheckEvent   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// CheckEvent — одна запись на привычку и календарный день (upsert, не лог).
// Явно записанный непройденный день отличается от отсутствия записи, но для
// серий оба значат одно и то же.
type CheckEvent struct {
	gorm.Model
	HabitID uint   `gorm:"not null;uniqueIndex:idx_habit_date" json:"habit_id"`
	Date    string `gorm:"type:varchar(10);not null;uniqueIndex:idx_habit_date" json:"date"` // YYYY-MM-DD
	Checked bool   `gorm:"not null;default:false" json:"checked"`
}

// CheckedDates собирает ключи отмеченных дней для движка
func (h *Habit) CheckedDates() []string {
	dates := make([]string, 0, len(h.Checks))
	for _, c := range h.Checks {
		if c.Checked {
			dates = append(dates, c.Date)
		}
	}
	return dates
}

// History строит представление привычки для агрегатора
func (h *Habit) History() engine.HabitHistory {
	return engine.HabitHistory{
		ID:           h.ID,
		Text:         h.Text,
		Cadence:      h.Cadence,
		WeeklyTarget: h.WeeklyTarget,
		StartDate:    h.StartDate,
		HallOfFame:   h.HallOfFameAt != nil,
		CheckedDates: h.CheckedDates(),
	}
}
