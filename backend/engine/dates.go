package engine

import (
	"errors"
	"fmt"
	"time"
)

// Все даты в движке — строковые ключи "YYYY-MM-DD", привязанные к UTC.
// Никаких часовых поясов: арифметика по полуночам UTC детерминирована.
const dateKeyLayout = "2006-01-02"

// ErrInvalidDateKey возвращается для любой строки, не являющейся датой "YYYY-MM-DD"
var ErrInvalidDateKey = errors.New("invalid date key")

// ParseDateKey парсит ключ даты в полночь UTC
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.UTC)
	if err != nil || len(key) != len(dateKeyLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// FormatDateKey форматирует дату обратно в ключ "YYYY-MM-DD"
func FormatDateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// Today возвращает сегодняшний ключ даты по UTC
func Today() string {
	return FormatDateKey(time.Now())
}

// AddDays сдвигает ключ даты на n дней (n может быть отрицательным)
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return FormatDateKey(t.AddDate(0, 0, n)), nil
}

// DaysBetween возвращает b − a в целых днях
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDateKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDateKey(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// WeekStart возвращает понедельник на/до указанной даты (ISO-недели Пн–Вс,
// воскресенье относится к предыдущему понедельнику)
func WeekStart(key string) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	offset := (int(t.Weekday()) + 6) % 7
	return FormatDateKey(t.AddDate(0, 0, -offset)), nil
}

// dayNumber переводит ключ даты в номер дня от эпохи Unix
func dayNumber(key string) (int, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return 0, err
	}
	return int(t.Unix() / 86400), nil
}
