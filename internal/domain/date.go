package domain

import (
	"sort"
	"time"
)

// DateLayout - формат календарной даты в wire-формате (ISO 8601, без времени)
const DateLayout = "2006-01-02"

// Date - календарная дата вида "YYYY-MM-DD"
// Строковое представление выбрано намеренно: оно совпадает с wire-форматом,
// а лексикографический порядок ISO-дат совпадает с хронологическим
type Date string

// ParseDate проверяет и возвращает календарную дату
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

// IsValid проверяет, что дата имеет корректный формат
func (d Date) IsValid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// Time возвращает дату как time.Time (полночь UTC)
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Before сообщает, предшествует ли дата d дате other
func (d Date) Before(other Date) bool {
	return d < other
}

// String возвращает дату в формате "YYYY-MM-DD"
func (d Date) String() string {
	return string(d)
}

// DatesBetween возвращает все календарные даты от start до end включительно
// (закрытый интервал). Если start > end, возвращает nil
func DatesBetween(start, end Date) []Date {
	if start > end {
		return nil
	}

	var dates []Date
	for t := start.Time(); !t.After(end.Time()); t = t.AddDate(0, 0, 1) {
		dates = append(dates, Date(t.Format(DateLayout)))
	}

	return dates
}

// SortDates сортирует даты по возрастанию (календарный порядок)
func SortDates(dates []Date) {
	sort.Slice(dates, func(i, j int) bool {
		return dates[i] < dates[j]
	})
}

// DedupeDates удаляет дубликаты, сохраняя порядок первого вхождения
func DedupeDates(dates []Date) []Date {
	seen := make(map[Date]struct{}, len(dates))
	result := make([]Date, 0, len(dates))

	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}

	return result
}
