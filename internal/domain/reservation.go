package domain

import (
	"encoding/json"
	"time"
)

// ReservationEntry - одна запись бронирования: набор дат плюс необязательная заметка
// Записи независимы друг от друга: одна и та же дата может встречаться
// в нескольких записях (пересекающиеся брони не запрещаются при записи,
// конфликт виден только на чтении через правило last-wins)
type ReservationEntry struct {
	Dates     []Date    `json:"dates"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created,omitempty"`
}

// ContainsDate проверяет, входит ли дата в запись
func (e *ReservationEntry) ContainsDate(d Date) bool {
	for _, ed := range e.Dates {
		if ed == d {
			return true
		}
	}
	return false
}

// Overlap возвращает пересечение дат записи с закрытым интервалом [start, end],
// отсортированное по возрастанию. Порядок хранения дат в записи не важен
func (e *ReservationEntry) Overlap(start, end Date) []Date {
	var overlap []Date
	for _, d := range e.Dates {
		if d >= start && d <= end {
			overlap = append(overlap, d)
		}
	}
	SortDates(overlap)
	return overlap
}

// DateInfo - производные данные по одной зарезервированной дате
type DateInfo struct {
	Note       string `json:"note"`
	EntryIndex int    `json:"entry_index"`
}

// ReservationLedger - журнал бронирований одного транспортного средства.
// Записи хранятся в порядке добавления; порядок по датам не гарантируется
type ReservationLedger struct {
	Entries []ReservationEntry
}

// NewLedger создает пустой журнал
func NewLedger() *ReservationLedger {
	return &ReservationLedger{}
}

// Add добавляет новую запись бронирования и возвращает ее индекс.
// Дубликаты дат внутри одного вызова схлопываются; пересечение с уже
// существующими записями НЕ проверяется - это независимые записи журнала
func (l *ReservationLedger) Add(dates []Date, note string) (int, error) {
	dates = DedupeDates(dates)

	if len(dates) == 0 {
		return 0, ErrEmptyDateSet
	}

	for _, d := range dates {
		if !d.IsValid() {
			return 0, ErrInvalidDate
		}
	}

	l.Entries = append(l.Entries, ReservationEntry{
		Dates:     dates,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	})

	return len(l.Entries) - 1, nil
}

// RemoveDates вычитает даты из всех записей журнала.
// Записи, оставшиеся без дат, удаляются; остальные сохраняют note и created.
// Операция идемпотентна: удаление отсутствующих дат - no-op
func (l *ReservationLedger) RemoveDates(dates []Date) {
	remove := make(map[Date]struct{}, len(dates))
	for _, d := range dates {
		remove[d] = struct{}{}
	}

	kept := make([]ReservationEntry, 0, len(l.Entries))
	for _, entry := range l.Entries {
		remaining := make([]Date, 0, len(entry.Dates))
		for _, d := range entry.Dates {
			if _, ok := remove[d]; !ok {
				remaining = append(remaining, d)
			}
		}

		if len(remaining) > 0 {
			entry.Dates = remaining
			kept = append(kept, entry)
		}
	}

	l.Entries = kept
}

// Prune удаляет записи с пустым набором дат.
// Пустые записи невалидны и не должны переживать сериализацию
func (l *ReservationLedger) Prune() {
	kept := l.Entries[:0]
	for _, entry := range l.Entries {
		if len(entry.Dates) > 0 {
			kept = append(kept, entry)
		}
	}
	l.Entries = kept
}

// DateIndex строит индекс "дата -> {заметка, индекс записи}".
// При дубликатах дат в разных записях побеждает более поздняя запись
// (last-wins). Индекс пересчитывается целиком при каждом вызове -
// журнал одного ТС редко превышает несколько сотен записей
func (l *ReservationLedger) DateIndex() map[Date]DateInfo {
	index := make(map[Date]DateInfo)
	for i, entry := range l.Entries {
		for _, d := range entry.Dates {
			index[d] = DateInfo{
				Note:       entry.Note,
				EntryIndex: i,
			}
		}
	}
	return index
}

// ReservationOverlap - пересечение одной записи журнала с запрошенным интервалом
type ReservationOverlap struct {
	Dates []Date `json:"dates"`
	Note  string `json:"note"`
}

// OverlapRange возвращает пересечения всех записей журнала с закрытым
// интервалом [start, end] в порядке записей; записи без пересечения опускаются
func (l *ReservationLedger) OverlapRange(start, end Date) []ReservationOverlap {
	var overlaps []ReservationOverlap
	for _, entry := range l.Entries {
		dates := entry.Overlap(start, end)
		if len(dates) > 0 {
			overlaps = append(overlaps, ReservationOverlap{
				Dates: dates,
				Note:  entry.Note,
			})
		}
	}
	return overlaps
}

// IsEmpty сообщает, пуст ли журнал
func (l *ReservationLedger) IsEmpty() bool {
	return len(l.Entries) == 0
}

// wireEntry - запись журнала в wire-формате.
// Поле available осталось от старой схемы, где записи "доступно" и
// "зарезервировано" хранились в одном списке; см. ParseLedger
type wireEntry struct {
	Dates     []string `json:"dates"`
	Note      string   `json:"note"`
	Created   string   `json:"created,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

// Serialize сериализует журнал в wire-формат:
// [{"dates": ["YYYY-MM-DD", ...], "note": "...", "created": "RFC3339"}, ...]
// Записи с пустым набором дат отбрасываются перед записью
func (l *ReservationLedger) Serialize() ([]byte, error) {
	l.Prune()

	wire := make([]wireEntry, 0, len(l.Entries))
	for _, entry := range l.Entries {
		we := wireEntry{
			Dates: make([]string, 0, len(entry.Dates)),
			Note:  entry.Note,
		}
		for _, d := range entry.Dates {
			we.Dates = append(we.Dates, string(d))
		}
		if !entry.CreatedAt.IsZero() {
			we.Created = entry.CreatedAt.Format(time.RFC3339)
		}
		wire = append(wire, we)
	}

	return json.Marshal(wire)
}

// ParseLedger восстанавливает журнал из wire-формата.
// Контракт толерантного чтения: если весь документ - не JSON-массив,
// возвращается ErrMalformedLedger; отдельные битые записи (не-объект,
// отсутствующий dates, невалидные строки дат) пропускаются, не роняя
// весь журнал. Legacy-записи старой схемы: available == false -
// запись сохраняется без маркера, available == true - запись
// отбрасывается целиком (исторически в новую схему переносились
// только "зарезервированные" записи)
func ParseLedger(raw []byte) (*ReservationLedger, error) {
	if len(raw) == 0 {
		return NewLedger(), nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrMalformedLedger
	}

	ledger := NewLedger()

	for _, item := range items {
		var we wireEntry
		if err := json.Unmarshal(item, &we); err != nil {
			// Битая запись - пропускаем
			continue
		}

		if we.Available != nil && *we.Available {
			// Legacy-запись "доступно" - не переносится
			continue
		}

		if len(we.Dates) == 0 {
			continue
		}

		entry := ReservationEntry{
			Dates: make([]Date, 0, len(we.Dates)),
			Note:  we.Note,
		}

		valid := true
		for _, s := range we.Dates {
			d, err := ParseDate(s)
			if err != nil {
				valid = false
				break
			}
			entry.Dates = append(entry.Dates, d)
		}
		if !valid {
			continue
		}

		entry.Dates = DedupeDates(entry.Dates)

		if we.Created != "" {
			// created необязателен; нечитаемый timestamp не роняет запись
			if created, err := time.Parse(time.RFC3339, we.Created); err == nil {
				entry.CreatedAt = created
			}
		}

		ledger.Entries = append(ledger.Entries, entry)
	}

	return ledger, nil
}
