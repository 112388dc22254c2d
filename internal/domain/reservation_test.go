package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDates(t *testing.T, ss ...string) []Date {
	t.Helper()
	dates := make([]Date, 0, len(ss))
	for _, s := range ss {
		d, err := ParseDate(s)
		require.NoError(t, err)
		dates = append(dates, d)
	}
	return dates
}

// TestLedger_Add тестирует добавление записей бронирования
func TestLedger_Add(t *testing.T) {
	tests := []struct {
		name        string
		dates       []Date
		note        string
		wantIndex   int
		wantErr     error
		wantEntries int
	}{
		{
			name:        "успешное добавление",
			dates:       []Date{"2024-06-10", "2024-06-11"},
			note:        "Client A",
			wantIndex:   0,
			wantEntries: 1,
		},
		{
			name:    "пустой набор дат отклоняется",
			dates:   nil,
			wantErr: ErrEmptyDateSet,
		},
		{
			name:    "невалидная дата отклоняется",
			dates:   []Date{"2024-13-45"},
			wantErr: ErrInvalidDate,
		},
		{
			name:        "дубликаты внутри вызова схлопываются",
			dates:       []Date{"2024-06-10", "2024-06-10", "2024-06-11"},
			wantIndex:   0,
			wantEntries: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger()

			idx, err := ledger.Add(tt.dates, tt.note)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, ledger.IsEmpty(), "журнал не должен меняться при ошибке")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, idx)
			assert.Len(t, ledger.Entries, tt.wantEntries)
		})
	}
}

// TestLedger_Add_DedupesWithinCall проверяет дедупликацию дат внутри одного вызова
func TestLedger_Add_DedupesWithinCall(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.Add(mustDates(t, "2024-06-10", "2024-06-10", "2024-06-11"), "")
	require.NoError(t, err)

	assert.Equal(t, mustDates(t, "2024-06-10", "2024-06-11"), ledger.Entries[0].Dates)
	assert.False(t, ledger.Entries[0].CreatedAt.IsZero())
}

// TestLedger_Add_OverlapAllowed проверяет, что пересекающиеся брони разрешены:
// записи журнала независимы, конфликт виден только через last-wins индекс
func TestLedger_Add_OverlapAllowed(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.Add(mustDates(t, "2024-06-10"), "first")
	require.NoError(t, err)

	idx, err := ledger.Add(mustDates(t, "2024-06-10"), "second")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Len(t, ledger.Entries, 2)

	index := ledger.DateIndex()
	assert.Equal(t, DateInfo{Note: "second", EntryIndex: 1}, index[Date("2024-06-10")])
}

// TestLedger_RemoveDates тестирует вычитание дат из журнала
func TestLedger_RemoveDates(t *testing.T) {
	newLedger := func(t *testing.T) *ReservationLedger {
		ledger := NewLedger()
		_, err := ledger.Add(mustDates(t, "2024-06-10", "2024-06-11"), "Client A")
		require.NoError(t, err)
		return ledger
	}

	t.Run("частичное удаление сохраняет запись", func(t *testing.T) {
		ledger := newLedger(t)

		ledger.RemoveDates(mustDates(t, "2024-06-10"))

		require.Len(t, ledger.Entries, 1)
		assert.Equal(t, mustDates(t, "2024-06-11"), ledger.Entries[0].Dates)
		assert.Equal(t, "Client A", ledger.Entries[0].Note)
		assert.False(t, ledger.Entries[0].CreatedAt.IsZero())
	})

	t.Run("удаление всех дат записи вычищает ее", func(t *testing.T) {
		ledger := newLedger(t)

		ledger.RemoveDates(mustDates(t, "2024-06-10", "2024-06-11"))

		assert.Empty(t, ledger.Entries)
	})

	t.Run("удаление отсутствующих дат - no-op", func(t *testing.T) {
		ledger := newLedger(t)

		ledger.RemoveDates(mustDates(t, "2024-07-01"))

		require.Len(t, ledger.Entries, 1)
		assert.Equal(t, mustDates(t, "2024-06-10", "2024-06-11"), ledger.Entries[0].Dates)
	})

	t.Run("идемпотентность", func(t *testing.T) {
		once := newLedger(t)
		twice := newLedger(t)

		once.RemoveDates(mustDates(t, "2024-06-10"))
		twice.RemoveDates(mustDates(t, "2024-06-10"))
		twice.RemoveDates(mustDates(t, "2024-06-10"))

		assert.Equal(t, once.Entries, twice.Entries)
	})
}

// TestLedger_DateIndex тестирует last-wins пересборку индекса дат
func TestLedger_DateIndex(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Add(mustDates(t, "2024-06-10", "2024-06-11"), "early")
	require.NoError(t, err)
	_, err = ledger.Add(mustDates(t, "2024-06-11", "2024-06-12"), "late")
	require.NoError(t, err)

	index := ledger.DateIndex()

	assert.Len(t, index, 3)
	assert.Equal(t, DateInfo{Note: "early", EntryIndex: 0}, index[Date("2024-06-10")])
	// Дубликат: побеждает более поздняя запись
	assert.Equal(t, DateInfo{Note: "late", EntryIndex: 1}, index[Date("2024-06-11")])
	assert.Equal(t, DateInfo{Note: "late", EntryIndex: 1}, index[Date("2024-06-12")])
}

// TestLedger_OverlapRange тестирует пересечение журнала с интервалом
func TestLedger_OverlapRange(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Add(mustDates(t, "2024-06-10", "2024-06-11"), "Client A")
	require.NoError(t, err)

	tests := []struct {
		name  string
		start Date
		end   Date
		want  []ReservationOverlap
	}{
		{
			name:  "частичное пересечение",
			start: "2024-06-11",
			end:   "2024-06-12",
			want: []ReservationOverlap{
				{Dates: mustDates(t, "2024-06-11"), Note: "Client A"},
			},
		},
		{
			name:  "без пересечения",
			start: "2024-07-01",
			end:   "2024-07-05",
			want:  nil,
		},
		{
			name:  "интервал в один день включает границы",
			start: "2024-06-10",
			end:   "2024-06-10",
			want: []ReservationOverlap{
				{Dates: mustDates(t, "2024-06-10"), Note: "Client A"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.OverlapRange(tt.start, tt.end))
		})
	}
}

// TestLedger_OverlapRange_SortsDates проверяет, что даты пересечения
// отсортированы по календарю, а не по порядку хранения
func TestLedger_OverlapRange_SortsDates(t *testing.T) {
	ledger := &ReservationLedger{
		Entries: []ReservationEntry{
			{Dates: mustDates(t, "2024-06-12", "2024-06-10", "2024-06-11")},
		},
	}

	overlaps := ledger.OverlapRange("2024-06-01", "2024-06-30")

	require.Len(t, overlaps, 1)
	assert.Equal(t, mustDates(t, "2024-06-10", "2024-06-11", "2024-06-12"), overlaps[0].Dates)
}

// TestLedger_RoundTrip тестирует контракт serialize/deserialize
func TestLedger_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	ledger := &ReservationLedger{
		Entries: []ReservationEntry{
			{Dates: mustDates(t, "2024-06-10", "2024-06-11"), Note: "Client A", CreatedAt: created},
			{Dates: mustDates(t, "2024-07-01"), Note: "", CreatedAt: created.Add(time.Hour)},
		},
	}

	raw, err := ledger.Serialize()
	require.NoError(t, err)

	restored, err := ParseLedger(raw)
	require.NoError(t, err)

	require.Len(t, restored.Entries, 2)
	for i := range ledger.Entries {
		assert.Equal(t, ledger.Entries[i].Dates, restored.Entries[i].Dates)
		assert.Equal(t, ledger.Entries[i].Note, restored.Entries[i].Note)
		assert.True(t, ledger.Entries[i].CreatedAt.Equal(restored.Entries[i].CreatedAt))
	}
}

// TestLedger_Serialize_WireFormat фиксирует побитовый контракт wire-формата
func TestLedger_Serialize_WireFormat(t *testing.T) {
	ledger := &ReservationLedger{
		Entries: []ReservationEntry{
			{
				Dates:     mustDates(t, "2024-06-10", "2024-06-11"),
				Note:      "Client A",
				CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	raw, err := ledger.Serialize()
	require.NoError(t, err)

	assert.JSONEq(t,
		`[{"dates":["2024-06-10","2024-06-11"],"note":"Client A","created":"2024-05-01T12:00:00Z"}]`,
		string(raw),
	)
}

// TestLedger_Serialize_PrunesEmptyEntries проверяет инвариант:
// запись без дат не переживает сериализацию
func TestLedger_Serialize_PrunesEmptyEntries(t *testing.T) {
	ledger := &ReservationLedger{
		Entries: []ReservationEntry{
			{Dates: nil, Note: "ghost"},
			{Dates: mustDates(t, "2024-06-10"), Note: "real"},
		},
	}

	raw, err := ledger.Serialize()
	require.NoError(t, err)

	var wire []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Len(t, wire, 1)
	assert.Equal(t, "real", wire[0]["note"])
}

// TestParseLedger тестирует толерантную десериализацию журнала
func TestParseLedger(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantErr     error
		wantEntries int
		check       func(*testing.T, *ReservationLedger)
	}{
		{
			name:        "пустой вход дает пустой журнал",
			raw:         "",
			wantEntries: 0,
		},
		{
			name:        "пустой массив",
			raw:         "[]",
			wantEntries: 0,
		},
		{
			name:    "не-JSON отклоняется",
			raw:     "{not valid json",
			wantErr: ErrMalformedLedger,
		},
		{
			name:    "JSON-объект вместо массива отклоняется",
			raw:     `{"dates":["2024-06-10"]}`,
			wantErr: ErrMalformedLedger,
		},
		{
			name:        "запись без dates пропускается",
			raw:         `[{"note":"no dates"},{"dates":["2024-06-10"],"note":"ok"}]`,
			wantEntries: 1,
		},
		{
			name:        "запись с пустым dates вычищается",
			raw:         `[{"dates":[],"note":"empty"},{"dates":["2024-06-10"],"note":"ok"}]`,
			wantEntries: 1,
		},
		{
			name:        "запись с невалидной датой пропускается целиком",
			raw:         `[{"dates":["not-a-date","2024-06-10"],"note":"bad"},{"dates":["2024-06-11"],"note":"ok"}]`,
			wantEntries: 1,
			check: func(t *testing.T, l *ReservationLedger) {
				assert.Equal(t, "ok", l.Entries[0].Note)
			},
		},
		{
			name:        "не-объект в массиве пропускается",
			raw:         `[42,"junk",{"dates":["2024-06-10"],"note":"ok"}]`,
			wantEntries: 1,
		},
		{
			name:        "нечитаемый created не роняет запись",
			raw:         `[{"dates":["2024-06-10"],"note":"ok","created":"yesterday"}]`,
			wantEntries: 1,
			check: func(t *testing.T, l *ReservationLedger) {
				assert.True(t, l.Entries[0].CreatedAt.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, err := ParseLedger([]byte(tt.raw))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, ledger.Entries, tt.wantEntries)
			if tt.check != nil {
				tt.check(t, ledger)
			}
		})
	}
}

// TestParseLedger_LegacyAvailableFilter тестирует миграцию старой схемы:
// в ней записи "доступно" и "зарезервировано" лежали в одном списке,
// в новую схему переносятся только зарезервированные
func TestParseLedger_LegacyAvailableFilter(t *testing.T) {
	raw := `[
		{"dates":["2024-06-10"],"note":"reserved","available":false},
		{"dates":["2024-06-11"],"note":"free","available":true},
		{"dates":["2024-06-12"],"note":"modern"}
	]`

	ledger, err := ParseLedger([]byte(raw))
	require.NoError(t, err)

	require.Len(t, ledger.Entries, 2)
	assert.Equal(t, "reserved", ledger.Entries[0].Note)
	assert.Equal(t, "modern", ledger.Entries[1].Note)

	// Маркер available не должен пережить повторную сериализацию
	out, err := ledger.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "available")
}

// TestParseLedger_PreservesEntryOrder проверяет сохранение порядка записей
func TestParseLedger_PreservesEntryOrder(t *testing.T) {
	raw := `[
		{"dates":["2024-06-12"],"note":"third"},
		{"dates":["2024-06-10"],"note":"first"},
		{"dates":["2024-06-11"],"note":"second"}
	]`

	ledger, err := ParseLedger([]byte(raw))
	require.NoError(t, err)

	require.Len(t, ledger.Entries, 3)
	assert.Equal(t, "third", ledger.Entries[0].Note)
	assert.Equal(t, "first", ledger.Entries[1].Note)
	assert.Equal(t, "second", ledger.Entries[2].Note)
}
