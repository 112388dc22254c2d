package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDate тестирует разбор календарной даты
func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "корректная дата", input: "2024-06-10"},
		{name: "пустая строка", input: "", wantErr: true},
		{name: "несуществующий месяц", input: "2024-13-01", wantErr: true},
		{name: "дата со временем", input: "2024-06-10T12:00:00Z", wantErr: true},
		{name: "другой формат", input: "10.06.2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input, d.String())
		})
	}
}

// TestDatesBetween тестирует перечисление закрытого интервала дат
func TestDatesBetween(t *testing.T) {
	tests := []struct {
		name  string
		start Date
		end   Date
		want  []Date
	}{
		{
			name:  "несколько дней включая границы",
			start: "2024-06-28",
			end:   "2024-07-01",
			want:  []Date{"2024-06-28", "2024-06-29", "2024-06-30", "2024-07-01"},
		},
		{
			name:  "один день",
			start: "2024-06-10",
			end:   "2024-06-10",
			want:  []Date{"2024-06-10"},
		},
		{
			name:  "start позже end",
			start: "2024-06-11",
			end:   "2024-06-10",
			want:  nil,
		},
		{
			name:  "високосный февраль",
			start: "2024-02-28",
			end:   "2024-03-01",
			want:  []Date{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DatesBetween(tt.start, tt.end))
		})
	}
}

// TestSortDates проверяет календарную сортировку
func TestSortDates(t *testing.T) {
	dates := []Date{"2024-12-01", "2024-01-15", "2023-06-10"}

	SortDates(dates)

	assert.Equal(t, []Date{"2023-06-10", "2024-01-15", "2024-12-01"}, dates)
}

// TestDedupeDates проверяет удаление дубликатов с сохранением порядка
func TestDedupeDates(t *testing.T) {
	dates := []Date{"2024-06-11", "2024-06-10", "2024-06-11", "2024-06-10"}

	assert.Equal(t, []Date{"2024-06-11", "2024-06-10"}, DedupeDates(dates))
}
