package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	t.Run("Same local day normalizes to the same key", func(t *testing.T) {
		morning := time.Date(2024, 3, 10, 0, 5, 0, 0, rome)
		night := time.Date(2024, 3, 10, 23, 55, 0, 0, rome)

		assert.Equal(t, domain.DayOf(morning), domain.DayOf(night))
		assert.Equal(t, domain.Day("2024-03-10"), domain.DayOf(morning))
	})

	t.Run("Uses the local calendar, not UTC", func(t *testing.T) {
		// 00:30 in Rome is still the previous day in UTC.
		local := time.Date(2024, 3, 10, 0, 30, 0, 0, rome)

		assert.Equal(t, domain.Day("2024-03-10"), domain.DayOf(local))
		assert.Equal(t, domain.Day("2024-03-09"), domain.DayOf(local.UTC()))
	})
}

func TestDay_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		day  domain.Day
		n    int
		want domain.Day
	}{
		{"Previous day", "2024-03-10", -1, "2024-03-09"},
		{"Month boundary", "2024-03-01", -1, "2024-02-29"},
		{"Year boundary", "2024-01-01", -1, "2023-12-31"},
		{"Across DST change in Europe", "2024-03-30", 2, "2024-04-01"},
		{"Forward a week", "2024-12-28", 7, "2025-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.AddDays(tt.n))
		})
	}
}

func TestParseDay(t *testing.T) {
	d, err := domain.ParseDay(" 2024-03-10 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Day("2024-03-10"), d)

	for _, bad := range []string{"", "2024-3-10", "10/03/2024", "2024-02-30", "today"} {
		_, err := domain.ParseDay(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidDay, bad)
	}
}

func TestDateSet(t *testing.T) {
	t.Run("Add is idempotent", func(t *testing.T) {
		var s domain.DateSet

		assert.True(t, s.Add("2024-03-10"))
		assert.False(t, s.Add("2024-03-10"))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("Days are sorted regardless of insertion order", func(t *testing.T) {
		s := domain.NewDateSet("2024-03-10", "2024-01-02", "2024-02-15")

		assert.Equal(t, []domain.Day{"2024-01-02", "2024-02-15", "2024-03-10"}, s.Days())
	})

	t.Run("JSON decode drops duplicates and rejects bad days", func(t *testing.T) {
		var s domain.DateSet
		require.NoError(t, json.Unmarshal([]byte(`["2024-03-10","2024-03-09","2024-03-10"]`), &s))
		assert.Equal(t, 2, s.Len())

		out, err := json.Marshal(s)
		require.NoError(t, err)
		assert.JSONEq(t, `["2024-03-09","2024-03-10"]`, string(out))

		err = json.Unmarshal([]byte(`["2024-13-01"]`), &s)
		assert.ErrorIs(t, err, domain.ErrInvalidDay)
	})

	t.Run("Empty set encodes as empty array", func(t *testing.T) {
		out, err := json.Marshal(domain.NewDateSet())
		require.NoError(t, err)
		assert.Equal(t, "[]", string(out))
	})
}
