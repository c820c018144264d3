package domain_test

import (
	"testing"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeStreak(t *testing.T) {
	d := domain.Day("2024-03-10")
	ago := func(n int) domain.Day { return d.AddDays(-n) }

	tests := []struct {
		name  string
		dates domain.DateSet
		want  int
	}{
		{
			name:  "Empty set",
			dates: domain.NewDateSet(),
			want:  0,
		},
		{
			name:  "Only the reference day",
			dates: domain.NewDateSet(d),
			want:  1,
		},
		{
			name:  "Reference day missing zeroes the streak despite a run ending yesterday",
			dates: domain.NewDateSet(ago(1), ago(2)),
			want:  0,
		},
		{
			name:  "Gap stops the backward walk",
			dates: domain.NewDateSet(d, ago(1), ago(2), ago(4)),
			want:  3,
		},
		{
			name:  "Future days do not count",
			dates: domain.NewDateSet(d.AddDays(1), d, ago(1)),
			want:  2,
		},
		{
			name:  "Run across a month boundary",
			dates: domain.NewDateSet("2024-03-01", "2024-02-29", "2024-02-28"),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ComputeStreak(tt.dates, d))
		})
	}

	t.Run("Run across a month boundary anchored on its last day", func(t *testing.T) {
		dates := domain.NewDateSet("2024-03-01", "2024-02-29", "2024-02-28")
		assert.Equal(t, 3, domain.ComputeStreak(dates, "2024-03-01"))
	})
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates domain.DateSet
		want  int
	}{
		{"Empty", domain.NewDateSet(), 0},
		{"Single day", domain.NewDateSet("2024-03-10"), 1},
		{"Longest run in the past", domain.NewDateSet("2024-03-10", "2024-02-01", "2024-02-02", "2024-02-03"), 3},
		{"Two equal runs", domain.NewDateSet("2024-01-01", "2024-01-02", "2024-01-05", "2024-01-06"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.LongestStreak(tt.dates))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	start := domain.Day("2024-03-01")

	t.Run("Empty set is 0", func(t *testing.T) {
		assert.Equal(t, 0.0, domain.CompletionRate(domain.NewDateSet(), start, 7))
	})

	t.Run("Every day present is 100", func(t *testing.T) {
		dates := domain.NewDateSet()
		for i := 0; i < 7; i++ {
			dates.Add(start.AddDays(i))
		}
		assert.Equal(t, 100.0, domain.CompletionRate(dates, start, 7))
	})

	t.Run("Window is inclusive of start and exactly n days long", func(t *testing.T) {
		dates := domain.NewDateSet(start, start.AddDays(3), start.AddDays(4), start.Prev())
		assert.InDelta(t, 50.0, domain.CompletionRate(dates, start, 4), 0.0001)
	})

	t.Run("Non-positive window is 0", func(t *testing.T) {
		assert.Equal(t, 0.0, domain.CompletionRate(domain.NewDateSet(start), start, 0))
	})
}

func TestRollingWindowStart(t *testing.T) {
	assert.Equal(t, domain.Day("2024-03-04"), domain.RollingWindowStart("2024-03-10", 7))
	assert.Equal(t, domain.Day("2024-03-10"), domain.RollingWindowStart("2024-03-10", 1))
}
