package domain

import (
	"math"
	"sort"
	"time"
)

type AggregateStats struct {
	TotalHabits      int     `json:"total_habits"`
	CompletedToday   int     `json:"completed_today"`
	TotalCompletions int     `json:"total_completions"`
	BestStreak       int     `json:"best_streak"`
	AverageStreak    int     `json:"average_streak"`
	TodayRate        float64 `json:"today_rate"`
}

type DailyProgress struct {
	Day       Day `json:"day"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Rate      int `json:"rate"`
}

type WeekdayCount struct {
	Weekday     string `json:"weekday"`
	Completions int    `json:"completions"`
}

type WeekdayBreakdown struct {
	Days    []WeekdayCount `json:"days"`
	BestDay string         `json:"best_day"`
}

type HabitPerformance struct {
	HabitID       string  `json:"habit_id"`
	Name          string  `json:"name"`
	Emoji         string  `json:"emoji"`
	Completions   int     `json:"completions"`
	Streak        int     `json:"streak"`
	LongestStreak int     `json:"longest_streak"`
	Rate          float64 `json:"rate"`
}

type CalendarDay struct {
	Day       Day  `json:"day"`
	Completed bool `json:"completed"`
}

type MonthCalendar struct {
	HabitID        string        `json:"habit_id"`
	Year           int           `json:"year"`
	Month          time.Month    `json:"month"`
	FirstWeekday   time.Weekday  `json:"first_weekday"`
	Days           []CalendarDay `json:"days"`
	Completions    int           `json:"completions"`
	CompletionRate float64       `json:"completion_rate"`
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Aggregate summarises the collection as of today. An empty collection yields
// zeros everywhere.
func Aggregate(habits []*Habit, today Day) AggregateStats {
	stats := AggregateStats{TotalHabits: len(habits)}

	streakSum := 0
	for _, h := range habits {
		if h.IsCompletedOn(today) {
			stats.CompletedToday++
		}
		stats.TotalCompletions += h.CompletionCount()
		streakSum += h.Streak()
		if h.Streak() > stats.BestStreak {
			stats.BestStreak = h.Streak()
		}
	}

	if len(habits) > 0 {
		stats.AverageStreak = int(math.Round(float64(streakSum) / float64(len(habits))))
		stats.TodayRate = float64(stats.CompletedToday) / float64(len(habits)) * 100
	}
	return stats
}

// DailyTrend reports, for each of the days ending at end, how many habits were
// completed that day. Oldest day first.
func DailyTrend(habits []*Habit, end Day, days int) []DailyProgress {
	if days <= 0 {
		return []DailyProgress{}
	}

	out := make([]DailyProgress, 0, days)
	d := RollingWindowStart(end, days)
	for i := 0; i < days; i++ {
		completed := 0
		for _, h := range habits {
			if h.IsCompletedOn(d) {
				completed++
			}
		}
		out = append(out, DailyProgress{
			Day:       d,
			Completed: completed,
			Total:     len(habits),
			Rate:      percent(completed, len(habits)),
		})
		d = d.Next()
	}
	return out
}

// Weekdays counts completions per weekday, Sunday first. Ties for the best day
// go to the earliest weekday.
func Weekdays(habits []*Habit) WeekdayBreakdown {
	var counts [7]int
	for _, h := range habits {
		for _, d := range h.dates.Days() {
			counts[d.Weekday()]++
		}
	}

	out := WeekdayBreakdown{Days: make([]WeekdayCount, 0, 7)}
	best := time.Sunday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out.Days = append(out.Days, WeekdayCount{Weekday: wd.String(), Completions: counts[wd]})
		if counts[wd] > counts[best] {
			best = wd
		}
	}
	out.BestDay = best.String()
	return out
}

// Performance ranks habits by total completions, most first. Rate is the
// completion rate over the windowDays days ending today.
func Performance(habits []*Habit, today Day, windowDays int) []HabitPerformance {
	out := make([]HabitPerformance, 0, len(habits))
	start := RollingWindowStart(today, windowDays)
	for _, h := range habits {
		out = append(out, HabitPerformance{
			HabitID:       h.ID,
			Name:          h.Name,
			Emoji:         h.Emoji,
			Completions:   h.CompletionCount(),
			Streak:        h.Streak(),
			LongestStreak: LongestStreak(h.dates),
			Rate:          CompletionRate(h.dates, start, windowDays),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Completions > out[j].Completions
	})
	return out
}

func BuildMonthCalendar(h *Habit, year int, month time.Month) MonthCalendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cal := MonthCalendar{
		HabitID:      h.ID,
		Year:         year,
		Month:        month,
		FirstWeekday: first.Weekday(),
		Days:         make([]CalendarDay, 0, daysInMonth),
	}

	d := DayOf(first)
	for i := 0; i < daysInMonth; i++ {
		done := h.IsCompletedOn(d)
		if done {
			cal.Completions++
		}
		cal.Days = append(cal.Days, CalendarDay{Day: d, Completed: done})
		d = d.Next()
	}
	cal.CompletionRate = CompletionRate(h.dates, DayOf(first), daysInMonth)
	return cal
}
