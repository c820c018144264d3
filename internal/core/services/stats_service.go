package services

import (
	"time"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

// HabitReader is the read side of the habit store.
type HabitReader interface {
	List() []*domain.Habit
	Get(id string) (*domain.Habit, error)
	Today() domain.Day
}

const MaxWindowDays = 366

// StatsService derives read-only views from the current collection. Nothing
// here mutates habits.
type StatsService struct {
	habits HabitReader
}

func NewStatsService(habits HabitReader) *StatsService {
	return &StatsService{habits: habits}
}

func validWindow(days int) error {
	if days < 1 || days > MaxWindowDays {
		return domain.ErrInvalidWindow
	}
	return nil
}

// IsCompletedToday reports whether the habit has today marked. Unknown ids
// are simply not completed.
func (s *StatsService) IsCompletedToday(id string) bool {
	h, err := s.habits.Get(id)
	if err != nil {
		return false
	}
	return h.IsCompletedOn(s.habits.Today())
}

// CompletionRate is the habit's completion percentage over the days-long
// window ending today.
func (s *StatsService) CompletionRate(id string, days int) (float64, error) {
	if err := validWindow(days); err != nil {
		return 0, err
	}
	h, err := s.habits.Get(id)
	if err != nil {
		return 0, err
	}
	today := s.habits.Today()
	return domain.CompletionRate(h.DatesCompleted(), domain.RollingWindowStart(today, days), days), nil
}

func (s *StatsService) Aggregate() domain.AggregateStats {
	return domain.Aggregate(s.habits.List(), s.habits.Today())
}

func (s *StatsService) Trend(days int) ([]domain.DailyProgress, error) {
	if err := validWindow(days); err != nil {
		return nil, err
	}
	return domain.DailyTrend(s.habits.List(), s.habits.Today(), days), nil
}

func (s *StatsService) Weekdays() domain.WeekdayBreakdown {
	return domain.Weekdays(s.habits.List())
}

func (s *StatsService) Performance(days int) ([]domain.HabitPerformance, error) {
	if err := validWindow(days); err != nil {
		return nil, err
	}
	return domain.Performance(s.habits.List(), s.habits.Today(), days), nil
}

func (s *StatsService) Calendar(id string, year int, month time.Month) (*domain.MonthCalendar, error) {
	if month < time.January || month > time.December {
		return nil, domain.ErrInvalidMonth
	}
	h, err := s.habits.Get(id)
	if err != nil {
		return nil, err
	}
	cal := domain.BuildMonthCalendar(h, year, month)
	return &cal, nil
}
