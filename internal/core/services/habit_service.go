package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/logger"
)

const maxIDAttempts = 5

var ErrIDExhausted = errors.New("could not generate a unique habit id")

// HabitService owns the habit collection and is the only writer of its
// snapshot. Every mutation runs to completion (mutate, recompute streak,
// persist) before returning. Habits handed out are clones.
type HabitService struct {
	repo   domain.SnapshotRepository
	clock  domain.Clock
	ids    domain.IDGenerator
	logger *log.Logger

	mu     sync.RWMutex
	habits []*domain.Habit
}

type Option func(*HabitService)

func WithClock(c domain.Clock) Option {
	return func(s *HabitService) { s.clock = c }
}

func WithIDGenerator(g domain.IDGenerator) Option {
	return func(s *HabitService) { s.ids = g }
}

func WithLogger(l *log.Logger) Option {
	return func(s *HabitService) { s.logger = l }
}

func NewHabitService(repo domain.SnapshotRepository, opts ...Option) *HabitService {
	s := &HabitService{
		repo:   repo,
		clock:  domain.SystemClock{},
		ids:    domain.UUIDGenerator{},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateHabitInput struct {
	Name  string
	Emoji string
	Color string
}

// UpdateHabitInput carries a partial edit; nil fields are left alone.
// Supplying DatesCompleted replaces the whole set and recomputes the streak.
type UpdateHabitInput struct {
	ID             string
	Name           *string
	Emoji          *string
	Color          *string
	DatesCompleted *[]domain.Day
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func (s *HabitService) Today() domain.Day {
	return domain.Today(s.clock)
}

// Load rehydrates the collection from the snapshot slot. A missing snapshot
// is an empty collection. An unreadable one also yields an empty collection,
// together with an ErrPersistence error the caller may report and ignore.
func (s *HabitService) Load(ctx context.Context) ([]*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits = nil

	data, err := s.repo.Load(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		s.logger.Info("no snapshot found, starting empty")
		return []*domain.Habit{}, nil
	}
	if err != nil {
		s.logger.Warn("snapshot unreadable, starting empty", "err", err)
		return []*domain.Habit{}, persistenceError("load snapshot", err)
	}

	habits, err := domain.DecodeSnapshot(data, s.Today())
	if err != nil {
		s.logger.Warn("snapshot malformed, starting empty", "err", err)
		return []*domain.Habit{}, persistenceError("decode snapshot", err)
	}

	s.habits = habits
	s.logger.Info("snapshot loaded", "habits", len(habits))
	return s.cloneAll(), nil
}

func (s *HabitService) List() []*domain.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cloneAll()
}

func (s *HabitService) Get(id string) (*domain.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrHabitNotFound
	}
	return s.habits[i].Clone(), nil
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.freshID()
	if err != nil {
		return nil, err
	}

	habit, err := domain.NewHabit(id, input.Name, input.Emoji, input.Color, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.habits = append(s.habits, habit)
	s.logger.Debug("habit created", "habit_id", id, "name", habit.Name)

	return habit.Clone(), s.persist(ctx)
}

// ToggleCompletion marks day as completed, or unmarks it if it already was.
// A zero day means today.
func (s *HabitService) ToggleCompletion(ctx context.Context, id string, day domain.Day) (*domain.Habit, error) {
	today := s.Today()
	if day == "" {
		day = today
	} else if !day.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDay, day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrHabitNotFound
	}

	habit := s.habits[i]
	completed := habit.Toggle(day, today)
	s.logger.Debug("completion toggled", "habit_id", id, "day", day, "completed", completed, "streak", habit.Streak())

	return habit.Clone(), s.persist(ctx)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	var dates *domain.DateSet
	if input.DatesCompleted != nil {
		set := domain.NewDateSet()
		for _, d := range *input.DatesCompleted {
			if !d.Valid() {
				return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDay, d)
			}
			set.Add(d)
		}
		dates = &set
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(input.ID)
	if i < 0 {
		return nil, domain.ErrHabitNotFound
	}

	// Work on a copy so a validation failure leaves the stored habit intact.
	habit := s.habits[i].Clone()
	if err := habit.Update(input.Name, input.Emoji, input.Color); err != nil {
		return nil, err
	}
	if dates != nil {
		habit.ReplaceDates(*dates, s.Today())
	}

	s.habits[i] = habit
	return habit.Clone(), s.persist(ctx)
}

// Delete removes the habit. Unknown ids are a no-op.
func (s *HabitService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	s.logger.Debug("habit deleted", "habit_id", id)
	return s.persist(ctx)
}

// ClearAll empties the collection and removes the snapshot.
func (s *HabitService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits = nil
	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("failed to clear snapshot", "err", err)
		return persistenceError("clear snapshot", err)
	}
	s.logger.Info("all habits cleared")
	return nil
}

// RefreshStreaks recomputes every cached streak against today and persists
// only if one of them changed.
func (s *HabitService) RefreshStreaks(ctx context.Context) (int, error) {
	today := s.Today()

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, h := range s.habits {
		if h.RefreshStreak(today) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.persist(ctx)
}

// Export returns a backup document of the current collection.
func (s *HabitService) Export() domain.ExportDocument {
	return domain.NewExportDocument(s.List(), s.clock.Now())
}

// Import replaces the whole collection with the habits in data. A malformed
// document is rejected and the current collection is left untouched.
func (s *HabitService) Import(ctx context.Context, data []byte) ([]*domain.Habit, error) {
	doc, err := domain.DecodeExport(data, s.Today(), s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits = doc.Habits
	s.logger.Info("habits imported", "habits", len(doc.Habits), "version", doc.Version)
	return s.cloneAll(), s.persist(ctx)
}

func (s *HabitService) persist(ctx context.Context) error {
	data, err := domain.EncodeSnapshot(s.habits)
	if err != nil {
		return persistenceError("encode snapshot", err)
	}

	if err := s.repo.Save(ctx, data); err != nil {
		s.logger.Error("failed to save snapshot, changes may not survive a restart", "err", err)
		return persistenceError("save snapshot", err)
	}
	return nil
}

func (s *HabitService) freshID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.ids.NewID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func (s *HabitService) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *HabitService) cloneAll() []*domain.Habit {
	out := make([]*domain.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		out = append(out, h.Clone())
	}
	return out
}
