package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLen   = 100
	DefaultEmoji = "✨"
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Habit is a user-defined recurring action. The streak is a cached value
// derived from the completion dates; it is only written by recompute, never
// set from outside.
type Habit struct {
	ID        string
	Name      string
	Emoji     string
	Color     string
	CreatedAt time.Time

	streak int
	dates  DateSet
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color != "" && !colorRegex.MatchString(color) {
		return "", ErrInvalidColor
	}
	return color, nil
}

func normalizeEmoji(emoji string) string {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return DefaultEmoji
	}
	return emoji
}

func NewHabit(id, name, emoji, color string, createdAt time.Time) (*Habit, error) {
	cleanName, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	cleanColor, err := normalizeColor(color)
	if err != nil {
		return nil, err
	}

	return &Habit{
		ID:        id,
		Name:      cleanName,
		Emoji:     normalizeEmoji(emoji),
		Color:     cleanColor,
		CreatedAt: createdAt,
		dates:     NewDateSet(),
	}, nil
}

// RestoreHabit rebuilds a persisted or imported habit. Only the id and a
// non-blank name are required: stored colors and over-long names are kept as
// they are, since input rules may have changed since they were written. The
// stored streak is ignored and recomputed against today.
func RestoreHabit(id, name, emoji, color string, createdAt time.Time, dates DateSet, today Day) (*Habit, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMalformedSnapshot
	}
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return nil, ErrHabitNameEmpty
	}

	h := &Habit{
		ID:        id,
		Name:      cleanName,
		Emoji:     normalizeEmoji(emoji),
		Color:     strings.TrimSpace(color),
		CreatedAt: createdAt,
		dates:     dates.Clone(),
	}
	h.RefreshStreak(today)
	return h, nil
}

func (h *Habit) Streak() int { return h.streak }

// DatesCompleted returns a copy of the completion set.
func (h *Habit) DatesCompleted() DateSet { return h.dates.Clone() }

func (h *Habit) IsCompletedOn(d Day) bool { return h.dates.Has(d) }

func (h *Habit) CompletionCount() int { return h.dates.Len() }

// Toggle flips the membership of d and recomputes the streak against today.
// It reports whether d is completed afterwards.
func (h *Habit) Toggle(d, today Day) bool {
	completed := true
	if !h.dates.Add(d) {
		h.dates.Remove(d)
		completed = false
	}
	h.RefreshStreak(today)
	return completed
}

// ReplaceDates swaps the whole completion set and recomputes the streak.
func (h *Habit) ReplaceDates(dates DateSet, today Day) {
	h.dates = dates.Clone()
	h.RefreshStreak(today)
}

// RefreshStreak recomputes the cached streak and reports whether it changed.
func (h *Habit) RefreshStreak(today Day) bool {
	streak := ComputeStreak(h.dates, today)
	if streak == h.streak {
		return false
	}
	h.streak = streak
	return true
}

// Update applies the supplied fields. Nothing is written unless every
// supplied field is valid.
func (h *Habit) Update(name, emoji, color *string) error {
	newName, newColor := h.Name, h.Color
	var err error

	if name != nil {
		if newName, err = normalizeName(*name); err != nil {
			return err
		}
	}
	if color != nil {
		if newColor, err = normalizeColor(*color); err != nil {
			return err
		}
	}

	h.Name = newName
	h.Color = newColor
	if emoji != nil {
		h.Emoji = normalizeEmoji(*emoji)
	}
	return nil
}

func (h *Habit) Clone() *Habit {
	c := *h
	c.dates = h.dates.Clone()
	return &c
}

// Equal compares every field, streak and completion set included.
func (h *Habit) Equal(other *Habit) bool {
	return h.ID == other.ID &&
		h.Name == other.Name &&
		h.Emoji == other.Emoji &&
		h.Color == other.Color &&
		h.CreatedAt.Equal(other.CreatedAt) &&
		h.streak == other.streak &&
		h.dates.Equal(other.dates)
}
