package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	// SnapshotKey names the durable slot holding the habit collection.
	SnapshotKey   = "ignitofy-habits"
	ExportVersion = "1.0"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository is a durable key-value slot holding the whole serialized
// habit collection. There is exactly one writer.
type SnapshotRepository interface {
	// Load returns the raw snapshot, or ErrSnapshotNotFound when the slot is empty.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the whole snapshot. A crash mid-write must leave either the
	// old or the new payload, never a partial one.
	Save(ctx context.Context, payload []byte) error

	// Clear removes the snapshot. Clearing an empty slot succeeds.
	Clear(ctx context.Context) error
}

type habitRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Emoji          string    `json:"emoji"`
	Streak         int       `json:"streak"`
	DatesCompleted []Day     `json:"datesCompleted"`
	CreatedAt      time.Time `json:"createdAt"`
	Color          string    `json:"color,omitempty"`
}

func (h Habit) MarshalJSON() ([]byte, error) {
	return json.Marshal(habitRecord{
		ID:             h.ID,
		Name:           h.Name,
		Emoji:          h.Emoji,
		Streak:         h.streak,
		DatesCompleted: h.dates.Days(),
		CreatedAt:      h.CreatedAt,
		Color:          h.Color,
	})
}

// habitWire is the decode-side record; pointers tell a missing field apart
// from a zero one.
type habitWire struct {
	ID             *string    `json:"id"`
	Name           *string    `json:"name"`
	Emoji          *string    `json:"emoji"`
	Streak         *int       `json:"streak"`
	DatesCompleted *DateSet   `json:"datesCompleted"`
	CreatedAt      *time.Time `json:"createdAt"`
	Color          string     `json:"color"`
}

func (w habitWire) complete() bool {
	return w.ID != nil && w.Name != nil && w.Emoji != nil &&
		w.Streak != nil && *w.Streak >= 0 &&
		w.DatesCompleted != nil && w.CreatedAt != nil
}

func EncodeSnapshot(habits []*Habit) ([]byte, error) {
	if habits == nil {
		habits = []*Habit{}
	}
	return json.Marshal(habits)
}

// DecodeSnapshot parses a persisted collection. Any missing required field,
// malformed day, invalid name or duplicate id makes the whole snapshot
// unreadable.
func DecodeSnapshot(data []byte, today Day) ([]*Habit, error) {
	var wires []habitWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	habits := make([]*Habit, 0, len(wires))
	for i, w := range wires {
		if !w.complete() {
			return nil, fmt.Errorf("%w: habit %d is missing required fields", ErrMalformedSnapshot, i)
		}
		h, err := RestoreHabit(*w.ID, *w.Name, *w.Emoji, w.Color, *w.CreatedAt, *w.DatesCompleted, today)
		if err != nil {
			return nil, fmt.Errorf("%w: habit %d: %v", ErrMalformedSnapshot, i, err)
		}
		habits = append(habits, h)
	}

	if err := checkUniqueIDs(habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func checkUniqueIDs(habits []*Habit) error {
	seen := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateHabitID, h.ID)
		}
		seen[h.ID] = struct{}{}
	}
	return nil
}

// ExportDocument is the downloadable backup format.
type ExportDocument struct {
	Habits     []*Habit  `json:"habits"`
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}

func NewExportDocument(habits []*Habit, now time.Time) ExportDocument {
	if habits == nil {
		habits = []*Habit{}
	}
	return ExportDocument{
		Habits:     habits,
		ExportDate: now,
		Version:    ExportVersion,
	}
}

func EncodeExport(doc ExportDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ExportFilename is the suggested download name for a backup taken on day.
func ExportFilename(day Day) string {
	return fmt.Sprintf("ignitofy-backup-%s.json", day)
}

type exportWire struct {
	Habits     *[]habitWire `json:"habits"`
	ExportDate *time.Time   `json:"exportDate"`
	Version    string       `json:"version"`
}

// DecodeExport parses an import document. Each habit needs a non-empty id,
// name and emoji; missing dates mean none, a missing createdAt means now.
func DecodeExport(data []byte, today Day, now time.Time) (*ExportDocument, error) {
	var wire exportWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExport, err)
	}
	if wire.Habits == nil {
		return nil, fmt.Errorf("%w: habits array is required", ErrMalformedExport)
	}

	habits := make([]*Habit, 0, len(*wire.Habits))
	for i, w := range *wire.Habits {
		if w.ID == nil || w.Name == nil || w.Emoji == nil || strings.TrimSpace(*w.Emoji) == "" {
			return nil, fmt.Errorf("%w: habit %d needs id, name and emoji", ErrMalformedExport, i)
		}

		dates := NewDateSet()
		if w.DatesCompleted != nil {
			dates = *w.DatesCompleted
		}
		createdAt := now
		if w.CreatedAt != nil {
			createdAt = *w.CreatedAt
		}

		h, err := RestoreHabit(*w.ID, *w.Name, *w.Emoji, w.Color, createdAt, dates, today)
		if err != nil {
			return nil, fmt.Errorf("%w: habit %d: %v", ErrMalformedExport, i, err)
		}
		habits = append(habits, h)
	}

	if err := checkUniqueIDs(habits); err != nil {
		return nil, err
	}

	doc := &ExportDocument{Habits: habits, Version: wire.Version}
	if wire.ExportDate != nil {
		doc.ExportDate = *wire.ExportDate
	}
	return doc, nil
}
