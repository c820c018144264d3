package domain

import (
	"sort"

	"github.com/goccy/go-json"
)

// DateSet is a deduplicated set of completion days. The zero value is an empty
// set ready to use, but only sets built by NewDateSet encode as an empty JSON
// array; the zero value encodes as null.
type DateSet struct {
	days map[Day]struct{}
}

func NewDateSet(days ...Day) DateSet {
	s := DateSet{days: make(map[Day]struct{}, len(days))}
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DateSet) Has(d Day) bool {
	_, ok := s.days[d]
	return ok
}

// Add inserts d and reports whether it was absent.
func (s *DateSet) Add(d Day) bool {
	if s.days == nil {
		s.days = make(map[Day]struct{})
	}
	if _, ok := s.days[d]; ok {
		return false
	}
	s.days[d] = struct{}{}
	return true
}

// Remove deletes d and reports whether it was present.
func (s *DateSet) Remove(d Day) bool {
	if _, ok := s.days[d]; !ok {
		return false
	}
	delete(s.days, d)
	return true
}

func (s DateSet) Len() int { return len(s.days) }

// Days returns the members in ascending calendar order.
func (s DateSet) Days() []Day {
	out := make([]Day, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s DateSet) Clone() DateSet {
	c := DateSet{days: make(map[Day]struct{}, len(s.days))}
	for d := range s.days {
		c.days[d] = struct{}{}
	}
	return c
}

func (s DateSet) Equal(other DateSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for d := range s.days {
		if !other.Has(d) {
			return false
		}
	}
	return true
}

func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

// UnmarshalJSON accepts an array of YYYY-MM-DD strings. Duplicates collapse;
// a malformed entry fails the whole decode.
func (s *DateSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := DateSet{days: make(map[Day]struct{}, len(raw))}
	for _, r := range raw {
		d, err := ParseDay(r)
		if err != nil {
			return err
		}
		set.days[d] = struct{}{}
	}
	*s = set
	return nil
}
