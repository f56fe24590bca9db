package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	ErrStorageCorrupt = errors.New("habit storage is corrupt")
	ErrDuplicateHabit = errors.New("habit already exists")
	ErrHabitNotFound  = errors.New("habit not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// DateLayout is the calendar date format used for completion dates.
const DateLayout = "2006-01-02"

// Habit represents a tracked habit record
type Habit struct {
	Category string   `json:"category"`
	Dates    []string `json:"dates"`
}

// HasDate reports whether the habit was completed on date.
func (h *Habit) HasDate(date string) bool {
	for _, d := range h.Dates {
		if d == date {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the habit
func (h *Habit) Clone() *Habit {
	dates := make([]string, len(h.Dates))
	copy(dates, h.Dates)
	return &Habit{Category: h.Category, Dates: dates}
}

// HabitStore is an insertion-ordered mapping of habit name to record.
// The zero value is not usable; create one with NewHabitStore.
type HabitStore struct {
	names  []string
	habits map[string]*Habit
}

// NewHabitStore creates an empty store
func NewHabitStore() *HabitStore {
	return &HabitStore{habits: make(map[string]*Habit)}
}

// Len returns the number of habits
func (s *HabitStore) Len() int {
	return len(s.names)
}

// Names returns habit names in insertion order
func (s *HabitStore) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Get returns the habit stored under name
func (s *HabitStore) Get(name string) (*Habit, bool) {
	h, ok := s.habits[name]
	return h, ok
}

// Insert adds a habit under a new name. It fails if the name is taken.
func (s *HabitStore) Insert(name string, habit *Habit) error {
	if _, exists := s.habits[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateHabit, name)
	}
	s.names = append(s.names, name)
	s.habits[name] = habit
	return nil
}

// Remove deletes a habit. Used to undo an insert whose persist failed.
func (s *HabitStore) Remove(name string) {
	if _, exists := s.habits[name]; !exists {
		return
	}
	delete(s.habits, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// MarshalJSON writes the store as a JSON object with keys in insertion order.
func (s *HabitStore) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		h := s.habits[name]
		dates := h.Dates
		if dates == nil {
			dates = []string{}
		}
		value, err := json.Marshal(Habit{Category: h.Category, Dates: dates})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, value)
	}
	return t, nil
}

// FormatDate formats the local calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// HabitSummary is a read-only snapshot of one habit
type HabitSummary struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Dates    []string `json:"dates"`
}

// HabitStreak holds streak statistics for one habit
type HabitStreak struct {
	Name          string `json:"name"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Total         int    `json:"total_completions"`
	LastCompleted string `json:"last_completed,omitempty"`
}
