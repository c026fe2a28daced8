// Package state holds the canonical app data: tasks, habits, resources,
// favorites and settings. Persistence and derivation live elsewhere.
package state

import "github.com/google/uuid"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DaysPerWeek is the length of every habit progress sequence.
const DaysPerWeek = 7

type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"` // yyyy-mm-dd
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Completed   bool     `json:"completed"`
}

// Habit tracks one weekly habit. Progress always has exactly DaysPerWeek
// entries, one per day starting at WeekStart.
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Goal      int    `json:"goal"` // days per week, 1..7
	Progress  []bool `json:"progress"`
	WeekStart string `json:"weekStart"` // yyyy-mm-dd
}

// Resource is read-only data supplied by the resource feed.
type Resource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Link        string `json:"link"`
}

type Settings struct {
	Theme Theme `json:"theme"`
}

// UI holds transient edit markers. They ride along in the persisted blob for
// session convenience but carry no meaning beyond "this entity is mid-edit".
type UI struct {
	EditingTaskID  string `json:"editingTaskId"`
	EditingHabitID string `json:"editingHabitId"`
}

// State is the single source of truth for one user session.
type State struct {
	Tasks     []Task     `json:"tasks"`
	Habits    []Habit    `json:"habits"`
	Resources []Resource `json:"resources"`
	Favorites []string   `json:"favorites"`
	Settings  Settings   `json:"settings"`
	UI        UI         `json:"ui"`
}

// Default builds a fresh default state.
func Default() State {
	return State{
		Tasks:     []Task{},
		Habits:    []Habit{},
		Resources: []Resource{},
		Favorites: []string{},
		Settings:  Settings{Theme: ThemeLight},
		UI:        UI{},
	}
}

// NewID returns a fresh unique entity id.
func NewID() string {
	return uuid.NewString()
}

// FindTask returns a pointer into Tasks, or nil if the id is unknown.
func (s *State) FindTask(id string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// FindHabit returns a pointer into Habits, or nil if the id is unknown.
func (s *State) FindHabit(id string) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}

// IsFavorite reports whether a resource id is in the favorites set.
func (s *State) IsFavorite(resourceID string) bool {
	for _, id := range s.Favorites {
		if id == resourceID {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is one of the three known levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
