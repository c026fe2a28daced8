// Package derive computes view-models from the app state. Everything here
// is a pure function over its inputs: filtering and sorting work on copies
// and never reorder the underlying lists.
package derive

import (
	"sort"
	"strings"
	"time"

	"studybuddy/internal/state"
)

const dateLayout = "2006-01-02"

// Metrics is the dashboard view-model.
type Metrics struct {
	CompletedCount  int
	SoonDueCount    int
	ProgressPercent int
	BestStreak      int
	SoonDue         []state.Task
}

// Dashboard computes the summary counters. A task is "soon due" when it is
// incomplete and its due date is between 0 and soonDueDays calendar days
// from now, comparing dates at day granularity.
func Dashboard(tasks []state.Task, habits []state.Habit, now time.Time, soonDueDays int) Metrics {
	m := Metrics{SoonDue: []state.Task{}}

	for _, t := range tasks {
		if t.Completed {
			m.CompletedCount++
			continue
		}
		diff, ok := daysUntil(now, t.DueDate)
		if ok && diff >= 0 && diff <= soonDueDays {
			m.SoonDue = append(m.SoonDue, t)
		}
	}
	m.SoonDueCount = len(m.SoonDue)

	if total := len(tasks); total > 0 {
		m.ProgressPercent = int(float64(m.CompletedCount)/float64(total)*100 + 0.5)
	}

	for _, h := range habits {
		if streak := MaxStreak(h.Progress); streak > m.BestStreak {
			m.BestStreak = streak
		}
	}
	return m
}

// MaxStreak returns the longest contiguous run of true values.
func MaxStreak(progress []bool) int {
	best, current := 0, 0
	for _, done := range progress {
		if !done {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return best
}

// daysUntil returns the day-granularity difference between now and an ISO
// due date, ignoring time of day. ok is false when the date cannot be parsed.
func daysUntil(now time.Time, dueDate string) (int, bool) {
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return 0, false
	}
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(nowDay).Hours() / 24), true
}

// Task view.

const (
	StatusAll       = "all"
	StatusActive    = "active"
	StatusCompleted = "completed"

	SortDue      = "due"
	SortPriority = "priority"

	// CategoryAll disables the resource category filter.
	CategoryAll = "all"
)

// TaskQuery holds the current filter and sort selections for the task list.
type TaskQuery struct {
	Status   string // all | active | completed
	Category string // substring match, empty matches everything
	Sort     string // due | priority
}

// VisibleTasks filters by status, then by a case-insensitive category
// substring, then sorts. The input slice is never modified.
func VisibleTasks(tasks []state.Task, q TaskQuery) []state.Task {
	out := make([]state.Task, 0, len(tasks))
	category := strings.ToLower(strings.TrimSpace(q.Category))
	for _, t := range tasks {
		if q.Status == StatusActive && t.Completed {
			continue
		}
		if q.Status == StatusCompleted && !t.Completed {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(t.Category), category) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return priorityRank(out[i].Priority) < priorityRank(out[j].Priority)
		})
	case SortDue:
		// Zero-padded ISO dates: lexical order equals chronological order.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DueDate < out[j].DueDate
		})
	}
	return out
}

func priorityRank(p state.Priority) int {
	switch p {
	case state.PriorityHigh:
		return 0
	case state.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Habit week alignment.

// WeekStart returns the ISO date of the most recent occurrence of the
// configured first weekday, counting today itself.
func WeekStart(now time.Time, firstDay time.Weekday) string {
	daysSince := (int(now.Weekday()) - int(firstDay) + 7) % 7
	start := now.AddDate(0, 0, -daysSince)
	return start.Format(dateLayout)
}

// WeekLabels returns the seven short day labels starting at firstDay.
func WeekLabels(firstDay time.Weekday) [state.DaysPerWeek]string {
	names := [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var labels [state.DaysPerWeek]string
	for i := range labels {
		labels[i] = names[(int(firstDay)+i)%7]
	}
	return labels
}

// ReconcileWeek returns the habit aligned to the current week. When the
// stored week start is stale, the copy carries the canonical week start and
// all-false progress and changed is true. Applying it twice with the same
// now is a no-op the second time.
func ReconcileWeek(h state.Habit, now time.Time, firstDay time.Weekday) (state.Habit, bool) {
	current := WeekStart(now, firstDay)
	if h.WeekStart == current && len(h.Progress) == state.DaysPerWeek {
		return h, false
	}
	out := h
	out.WeekStart = current
	out.Progress = make([]bool, state.DaysPerWeek)
	return out, true
}

// HabitSummary counts habits whose completed days meet or exceed their goal.
func HabitSummary(habits []state.Habit) (achieved, total int) {
	for _, h := range habits {
		if DoneDays(h.Progress) >= h.Goal {
			achieved++
		}
	}
	return achieved, len(habits)
}

// DoneDays counts the completed days in a progress sequence.
func DoneDays(progress []bool) int {
	count := 0
	for _, done := range progress {
		if done {
			count++
		}
	}
	return count
}

// Resource view.

// ResourceView is a resource plus its derived favorite flag.
type ResourceView struct {
	state.Resource
	Favorite bool
}

// VisibleResources filters by a case-insensitive search over title and
// description AND an exact category match unless category is "all".
func VisibleResources(resources []state.Resource, favorites []string, search, category string) []ResourceView {
	search = strings.ToLower(strings.TrimSpace(search))
	favSet := make(map[string]bool, len(favorites))
	for _, id := range favorites {
		favSet[id] = true
	}

	out := make([]ResourceView, 0, len(resources))
	for _, r := range resources {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Title), search) &&
			!strings.Contains(strings.ToLower(r.Description), search) {
			continue
		}
		if category != "" && category != CategoryAll && r.Category != category {
			continue
		}
		out = append(out, ResourceView{Resource: r, Favorite: favSet[r.ID]})
	}
	return out
}

// Categories returns the distinct resource categories in first-seen order.
func Categories(resources []state.Resource) []string {
	seen := make(map[string]bool, len(resources))
	out := []string{}
	for _, r := range resources {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}
