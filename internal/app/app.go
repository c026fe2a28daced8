// Package app owns the shared state and applies every user-triggered
// mutation: validate, update, persist, notify. Each operation runs to
// completion before the next begins; there is no finer-grained invalidation
// than "something changed, re-derive everything".
package app

import (
	"time"

	"github.com/charmbracelet/log"

	"studybuddy/internal/config"
	"studybuddy/internal/derive"
	"studybuddy/internal/state"
	"studybuddy/internal/storage"
)

type App struct {
	cfg      config.Config
	store    *storage.Store
	st       state.State
	onChange func()

	// Now is the reference clock for week alignment. Overridable in tests.
	Now func() time.Time
}

// New loads the saved state (or defaults) and wraps it in an App.
func New(cfg config.Config, store *storage.Store) *App {
	return &App{
		cfg:   cfg,
		store: store,
		st:    store.Load(),
		Now:   time.Now,
	}
}

// State exposes the single shared state instance. No caller may keep a
// competing copy; reads go through here every time.
func (a *App) State() *state.State {
	return &a.st
}

func (a *App) Config() config.Config {
	return a.cfg
}

// OnChange registers the observer invoked after every applied mutation.
func (a *App) OnChange(fn func()) {
	a.onChange = fn
}

func (a *App) changed() {
	a.persist()
	if a.onChange != nil {
		a.onChange()
	}
}

func (a *App) persist() {
	if err := a.store.Save(a.st); err != nil {
		log.Error("failed to save state", "err", err)
	}
}

// Tasks.

type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    state.Priority
	Category    string
}

func (a *App) CreateTask(in TaskInput) error {
	if err := ValidateTask(in); err != nil {
		return err
	}
	a.st.Tasks = append(a.st.Tasks, newTask(in))
	a.changed()
	return nil
}

// QuickAddTask is the dashboard quick-add path: title and due date only,
// same validation rule as the full form.
func (a *App) QuickAddTask(title, dueDate string) error {
	return a.CreateTask(TaskInput{
		Title:    title,
		DueDate:  dueDate,
		Priority: state.PriorityMedium,
	})
}

func (a *App) UpdateTask(id string, in TaskInput) error {
	if err := ValidateTask(in); err != nil {
		return err
	}
	t := a.st.FindTask(id)
	if t == nil {
		return nil
	}
	applyTaskInput(t, in)
	a.changed()
	return nil
}

func (a *App) ToggleTaskCompletion(id string) {
	t := a.st.FindTask(id)
	if t == nil {
		return
	}
	t.Completed = !t.Completed
	a.changed()
}

// DeleteTask removes a task by id. Confirmation is the caller's concern.
func (a *App) DeleteTask(id string) {
	kept := a.st.Tasks[:0]
	removed := false
	for _, t := range a.st.Tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	a.st.Tasks = kept
	if id != "" && id == a.st.UI.EditingTaskID {
		a.st.UI.EditingTaskID = ""
	}
	if removed {
		a.changed()
	}
}

// StartTaskEdit marks a task as mid-edit. Unknown ids are ignored.
func (a *App) StartTaskEdit(id string) {
	if a.st.FindTask(id) == nil {
		return
	}
	a.st.UI.EditingTaskID = id
	a.changed()
}

// CancelTaskEdit discards the edit marker without touching the task.
func (a *App) CancelTaskEdit() {
	if a.st.UI.EditingTaskID == "" {
		return
	}
	a.st.UI.EditingTaskID = ""
	a.changed()
}

// SaveTaskEdit applies the form fields onto the task being edited. If the
// task was deleted mid-edit the save is a silent no-op and the edit state
// returns to idle.
func (a *App) SaveTaskEdit(in TaskInput) error {
	id := a.st.UI.EditingTaskID
	if id == "" {
		return nil
	}
	if err := ValidateTask(in); err != nil {
		return err
	}
	a.st.UI.EditingTaskID = ""
	if t := a.st.FindTask(id); t != nil {
		applyTaskInput(t, in)
	}
	a.changed()
	return nil
}

func newTask(in TaskInput) state.Task {
	t := state.Task{ID: state.NewID()}
	applyTaskInput(&t, in)
	return t
}

func applyTaskInput(t *state.Task, in TaskInput) {
	t.Title = trim(in.Title)
	t.Description = trim(in.Description)
	t.DueDate = trim(in.DueDate)
	t.Category = trim(in.Category)
	if state.ValidPriority(in.Priority) {
		t.Priority = in.Priority
	} else {
		t.Priority = state.PriorityMedium
	}
}

// Habits.

type HabitInput struct {
	Name string
	Goal string // raw form input, validated as an integer in [1,7]
}

func (a *App) CreateHabit(in HabitInput) error {
	goal, err := ValidateHabit(in)
	if err != nil {
		return err
	}
	a.st.Habits = append(a.st.Habits, state.Habit{
		ID:        state.NewID(),
		Name:      trim(in.Name),
		Goal:      goal,
		Progress:  make([]bool, state.DaysPerWeek),
		WeekStart: derive.WeekStart(a.Now(), a.cfg.WeekStartDay()),
	})
	a.changed()
	return nil
}

// ToggleHabitDay flips one day cell. Unknown ids and out-of-range day
// indexes are silent no-ops.
func (a *App) ToggleHabitDay(id string, day int) {
	if day < 0 || day >= state.DaysPerWeek {
		return
	}
	h := a.st.FindHabit(id)
	if h == nil {
		return
	}
	if len(h.Progress) != state.DaysPerWeek {
		fixed := make([]bool, state.DaysPerWeek)
		copy(fixed, h.Progress)
		h.Progress = fixed
	}
	h.Progress[day] = !h.Progress[day]
	a.changed()
}

func (a *App) DeleteHabit(id string) {
	kept := a.st.Habits[:0]
	removed := false
	for _, h := range a.st.Habits {
		if h.ID == id {
			removed = true
			continue
		}
		kept = append(kept, h)
	}
	a.st.Habits = kept
	if id != "" && id == a.st.UI.EditingHabitID {
		a.st.UI.EditingHabitID = ""
	}
	if removed {
		a.changed()
	}
}

func (a *App) StartHabitEdit(id string) {
	if a.st.FindHabit(id) == nil {
		return
	}
	a.st.UI.EditingHabitID = id
	a.changed()
}

func (a *App) CancelHabitEdit() {
	if a.st.UI.EditingHabitID == "" {
		return
	}
	a.st.UI.EditingHabitID = ""
	a.changed()
}

// SaveHabitEdit renames a habit and adjusts its goal. Progress and week
// alignment are untouched.
func (a *App) SaveHabitEdit(in HabitInput) error {
	id := a.st.UI.EditingHabitID
	if id == "" {
		return nil
	}
	goal, err := ValidateHabit(in)
	if err != nil {
		return err
	}
	a.st.UI.EditingHabitID = ""
	if h := a.st.FindHabit(id); h != nil {
		h.Name = trim(in.Name)
		h.Goal = goal
	}
	a.changed()
	return nil
}

// ReconcileHabits aligns every habit to the current week. This is the one
// mutation triggered by a read path; callers invoke it once per access
// boundary before deriving habit views. Nothing is persisted when all
// habits are already current.
func (a *App) ReconcileHabits() {
	now := a.Now()
	firstDay := a.cfg.WeekStartDay()
	anyChanged := false
	for i := range a.st.Habits {
		reconciled, changed := derive.ReconcileWeek(a.st.Habits[i], now, firstDay)
		if changed {
			a.st.Habits[i] = reconciled
			anyChanged = true
		}
	}
	if anyChanged {
		a.changed()
	}
}

// Resources and favorites.

// SetResources replaces the resource list wholesale after a feed load.
func (a *App) SetResources(resources []state.Resource) {
	if resources == nil {
		resources = []state.Resource{}
	}
	a.st.Resources = resources
	a.changed()
}

// ToggleFavorite adds or removes a resource id from the favorites set. Ids
// with no matching resource are recorded anyway; views simply render
// nothing for them.
func (a *App) ToggleFavorite(resourceID string) {
	if resourceID == "" {
		return
	}
	for i, id := range a.st.Favorites {
		if id == resourceID {
			a.st.Favorites = append(a.st.Favorites[:i], a.st.Favorites[i+1:]...)
			a.changed()
			return
		}
	}
	a.st.Favorites = append(a.st.Favorites, resourceID)
	a.changed()
}

// Settings.

func (a *App) SetTheme(theme state.Theme) {
	if theme != state.ThemeLight && theme != state.ThemeDark {
		return
	}
	a.st.Settings.Theme = theme
	a.changed()
}

func (a *App) ToggleTheme() {
	if a.st.Settings.Theme == state.ThemeDark {
		a.SetTheme(state.ThemeLight)
	} else {
		a.SetTheme(state.ThemeDark)
	}
}

// ResetAllData replaces the state with defaults and persists immediately,
// overwriting prior saved data.
func (a *App) ResetAllData() {
	st, err := a.store.Reset()
	if err != nil {
		log.Error("failed to reset saved state", "err", err)
	}
	a.st = st
	if a.onChange != nil {
		a.onChange()
	}
}
