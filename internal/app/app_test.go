package app

import (
	"path/filepath"
	"testing"
	"time"

	"studybuddy/internal/config"
	"studybuddy/internal/state"
	"studybuddy/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{
		DBPath:      "unused",
		SoonDueDays: 2,
		WeekStart:   "friday",
	}
	a := New(cfg, store)
	a.Now = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	return a
}

func validTask() TaskInput {
	return TaskInput{
		Title:    "Read ch.3",
		DueDate:  "2026-03-11",
		Priority: state.PriorityMedium,
	}
}

func TestCreateTask(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	tasks := a.State().Tasks
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].ID == "" {
		t.Error("task created without an id")
	}
	if tasks[0].Completed {
		t.Error("new task should start incomplete")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	a := newTestApp(t)
	tests := []struct {
		name string
		in   TaskInput
	}{
		{"empty title", TaskInput{Title: "   ", DueDate: "2026-03-11"}},
		{"missing due date", TaskInput{Title: "x"}},
		{"bad due date", TaskInput{Title: "x", DueDate: "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.CreateTask(tt.in); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
	if len(a.State().Tasks) != 0 {
		t.Errorf("rejected input still created %d tasks", len(a.State().Tasks))
	}
}

func TestUpdateTaskUnknownIDIsNoOp(t *testing.T) {
	a := newTestApp(t)
	if err := a.UpdateTask("ghost", validTask()); err != nil {
		t.Errorf("update of unknown id should be silent, got %v", err)
	}
	if len(a.State().Tasks) != 0 {
		t.Error("no task should exist")
	}
}

func TestToggleTaskCompletion(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	id := a.State().Tasks[0].ID

	a.ToggleTaskCompletion(id)
	if !a.State().Tasks[0].Completed {
		t.Error("task should be completed after toggle")
	}
	a.ToggleTaskCompletion(id)
	if a.State().Tasks[0].Completed {
		t.Error("task should be incomplete after second toggle")
	}
}

func TestDeleteTask(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	id := a.State().Tasks[0].ID
	a.DeleteTask(id)
	if len(a.State().Tasks) != 0 {
		t.Error("task not deleted")
	}
	a.DeleteTask("ghost") // no-op
}

func TestTaskEditLifecycle(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	id := a.State().Tasks[0].ID

	a.StartTaskEdit(id)
	if a.State().UI.EditingTaskID != id {
		t.Fatalf("EditingTaskID = %q, want %q", a.State().UI.EditingTaskID, id)
	}

	in := validTask()
	in.Title = "Read ch.4"
	if err := a.SaveTaskEdit(in); err != nil {
		t.Fatalf("SaveTaskEdit failed: %v", err)
	}
	if a.State().UI.EditingTaskID != "" {
		t.Error("edit marker not cleared on save")
	}
	if a.State().Tasks[0].Title != "Read ch.4" {
		t.Errorf("Title = %q, want Read ch.4", a.State().Tasks[0].Title)
	}
}

func TestSaveTaskEditOfDeletedTaskIsNoOp(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	id := a.State().Tasks[0].ID

	a.StartTaskEdit(id)
	a.DeleteTask(id)

	if err := a.SaveTaskEdit(validTask()); err != nil {
		t.Errorf("save against deleted task should be silent, got %v", err)
	}
	if a.State().UI.EditingTaskID != "" {
		t.Error("edit marker should return to idle")
	}
	if len(a.State().Tasks) != 0 {
		t.Error("no task should have been created")
	}
}

func TestStartTaskEditUnknownIDStaysIdle(t *testing.T) {
	a := newTestApp(t)
	a.StartTaskEdit("ghost")
	if a.State().UI.EditingTaskID != "" {
		t.Error("unknown id must not enter editing state")
	}
}

func TestCreateHabit(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateHabit(HabitInput{Name: "Read", Goal: "5"}); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	habits := a.State().Habits
	if len(habits) != 1 {
		t.Fatalf("got %d habits, want 1", len(habits))
	}
	h := habits[0]
	if h.Goal != 5 {
		t.Errorf("Goal = %d, want 5", h.Goal)
	}
	if len(h.Progress) != state.DaysPerWeek {
		t.Errorf("Progress length = %d, want %d", len(h.Progress), state.DaysPerWeek)
	}
	// 2026-03-10 is a Tuesday; the Friday-based week started 2026-03-06.
	if h.WeekStart != "2026-03-06" {
		t.Errorf("WeekStart = %s, want 2026-03-06", h.WeekStart)
	}
}

func TestCreateHabitGoalValidation(t *testing.T) {
	a := newTestApp(t)
	for _, goal := range []string{"8", "0", "-1", "five", "", "2.5"} {
		if err := a.CreateHabit(HabitInput{Name: "Read", Goal: goal}); err == nil {
			t.Errorf("goal %q: expected a validation error", goal)
		} else if err.Error() != "Goal must be a number from 1 to 7." {
			t.Errorf("goal %q: message = %q", goal, err.Error())
		}
	}
	if len(a.State().Habits) != 0 {
		t.Errorf("rejected input still created %d habits", len(a.State().Habits))
	}
}

func TestToggleHabitDay(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateHabit(HabitInput{Name: "Read", Goal: "5"}); err != nil {
		t.Fatal(err)
	}
	id := a.State().Habits[0].ID

	a.ToggleHabitDay(id, 0)
	a.ToggleHabitDay(id, 6)
	if !a.State().Habits[0].Progress[0] || !a.State().Habits[0].Progress[6] {
		t.Error("day toggles not applied")
	}

	a.ToggleHabitDay(id, 0)
	if a.State().Habits[0].Progress[0] {
		t.Error("second toggle should flip the day back")
	}

	// Out-of-range indexes and unknown ids are no-ops.
	a.ToggleHabitDay(id, -1)
	a.ToggleHabitDay(id, 7)
	a.ToggleHabitDay("ghost", 0)
}

func TestReconcileHabitsRollsStaleWeeks(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateHabit(HabitInput{Name: "Read", Goal: "5"}); err != nil {
		t.Fatal(err)
	}
	id := a.State().Habits[0].ID
	a.ToggleHabitDay(id, 0)
	a.ToggleHabitDay(id, 1)

	// Same week: nothing changes.
	a.ReconcileHabits()
	if !a.State().Habits[0].Progress[0] {
		t.Fatal("progress reset within the same week")
	}

	// Jump past the next week boundary.
	a.Now = func() time.Time {
		return time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	}
	a.ReconcileHabits()
	h := a.State().Habits[0]
	if h.WeekStart != "2026-03-20" {
		t.Errorf("WeekStart = %s, want 2026-03-20", h.WeekStart)
	}
	for i, done := range h.Progress {
		if done {
			t.Errorf("Progress[%d] not reset after rollover", i)
		}
	}
}

func TestToggleFavorite(t *testing.T) {
	a := newTestApp(t)

	// Favoriting an id with no matching resource is allowed.
	a.ToggleFavorite("ghost")
	if !a.State().IsFavorite("ghost") {
		t.Error("favorite not recorded")
	}
	a.ToggleFavorite("ghost")
	if a.State().IsFavorite("ghost") {
		t.Error("favorite not removed on second toggle")
	}
}

func TestSetResourcesReplacesWholesale(t *testing.T) {
	a := newTestApp(t)
	a.SetResources([]state.Resource{{ID: "r1", Title: "Guide"}})
	a.SetResources([]state.Resource{{ID: "r2", Title: "Other"}})
	resources := a.State().Resources
	if len(resources) != 1 || resources[0].ID != "r2" {
		t.Errorf("resources = %+v, want only r2", resources)
	}
}

func TestThemeToggle(t *testing.T) {
	a := newTestApp(t)
	if a.State().Settings.Theme != state.ThemeLight {
		t.Fatalf("default theme = %s, want light", a.State().Settings.Theme)
	}
	a.ToggleTheme()
	if a.State().Settings.Theme != state.ThemeDark {
		t.Error("toggle should switch to dark")
	}
	a.SetTheme("neon") // invalid, ignored
	if a.State().Settings.Theme != state.ThemeDark {
		t.Error("invalid theme should be ignored")
	}
}

func TestResetAllData(t *testing.T) {
	a := newTestApp(t)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	a.ToggleFavorite("r1")
	a.ResetAllData()

	st := a.State()
	if len(st.Tasks) != 0 || len(st.Favorites) != 0 {
		t.Error("reset left data behind")
	}
	if st.Settings.Theme != state.ThemeLight {
		t.Errorf("Theme = %s, want light", st.Settings.Theme)
	}
}

func TestOnChangeNotification(t *testing.T) {
	a := newTestApp(t)
	calls := 0
	a.OnChange(func() { calls++ })

	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("calls = %d after create, want 1", calls)
	}

	// Validation failures must not notify.
	if err := a.CreateTask(TaskInput{}); err == nil {
		t.Fatal("expected validation error")
	}
	if calls != 1 {
		t.Errorf("calls = %d after rejected create, want 1", calls)
	}

	// Reconcile with nothing stale must not notify either.
	a.ReconcileHabits()
	if calls != 1 {
		t.Errorf("calls = %d after idle reconcile, want 1", calls)
	}
}

func TestStatePersistsAcrossApps(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	cfg := config.Config{SoonDueDays: 2, WeekStart: "friday"}

	a := New(cfg, store)
	if err := a.CreateTask(validTask()); err != nil {
		t.Fatal(err)
	}

	b := New(cfg, store)
	if len(b.State().Tasks) != 1 {
		t.Errorf("second app loaded %d tasks, want 1", len(b.State().Tasks))
	}
}
