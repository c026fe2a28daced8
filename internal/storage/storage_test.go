package storage

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"studybuddy/internal/state"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleState() state.State {
	st := state.Default()
	st.Tasks = []state.Task{{
		ID:       "t1",
		Title:    "Read ch.3",
		DueDate:  "2026-03-11",
		Priority: state.PriorityMedium,
	}}
	st.Habits = []state.Habit{{
		ID:        "h1",
		Name:      "Read",
		Goal:      5,
		Progress:  []bool{true, false, true, false, false, false, false},
		WeekStart: "2026-03-06",
	}}
	st.Favorites = []string{"r1"}
	st.Settings.Theme = state.ThemeDark
	return st
}

func TestLoadWithoutSavedStateReturnsDefaults(t *testing.T) {
	s := openTestStore(t)
	got := s.Load()
	if !reflect.DeepEqual(got, state.Default()) {
		t.Errorf("Load on empty store = %+v, want defaults", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleState()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := s.Load()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	second := state.Default()
	second.Settings.Theme = state.ThemeDark
	if err := s.Save(second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	got := s.Load()
	if len(got.Tasks) != 0 {
		t.Errorf("old tasks survived the overwrite: %+v", got.Tasks)
	}
	if got.Settings.Theme != state.ThemeDark {
		t.Errorf("Theme = %s, want dark", got.Settings.Theme)
	}
}

func TestLoadCorruptBlobReturnsDefaults(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`INSERT INTO app_state (id, data, updated_at) VALUES (1, ?, ?);`, "{not json", now); err != nil {
		t.Fatalf("inserting corrupt blob: %v", err)
	}
	got := s.Load()
	if !reflect.DeepEqual(got, state.Default()) {
		t.Errorf("corrupt blob should load as defaults, got %+v", got)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save(sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !reflect.DeepEqual(got, state.Default()) {
		t.Errorf("Reset returned %+v, want defaults", got)
	}
	if reloaded := s.Load(); !reflect.DeepEqual(reloaded, state.Default()) {
		t.Errorf("Reset did not persist: %+v", reloaded)
	}
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	got := Normalize(state.State{})
	if got.Tasks == nil || got.Habits == nil || got.Resources == nil || got.Favorites == nil {
		t.Error("nil slices survived Normalize")
	}
	if got.Settings.Theme != state.ThemeLight {
		t.Errorf("Theme = %q, want light", got.Settings.Theme)
	}
}

func TestNormalizeMergesSettingsFieldByField(t *testing.T) {
	// A blob carrying only ui must not wipe the settings default, and a
	// blob carrying only settings must keep the loaded theme.
	var partial state.State
	if err := json.Unmarshal([]byte(`{"ui":{"editingTaskId":"t9"}}`), &partial); err != nil {
		t.Fatal(err)
	}
	got := Normalize(partial)
	if got.Settings.Theme != state.ThemeLight {
		t.Errorf("Theme = %q, want light default", got.Settings.Theme)
	}
	if got.UI.EditingTaskID != "t9" {
		t.Errorf("EditingTaskID = %q, want t9", got.UI.EditingTaskID)
	}

	if err := json.Unmarshal([]byte(`{"settings":{"theme":"dark"}}`), &partial); err != nil {
		t.Fatal(err)
	}
	got = Normalize(partial)
	if got.Settings.Theme != state.ThemeDark {
		t.Errorf("Theme = %q, want loaded dark value", got.Settings.Theme)
	}
}

func TestNormalizeFixesProgressLength(t *testing.T) {
	st := state.Default()
	st.Habits = []state.Habit{
		{ID: "short", Progress: []bool{true, true}},
		{ID: "long", Progress: make([]bool, 12)},
		{ID: "nil"},
	}
	got := Normalize(st)
	for _, h := range got.Habits {
		if len(h.Progress) != state.DaysPerWeek {
			t.Errorf("habit %s progress length = %d, want %d", h.ID, len(h.Progress), state.DaysPerWeek)
		}
	}
	if !got.Habits[0].Progress[0] || !got.Habits[0].Progress[1] {
		t.Error("padding dropped existing progress values")
	}
}

func TestNormalizeRoundTripIsIdentity(t *testing.T) {
	want := sampleState()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var decoded state.State
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if got := Normalize(decoded); !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize(deserialize(serialize(S))) != S:\ngot  %+v\nwant %+v", got, want)
	}
}
