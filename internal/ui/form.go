package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/app"
	"studybuddy/internal/state"
)

type formKind int

const (
	formQuickTask formKind = iota
	formTask
	formHabit
)

// form is a multi-field editor driven by a single shared textinput, one
// field visible at a time.
type form struct {
	kind    formKind
	editing bool
	labels  []string
	values  []string
	index   int
}

func newQuickTaskForm() *form {
	return &form{
		kind:   formQuickTask,
		labels: []string{"title", "due date (YYYY-MM-DD)"},
		values: make([]string, 2),
	}
}

func newTaskForm(t *state.Task) *form {
	f := &form{
		kind:   formTask,
		labels: []string{"title", "description", "due date (YYYY-MM-DD)", "priority (low/medium/high)", "category"},
		values: make([]string, 5),
	}
	if t != nil {
		f.editing = true
		f.values = []string{t.Title, t.Description, t.DueDate, string(t.Priority), t.Category}
	}
	return f
}

func newHabitForm(h *state.Habit) *form {
	f := &form{
		kind:   formHabit,
		labels: []string{"name", "goal (1-7 days/week)"},
		values: make([]string, 2),
	}
	if h != nil {
		f.editing = true
		f.values = []string{h.Name, fmt.Sprintf("%d", h.Goal)}
	}
	return f
}

func (f *form) currentLabel() string {
	return f.labels[f.index]
}

func (f *form) currentValue() string {
	return f.values[f.index]
}

func (f *form) setCurrentValue(v string) {
	f.values[f.index] = v
}

func (f *form) taskInput() app.TaskInput {
	if f.kind == formQuickTask {
		return app.TaskInput{
			Title:    f.values[0],
			DueDate:  f.values[1],
			Priority: state.PriorityMedium,
		}
	}
	return app.TaskInput{
		Title:       f.values[0],
		Description: f.values[1],
		DueDate:     f.values[2],
		Priority:    state.Priority(strings.ToLower(strings.TrimSpace(f.values[3]))),
		Category:    f.values[4],
	}
}

func (f *form) habitInput() app.HabitInput {
	return app.HabitInput{Name: f.values[0], Goal: f.values[1]}
}

func (m Model) openForm(f *form) Model {
	m.form = f
	m.mode = modeForm
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.Focus()
	m.status = "Enter to save/next field, tab/shift+tab to move, esc to cancel"
	return m
}

func (m Model) closeForm(status string) Model {
	m.form = nil
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
	m.status = status
	return m
}

func (m Model) updateForm(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeBrowse
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel:
		if m.form.editing {
			switch m.form.kind {
			case formTask:
				m.app.CancelTaskEdit()
			case formHabit:
				m.app.CancelHabitEdit()
			}
		}
		return m.closeForm("Cancelled"), nil
	case "tab":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(m.form.labels))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case "shift+tab":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(m.form.labels))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	case m.cfg.Keys.Confirm:
		m.form.setCurrentValue(m.input.Value())
		if m.form.index < len(m.form.labels)-1 {
			m.form.index++
			m.input.SetValue(m.form.currentValue())
			m.input.Placeholder = m.form.currentLabel()
			return m, nil
		}
		return m.submitForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// submitForm hands the collected fields to the matching operation. A
// validation error keeps the form open with the message in the status line.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	var err error
	var done string

	switch f.kind {
	case formQuickTask:
		in := f.taskInput()
		err = m.app.QuickAddTask(in.Title, in.DueDate)
		done = "Added task"
	case formTask:
		if f.editing {
			err = m.app.SaveTaskEdit(f.taskInput())
			done = "Saved task"
		} else {
			err = m.app.CreateTask(f.taskInput())
			done = "Added task"
		}
	case formHabit:
		if f.editing {
			err = m.app.SaveHabitEdit(f.habitInput())
			done = "Saved habit"
		} else {
			err = m.app.CreateHabit(f.habitInput())
			done = "Added habit"
		}
	}

	if err != nil {
		m.status = err.Error()
		m.form.index = 0
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		return m, nil
	}
	return m.closeForm(done), nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
