// Package ui renders the four tracker sections with Bubble Tea. It owns no
// data: every view is re-derived from the app state on each render, and
// every key lands in a named app operation.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"studybuddy/internal/app"
	"studybuddy/internal/config"
	"studybuddy/internal/derive"
	"studybuddy/internal/feed"
	"studybuddy/internal/state"
)

type section int

const (
	sectionDashboard section = iota
	sectionTasks
	sectionHabits
	sectionResources
	sectionCount
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeSearch
	modeConfirm
)

type confirmAction int

const (
	confirmDeleteTask confirmAction = iota
	confirmDeleteHabit
	confirmReset
)

type confirmState struct {
	action confirmAction
	id     string
}

type resourcesLoadedMsg struct {
	resources []state.Resource
}

type resourcesFailedMsg struct {
	err error
}

type Model struct {
	app   *app.App
	cfg   config.Config
	input textinput.Model

	section section
	mode    mode
	cursors [sectionCount]int
	status  string

	form    *form
	confirm *confirmState

	taskStatus   string
	taskCategory string
	taskSort     string

	resourceSearch   string
	resourceCategory string
	loadingResources bool
	resourcesErr     string
}

func Run(a *app.App) error {
	a.ReconcileHabits()

	cfg := a.Config()
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		app:              a,
		cfg:              cfg,
		input:            ti,
		status:           "Tab to switch sections. Press 'a' to add.",
		taskStatus:       cfg.DefaultFilter,
		taskSort:         cfg.DefaultSort,
		resourceCategory: derive.CategoryAll,
		loadingResources: true,
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return loadResourcesCmd(m.cfg.ResourcesPath)
}

func loadResourcesCmd(source string) tea.Cmd {
	return func() tea.Msg {
		resources, err := feed.Load(context.Background(), source)
		if err != nil {
			return resourcesFailedMsg{err: err}
		}
		return resourcesLoadedMsg{resources: resources}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resourcesLoadedMsg:
		m.app.SetResources(msg.resources)
		m.loadingResources = false
		m.resourcesErr = ""
		m.status = fmt.Sprintf("Loaded %d resources.", len(msg.resources))
		return m, nil
	case resourcesFailedMsg:
		m.loadingResources = false
		m.resourcesErr = "Failed to load resources."
		return m, nil
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg.String())
		case modeForm:
			return m.updateForm(msg.String(), msg)
		case modeSearch:
			return m.updateSearch(msg.String(), msg)
		}
		return m.updateBrowse(msg.String())
	}
	return m, nil
}

func (m Model) updateBrowse(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case "ctrl+c", keys.Quit:
		return m, tea.Quit
	case keys.NextSection:
		return m.switchSection((m.section + 1) % sectionCount), nil
	case keys.PrevSection:
		return m.switchSection((m.section - 1 + sectionCount) % sectionCount), nil
	case keys.Down, "down":
		n := m.listLen()
		if n > 0 {
			m.cursors[m.section] = clampCursor(m.cursors[m.section]+1, n)
		}
		return m, nil
	case keys.Up, "up":
		if m.cursors[m.section] > 0 {
			m.cursors[m.section] = clampCursor(m.cursors[m.section]-1, m.listLen())
		}
		return m, nil
	case keys.Theme:
		m.app.ToggleTheme()
		m.status = "Theme: " + string(m.app.State().Settings.Theme)
		return m, nil
	case keys.Reset:
		m.confirm = &confirmState{action: confirmReset}
		m.mode = modeConfirm
		m.status = "Reset all local data? y/n"
		return m, nil
	}

	switch m.section {
	case sectionDashboard:
		return m.updateDashboardKeys(key)
	case sectionTasks:
		return m.updateTaskKeys(key)
	case sectionHabits:
		return m.updateHabitKeys(key)
	case sectionResources:
		return m.updateResourceKeys(key)
	}
	return m, nil
}

func (m Model) switchSection(next section) Model {
	m.section = next
	if next == sectionHabits {
		// Habit views run through the week check once per access.
		m.app.ReconcileHabits()
	}
	return m
}

func (m Model) updateDashboardKeys(key string) (tea.Model, tea.Cmd) {
	if key == m.cfg.Keys.Add {
		return m.openForm(newQuickTaskForm()), nil
	}
	return m, nil
}

func (m Model) updateTaskKeys(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case keys.Add:
		return m.openForm(newTaskForm(nil)), nil
	case keys.Edit:
		t := m.selectedTask()
		if t == nil {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.app.StartTaskEdit(t.ID)
		return m.openForm(newTaskForm(t)), nil
	case keys.Toggle:
		t := m.selectedTask()
		if t == nil {
			return m, nil
		}
		m.app.ToggleTaskCompletion(t.ID)
		m.status = "Toggled task"
		return m, nil
	case keys.Delete:
		t := m.selectedTask()
		if t == nil {
			return m, nil
		}
		m.confirm = &confirmState{action: confirmDeleteTask, id: t.ID}
		m.mode = modeConfirm
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
		return m, nil
	case keys.Filter:
		m.taskStatus = nextTaskStatus(m.taskStatus)
		m.cursors[sectionTasks] = 0
		m.status = "Filter: " + m.taskStatus
		return m, nil
	case keys.Sort:
		if m.taskSort == derive.SortDue {
			m.taskSort = derive.SortPriority
		} else {
			m.taskSort = derive.SortDue
		}
		m.status = "Sort: " + m.taskSort
		return m, nil
	case keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.taskCategory)
		m.input.Placeholder = "category filter"
		m.input.Focus()
		m.status = "Type a category filter, enter to apply, esc to cancel"
		return m, nil
	}
	return m, nil
}

func (m Model) updateHabitKeys(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case keys.Add:
		return m.openForm(newHabitForm(nil)), nil
	case keys.Edit:
		h := m.selectedHabit()
		if h == nil {
			m.status = "No habits to edit"
			return m, nil
		}
		m.app.StartHabitEdit(h.ID)
		return m.openForm(newHabitForm(h)), nil
	case keys.Delete:
		h := m.selectedHabit()
		if h == nil {
			return m, nil
		}
		m.confirm = &confirmState{action: confirmDeleteHabit, id: h.ID}
		m.mode = modeConfirm
		m.status = fmt.Sprintf("Delete %q? y/n", h.Name)
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7":
		h := m.selectedHabit()
		if h == nil {
			return m, nil
		}
		day, _ := strconv.Atoi(key)
		m.app.ToggleHabitDay(h.ID, day-1)
		return m, nil
	}
	return m, nil
}

func (m Model) updateResourceKeys(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case keys.Toggle:
		r := m.selectedResource()
		if r == nil {
			return m, nil
		}
		m.app.ToggleFavorite(r.ID)
		return m, nil
	case keys.Category:
		m.resourceCategory = nextCategory(m.resourceCategory, derive.Categories(m.app.State().Resources))
		m.cursors[sectionResources] = 0
		m.status = "Category: " + m.resourceCategory
		return m, nil
	case keys.Search:
		m.mode = modeSearch
		m.input.SetValue(m.resourceSearch)
		m.input.Placeholder = "search resources"
		m.input.Focus()
		m.status = "Type a search term, enter to apply, esc to cancel"
		return m, nil
	}
	return m, nil
}

func (m Model) updateSearch(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		value := m.input.Value()
		if m.section == sectionResources {
			m.resourceSearch = value
		} else {
			m.taskCategory = value
		}
		m.cursors[m.section] = 0
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Filter applied"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	if m.confirm == nil {
		m.mode = modeBrowse
		return m, nil
	}
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Cancelled"
		m.confirm = nil
		m.mode = modeBrowse
		return m, nil
	case "y", "Y":
		switch m.confirm.action {
		case confirmDeleteTask:
			m.app.DeleteTask(m.confirm.id)
			m.status = "Deleted task"
		case confirmDeleteHabit:
			m.app.DeleteHabit(m.confirm.id)
			m.status = "Deleted habit"
		case confirmReset:
			m.app.ResetAllData()
			m.taskStatus = m.cfg.DefaultFilter
			m.taskCategory = ""
			m.resourceSearch = ""
			m.resourceCategory = derive.CategoryAll
			m.cursors = [sectionCount]int{}
			m.status = "All data reset"
		}
		m.confirm = nil
		m.mode = modeBrowse
		return m, nil
	default:
		return m, nil
	}
}

// Selection helpers resolve the cursor against the same derived view the
// renderer shows, so keys always act on what the user sees.

func (m Model) visibleTasks() []state.Task {
	st := m.app.State()
	return derive.VisibleTasks(st.Tasks, derive.TaskQuery{
		Status:   m.taskStatus,
		Category: m.taskCategory,
		Sort:     m.taskSort,
	})
}

func (m Model) visibleResources() []derive.ResourceView {
	st := m.app.State()
	return derive.VisibleResources(st.Resources, st.Favorites, m.resourceSearch, m.resourceCategory)
}

func (m Model) selectedTask() *state.Task {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		return nil
	}
	t := tasks[clampCursor(m.cursors[sectionTasks], len(tasks))]
	return &t
}

func (m Model) selectedHabit() *state.Habit {
	habits := m.app.State().Habits
	if len(habits) == 0 {
		return nil
	}
	h := habits[clampCursor(m.cursors[sectionHabits], len(habits))]
	return &h
}

func (m Model) selectedResource() *state.Resource {
	resources := m.visibleResources()
	if len(resources) == 0 {
		return nil
	}
	r := resources[clampCursor(m.cursors[sectionResources], len(resources))].Resource
	return &r
}

func (m Model) listLen() int {
	switch m.section {
	case sectionTasks:
		return len(m.visibleTasks())
	case sectionHabits:
		return len(m.app.State().Habits)
	case sectionResources:
		return len(m.visibleResources())
	}
	return 0
}

func nextTaskStatus(current string) string {
	switch current {
	case derive.StatusAll:
		return derive.StatusActive
	case derive.StatusActive:
		return derive.StatusCompleted
	default:
		return derive.StatusAll
	}
}

func nextCategory(current string, categories []string) string {
	options := append([]string{derive.CategoryAll}, categories...)
	for i, c := range options {
		if c == current {
			return options[(i+1)%len(options)]
		}
	}
	return derive.CategoryAll
}

func today() time.Time {
	return time.Now()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
