package ui

import (
	"fmt"
	"strings"

	"studybuddy/internal/derive"
	"studybuddy/internal/state"
)

var sectionTitles = [sectionCount]string{"Dashboard", "Tasks", "Habits", "Resources"}

func (m Model) View() string {
	st := m.app.State()
	sty := newStyles(st.Settings.Theme)

	var b strings.Builder
	b.WriteString(sty.title.Render("StudyBuddy"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs(sty))
	b.WriteString("\n\n")

	switch m.section {
	case sectionDashboard:
		b.WriteString(m.renderDashboard(sty))
	case sectionTasks:
		b.WriteString(m.renderTasks(sty))
	case sectionHabits:
		b.WriteString(m.renderHabits(sty))
	case sectionResources:
		b.WriteString(m.renderResources(sty))
	}

	if m.mode == modeForm && m.form != nil {
		b.WriteString("\n")
		b.WriteString(m.renderForm(sty))
	}
	if m.mode == modeSearch {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(sty.muted.Render(m.renderHelp()))
	return b.String()
}

func (m Model) renderTabs(sty styles) string {
	parts := make([]string, 0, sectionCount)
	for i := section(0); i < sectionCount; i++ {
		if i == m.section {
			parts = append(parts, sty.tabActive.Render(sectionTitles[i]))
		} else {
			parts = append(parts, sty.tabInactive.Render(sectionTitles[i]))
		}
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderDashboard(sty styles) string {
	st := m.app.State()
	metrics := derive.Dashboard(st.Tasks, st.Habits, today(), m.cfg.SoonDueDays)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Due soon    : %d\n", metrics.SoonDueCount))
	b.WriteString(fmt.Sprintf("Completed   : %d\n", metrics.CompletedCount))
	b.WriteString(fmt.Sprintf("Best streak : %d\n", metrics.BestStreak))
	b.WriteString(fmt.Sprintf("Progress    : %s %d%% complete\n", progressBar(metrics.ProgressPercent), metrics.ProgressPercent))

	b.WriteString("\nDue in the next days\n")
	if len(metrics.SoonDue) == 0 {
		b.WriteString(sty.muted.Render("No tasks due soon."))
		b.WriteString("\n")
	} else {
		for _, t := range metrics.SoonDue {
			b.WriteString(fmt.Sprintf("  %s — %s\n", t.Title, t.DueDate))
		}
	}
	return b.String()
}

func progressBar(percent int) string {
	const width = 20
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func (m Model) renderTasks(sty styles) string {
	tasks := m.visibleTasks()

	var b strings.Builder
	category := m.taskCategory
	if strings.TrimSpace(category) == "" {
		category = "(any)"
	}
	b.WriteString(sty.muted.Render(fmt.Sprintf("filter: %s • category: %s • sort: %s", m.taskStatus, category, m.taskSort)))
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		b.WriteString("No tasks here. Press 'a' to add one.\n")
		return b.String()
	}

	cursor := clampCursor(m.cursors[sectionTasks], len(tasks))
	for i, t := range tasks {
		marker := " "
		if i == cursor && m.mode == modeBrowse {
			marker = sty.cursor.Render(">")
		}
		checkbox := "[ ]"
		title := t.Title
		if t.Completed {
			checkbox = "[x]"
			title = sty.done.Render(title)
		}

		extras := []string{sty.priority[t.Priority].Render(string(t.Priority))}
		if t.Category != "" {
			extras = append(extras, t.Category)
		}
		extras = append(extras, "due "+t.DueDate)

		b.WriteString(fmt.Sprintf("%s %s %s [%s]\n", marker, checkbox, title, strings.Join(extras, " | ")))
		if t.Description != "" {
			b.WriteString(sty.muted.Render("      " + t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderHabits(sty styles) string {
	habits := m.app.State().Habits
	labels := derive.WeekLabels(m.cfg.WeekStartDay())

	var b strings.Builder
	if len(habits) == 0 {
		b.WriteString("No habits yet. Press 'a' to add one.\n")
		return b.String()
	}

	cursor := clampCursor(m.cursors[sectionHabits], len(habits))
	for i, h := range habits {
		marker := " "
		if i == cursor && m.mode == modeBrowse {
			marker = sty.cursor.Render(">")
		}
		count := derive.DoneDays(h.Progress)
		b.WriteString(fmt.Sprintf("%s %s — goal %d/week (%d/%d)\n", marker, h.Name, h.Goal, count, h.Goal))
		b.WriteString("   ")
		for d := 0; d < state.DaysPerWeek; d++ {
			cell := fmt.Sprintf("%s[ ]", labels[d])
			style := sty.dayOff
			if d < len(h.Progress) && h.Progress[d] {
				cell = fmt.Sprintf("%s[x]", labels[d])
				style = sty.dayOn
			}
			b.WriteString(style.Render(cell))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	achieved, total := derive.HabitSummary(habits)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d goals achieved\n", achieved, total))
	return b.String()
}

func (m Model) renderResources(sty styles) string {
	var b strings.Builder

	switch {
	case m.loadingResources:
		b.WriteString(sty.muted.Render("Loading resources..."))
		b.WriteString("\n\n")
	case m.resourcesErr != "":
		b.WriteString(sty.errText.Render(m.resourcesErr))
		b.WriteString("\n\n")
	}

	search := m.resourceSearch
	if strings.TrimSpace(search) == "" {
		search = "(none)"
	}
	b.WriteString(sty.muted.Render(fmt.Sprintf("search: %s • category: %s", search, m.resourceCategory)))
	b.WriteString("\n\n")

	resources := m.visibleResources()
	if len(resources) == 0 {
		if !m.loadingResources && m.resourcesErr == "" {
			b.WriteString("No matching resources.\n")
		}
		return b.String()
	}

	cursor := clampCursor(m.cursors[sectionResources], len(resources))
	for i, r := range resources {
		marker := " "
		if i == cursor && m.mode == modeBrowse {
			marker = sty.cursor.Render(">")
		}
		star := "☆"
		if r.Favorite {
			star = sty.favorite.Render("★")
		}
		b.WriteString(fmt.Sprintf("%s %s %s [%s]\n", marker, star, r.Title, r.Category))
		if r.Description != "" {
			b.WriteString(sty.muted.Render("     " + r.Description))
			b.WriteString("\n")
		}
		if r.Link != "" {
			b.WriteString(sty.muted.Render("     " + r.Link))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderForm(sty styles) string {
	f := m.form
	var b strings.Builder
	for i, label := range f.labels {
		prefix := " "
		if i == f.index {
			prefix = sty.cursor.Render(">")
		}
		value := f.values[i]
		if i == f.index {
			value = m.input.Value()
		}
		if strings.TrimSpace(value) == "" {
			value = sty.muted.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, label, value))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	common := fmt.Sprintf("%s/%s sections • %s theme • %s reset • %s quit", k.NextSection, k.PrevSection, k.Theme, k.Reset, k.Quit)
	switch m.section {
	case sectionDashboard:
		return fmt.Sprintf("%s quick add • %s", k.Add, common)
	case sectionTasks:
		return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s filter • %s sort • %s category • %s",
			k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.Filter, k.Sort, k.Search, common)
	case sectionHabits:
		return fmt.Sprintf("%s/%s move • %s add • %s edit • 1-7 toggle day • %s delete • %s",
			k.Up, k.Down, k.Add, k.Edit, k.Delete, common)
	case sectionResources:
		return fmt.Sprintf("%s/%s move • %s favorite • %s search • %s category • %s",
			k.Up, k.Down, k.Toggle, k.Search, k.Category, common)
	}
	return common
}
