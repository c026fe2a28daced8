package app

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Form messages are surfaced verbatim next to the field, hence the
// sentence casing.
var (
	errTitleRequired = errors.New("Title is required.")
	errDueRequired   = errors.New("Due date is required.")
	errDueInvalid    = errors.New("Due date must be a valid date (YYYY-MM-DD).")
	errNameRequired  = errors.New("Habit name is required.")
	errGoalRange     = errors.New("Goal must be a number from 1 to 7.")
)

// ValidateTask checks the task form fields. The same rule covers the full
// form and the dashboard quick-add.
func ValidateTask(in TaskInput) error {
	if trim(in.Title) == "" {
		return errTitleRequired
	}
	due := trim(in.DueDate)
	if due == "" {
		return errDueRequired
	}
	if _, err := time.Parse("2006-01-02", due); err != nil {
		return errDueInvalid
	}
	return nil
}

// ValidateHabit checks the habit form fields and returns the parsed goal.
func ValidateHabit(in HabitInput) (int, error) {
	if trim(in.Name) == "" {
		return 0, errNameRequired
	}
	goal, err := strconv.Atoi(trim(in.Goal))
	if err != nil || goal < 1 || goal > 7 {
		return 0, errGoalRange
	}
	return goal, nil
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
