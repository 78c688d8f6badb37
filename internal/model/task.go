package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts a priority name, case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

// Category groups tasks by area of life.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth}

// ParseCategory accepts a category name, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// DueDateLayout is the layout of Task.DueDate.
const DueDateLayout = "2006-01-02"

// Task is a single to-do item. The JSON shape matches the persisted "todos" array.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Category    Category  `json:"category"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
	DueDate     string    `json:"dueDate,omitempty"`
}

// Due parses DueDate in loc. ok is false when no due date is set or it does not parse.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DueDateLayout, t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// NewTask carries the caller-supplied fields of a task being created.
type NewTask struct {
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Category    Category
	DueDate     string
}
