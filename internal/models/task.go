package models

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// ParseCategory returns CategoryOther for an empty string.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: high 3, medium 2, low 1, unknown 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority returns PriorityMedium for an empty string.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority: %q", s)
	}
	return p, nil
}

type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	DueDate     Date       `json:"dueDate,omitzero"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}
