// Package query derives filtered, sorted views and aggregate statistics from
// a task collection. Every function here is pure: the same tasks, parameters
// and "now" always produce the same result.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/adanyl0v/todo-assistant/internal/models"
)

const All = "all"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const (
	SortCreated  = "created"
	SortPriority = "priority"
	SortDueDate  = "dueDate"
	SortCategory = "category"
)

var ErrInvalidParams = errors.New("invalid view parameters")

// Params selects and orders a view. Empty filter fields mean All and an
// empty SortBy means SortCreated.
type Params struct {
	Search   string
	Category string
	Priority string
	Status   string
	SortBy   string
}

func DefaultParams() Params {
	return Params{
		Category: All,
		Priority: All,
		Status:   All,
		SortBy:   SortCreated,
	}
}

// Validate reports unknown filter or sort values. View itself never fails:
// an unknown filter matches nothing and an unknown sort key falls back to
// SortCreated.
func (p Params) Validate() error {
	if p.Category != "" && p.Category != All && !models.Category(p.Category).Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalidParams, p.Category)
	}
	if p.Priority != "" && p.Priority != All && !models.Priority(p.Priority).Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidParams, p.Priority)
	}
	switch p.Status {
	case "", All, StatusActive, StatusCompleted:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidParams, p.Status)
	}
	switch p.SortBy {
	case "", SortCreated, SortPriority, SortDueDate, SortCategory:
	default:
		return fmt.Errorf("%w: sort %q", ErrInvalidParams, p.SortBy)
	}
	return nil
}

// Match reports whether t passes every filter of p.
func (p Params) Match(t models.Task) bool {
	if p.Search != "" && !strings.Contains(strings.ToLower(t.Text), strings.ToLower(p.Search)) {
		return false
	}
	if !isAll(p.Category) && string(t.Category) != p.Category {
		return false
	}
	if !isAll(p.Priority) && string(t.Priority) != p.Priority {
		return false
	}
	switch p.Status {
	case "", All:
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusActive:
		if t.Completed {
			return false
		}
	default:
		return false
	}
	return true
}

// View returns the tasks matching p, sorted by p.SortBy. The input slice is
// not modified. The sort is stable, so equal-ranked tasks keep their
// collection order.
func View(tasks []models.Task, p Params) []models.Task {
	view := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.Match(t) {
			view = append(view, t.Clone())
		}
	}
	slices.SortStableFunc(view, comparator(p.SortBy))
	return view
}

func comparator(sortBy string) func(a, b models.Task) int {
	switch sortBy {
	case SortPriority:
		return func(a, b models.Task) int {
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortDueDate:
		return func(a, b models.Task) int {
			switch {
			case !a.HasDueDate() && !b.HasDueDate():
				return 0
			case !a.HasDueDate():
				return 1
			case !b.HasDueDate():
				return -1
			}
			return a.DueDate.Compare(b.DueDate)
		}
	case SortCategory:
		return func(a, b models.Task) int {
			return cmp.Compare(a.Category, b.Category)
		}
	default:
		return func(a, b models.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

func isAll(v string) bool {
	return v == "" || v == All
}

// StartOfDay returns midnight of now's calendar day in now's location.
func StartOfDay(now time.Time) time.Time {
	return models.DateOf(now).In(now.Location())
}

// IsOverdue reports whether t has a due date strictly before today. It does
// not look at completion.
func IsOverdue(t models.Task, now time.Time) bool {
	if !t.HasDueDate() {
		return false
	}
	return t.DueDate.In(now.Location()).Before(StartOfDay(now))
}

// IsDueSoon reports whether t is due today or tomorrow.
func IsDueSoon(t models.Task, now time.Time) bool {
	if !t.HasDueDate() {
		return false
	}
	due := t.DueDate.In(now.Location())
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	return !due.Before(today) && !due.After(tomorrow)
}
