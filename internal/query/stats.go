package query

import (
	"math"
	"time"

	"github.com/adanyl0v/todo-assistant/internal/models"
)

// Stats are aggregate counts over a task collection. Overdue, DueSoon and
// HighPriority only count active tasks.
type Stats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Completed    int `json:"completed"`
	Overdue      int `json:"overdue"`
	DueSoon      int `json:"dueSoon"`
	HighPriority int `json:"highPriority"`
}

func Aggregate(tasks []models.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}

		s.Active++
		if IsOverdue(t, now) {
			s.Overdue++
		}
		if IsDueSoon(t, now) {
			s.DueSoon++
		}
		if t.Priority == models.PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}

// PercentCompleted rounds half up and is 0 for an empty collection.
func (s Stats) PercentCompleted() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Floor(float64(s.Completed)/float64(s.Total)*100 + 0.5))
}
