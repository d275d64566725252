package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/todo-assistant/internal/query"
)

type getStatsResponse struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Completed        int `json:"completed"`
	Overdue          int `json:"overdue"`
	DueSoon          int `json:"due_soon"`
	HighPriority     int `json:"high_priority"`
	PercentCompleted int `json:"percent_completed"`
}

func newGetStatsResponse(stats query.Stats) getStatsResponse {
	return getStatsResponse{
		Total:            stats.Total,
		Active:           stats.Active,
		Completed:        stats.Completed,
		Overdue:          stats.Overdue,
		DueSoon:          stats.DueSoon,
		HighPriority:     stats.HighPriority,
		PercentCompleted: stats.PercentCompleted(),
	}
}

func (h *handlerImpl) HandleGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, newGetStatsResponse(h.tasks.Stats()))
}
