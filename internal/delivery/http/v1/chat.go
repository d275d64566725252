package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

type chatRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

type chatMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type chatResponse struct {
	Messages []chatMessage `json:"messages"`
}

// HandleChat answers one user message. The exchange is not stored; clients
// keep their own transcript.
func (h *handlerImpl) HandleChat(c *gin.Context) {
	var req chatRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.logger.Warn().Msg("empty chat message")
		abort(c, newBadRequestError(errEmptyMessage.Error()))
		return
	}

	asked := h.now()
	reply := h.assistant.Respond(message, h.tasks.Tasks())

	h.logger.Debug().
		Int("length", len(message)).
		Msg("answered chat message")
	c.JSON(http.StatusOK, chatResponse{
		Messages: []chatMessage{
			{Role: roleUser, Text: message, Timestamp: asked},
			{Role: roleAssistant, Text: reply, Timestamp: h.now()},
		},
	})
}
