package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
)

var (
	ErrEmptyText        = errors.New("task text is empty")
	ErrInvalidCategory  = errors.New("invalid task category")
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrTaskNotFound     = errors.New("task not found")
	ErrAuthDisabled     = errors.New("auth disabled")
	ErrPasswordMismatch = errors.New("password mismatch")
)

// TaskService owns the ordered task collection. Every successful mutation
// writes the whole collection to the storage backend; a failed write is
// logged and never returned to the caller.
type TaskService interface {
	// Load replaces the collection with the one saved in the backend.
	//
	// Missing, unreadable or malformed data leaves an empty collection.
	Load(ctx context.Context)

	// Add appends a new active task.
	//
	// It returns ErrEmptyText if the trimmed text is empty and
	// ErrInvalidCategory or ErrInvalidPriority for unknown values.
	// Empty category and priority default to other and medium.
	Add(ctx context.Context, params AddTaskParams) (*models.Task, error)

	// Get returns a copy of the task or ErrTaskNotFound.
	Get(id string) (*models.Task, error)

	// Edit replaces the text of a task. Nothing else can be edited.
	//
	// It returns ErrEmptyText if the trimmed text is empty and
	// ErrTaskNotFound if there is no such task. In both cases the
	// collection is left unchanged.
	Edit(ctx context.Context, params EditTaskParams) (*models.Task, error)

	// ToggleComplete flips the completion of a task, setting or clearing
	// its completion time. It returns ErrTaskNotFound for a missing id.
	ToggleComplete(ctx context.Context, id string) (*models.Task, error)

	// Delete removes a task. It returns ErrTaskNotFound for a missing id.
	Delete(ctx context.Context, id string) error

	// ClearCompleted removes every completed task and returns how many
	// were removed.
	ClearCompleted(ctx context.Context) int

	// Tasks returns a copy of the collection in insertion order.
	Tasks() []models.Task

	// View returns the filtered and sorted view of the collection.
	View(params query.Params) []models.Task

	// Stats returns aggregate statistics of the collection.
	Stats() query.Stats
}

// AuthService guards the API with a single owner password. When no password
// hash is configured it is disabled and Login returns ErrAuthDisabled.
type AuthService interface {
	Enabled() bool

	// Login checks the owner password and issues an access token.
	//
	// It returns ErrPasswordMismatch if the password is wrong.
	Login(ctx context.Context, password string) (*LoginResult, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or an error wrapping jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type AddTaskParams struct {
	Text     string
	Category string
	Priority string
	DueDate  models.Date
}

type EditTaskParams struct {
	ID   string
	Text string
}

type LoginResult struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
}
