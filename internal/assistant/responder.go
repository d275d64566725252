// Package assistant answers chat messages about the task list. It matches
// the message against an ordered table of keyword rules; the first rule that
// matches builds the reply from live statistics of the collection.
package assistant

import (
	"math/rand"
	"strings"
	"time"

	"github.com/adanyl0v/todo-assistant/internal/models"
	"github.com/adanyl0v/todo-assistant/internal/query"
)

const FallbackRule = "fallback"

type Option func(*Responder)

// WithRandom sets the source of uniform random indexes. intn must return a
// value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(r *Responder) {
		r.intn = intn
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		r.now = now
	}
}

type Responder struct {
	intn  func(n int) int
	now   func() time.Time
	rules []rule
}

func New(opts ...Option) *Responder {
	r := &Responder{
		intn:  rand.Intn,
		now:   time.Now,
		rules: defaultRules(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rule struct {
	name     string
	keywords []string
	respond  func(r *Responder, c *chatContext) string
}

func (rl rule) matches(message string) bool {
	for _, kw := range rl.keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// chatContext is the state one reply is built from.
type chatContext struct {
	tasks []models.Task
	stats query.Stats
	now   time.Time
}

// firstActive returns the first incomplete task in collection order that
// satisfies pred.
func (c *chatContext) firstActive(pred func(models.Task) bool) (models.Task, bool) {
	for _, t := range c.tasks {
		if !t.Completed && pred(t) {
			return t, true
		}
	}
	return models.Task{}, false
}

// Respond returns the reply to message given the current tasks.
func (r *Responder) Respond(message string, tasks []models.Task) string {
	now := r.now()
	c := &chatContext{
		tasks: tasks,
		stats: query.Aggregate(tasks, now),
		now:   now,
	}

	rl, ok := r.match(normalize(message))
	if !ok {
		return r.pick(fallbackMessages)
	}
	return rl.respond(r, c)
}

// Classify returns the name of the rule that would answer message.
func (r *Responder) Classify(message string) string {
	rl, ok := r.match(normalize(message))
	if !ok {
		return FallbackRule
	}
	return rl.name
}

// Rules returns the rule names in precedence order, fallback last.
func (r *Responder) Rules() []string {
	names := make([]string, 0, len(r.rules)+1)
	for _, rl := range r.rules {
		names = append(names, rl.name)
	}
	return append(names, FallbackRule)
}

func (r *Responder) match(message string) (rule, bool) {
	for _, rl := range r.rules {
		if rl.matches(message) {
			return rl, true
		}
	}
	return rule{}, false
}

func (r *Responder) pick(options []string) string {
	return options[r.intn(len(options))]
}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}
