package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/todo-assistant/internal/models"
)

var now = time.Date(2024, time.June, 12, 15, 30, 0, 0, time.UTC)

func task(id, text string, opts ...func(*models.Task)) models.Task {
	t := models.Task{
		ID:        id,
		Text:      text,
		Category:  models.CategoryOther,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func withPriority(p models.Priority) func(*models.Task) {
	return func(t *models.Task) { t.Priority = p }
}

func withCategory(c models.Category) func(*models.Task) {
	return func(t *models.Task) { t.Category = c }
}

func withDue(d models.Date) func(*models.Task) {
	return func(t *models.Task) { t.DueDate = d }
}

func withCreated(ts time.Time) func(*models.Task) {
	return func(t *models.Task) { t.CreatedAt = ts }
}

func done(t *models.Task) {
	at := now
	t.Completed = true
	t.CompletedAt = &at
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestView_Filters(t *testing.T) {
	tasks := []models.Task{
		task("1", "Buy MILK", withCategory(models.CategoryShopping), withPriority(models.PriorityLow)),
		task("2", "Write report", withCategory(models.CategoryWork), withPriority(models.PriorityHigh)),
		task("3", "Buy running shoes", withCategory(models.CategoryHealth), done),
		task("4", "Call mom", withCategory(models.CategoryPersonal), withPriority(models.PriorityHigh), done),
	}

	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{"defaults keep everything", DefaultParams(), []string{"1", "2", "3", "4"}},
		{"zero params keep everything", Params{}, []string{"1", "2", "3", "4"}},
		{"search is case insensitive", Params{Search: "buy milk"}, []string{"1"}},
		{"search substring", Params{Search: "BUY"}, []string{"1", "3"}},
		{"category", Params{Category: "work"}, []string{"2"}},
		{"priority", Params{Priority: "high"}, []string{"2", "4"}},
		{"completed", Params{Status: StatusCompleted}, []string{"3", "4"}},
		{"active", Params{Status: StatusActive}, []string{"1", "2"}},
		{"combined", Params{Priority: "high", Status: StatusActive}, []string{"2"}},
		{"unknown category matches nothing", Params{Category: "errands"}, []string{}},
		{"unknown status matches nothing", Params{Status: "archived"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// All tasks share createdAt, so the stable sort keeps insertion order.
			assert.Equal(t, tt.want, ids(View(tasks, tt.params)))
		})
	}
}

func TestView_FilterSoundAndComplete(t *testing.T) {
	var tasks []models.Task
	i := 0
	for _, c := range models.Categories {
		for _, p := range models.Priorities {
			for _, completed := range []bool{false, true} {
				i++
				opts := []func(*models.Task){withCategory(c), withPriority(p)}
				if completed {
					opts = append(opts, done)
				}
				text := "task " + string(c) + " " + string(p)
				tasks = append(tasks, task(string(rune('a'+i)), text, opts...))
			}
		}
	}

	paramsList := []Params{
		{Category: "work"},
		{Priority: "low", Status: StatusCompleted},
		{Search: "HEALTH", Status: StatusActive},
		{Search: "medium", Category: "shopping", Priority: "medium", Status: All},
	}

	for _, params := range paramsList {
		view := View(tasks, params)
		inView := make(map[string]bool, len(view))
		for _, v := range view {
			assert.True(t, params.Match(v), "view contains a task that fails the filter: %+v", v)
			inView[v.ID] = true
		}
		for _, task := range tasks {
			if params.Match(task) {
				assert.True(t, inView[task.ID], "matching task %s missing from view", task.ID)
			}
		}
	}
}

func TestView_SortPriority(t *testing.T) {
	tasks := []models.Task{
		task("low", "a", withPriority(models.PriorityLow)),
		task("high", "b", withPriority(models.PriorityHigh)),
		task("medium", "c", withPriority(models.PriorityMedium)),
	}

	got := View(tasks, Params{SortBy: SortPriority})
	assert.Equal(t, []string{"high", "medium", "low"}, ids(got))
}

func TestView_SortDueDate(t *testing.T) {
	tasks := []models.Task{
		task("none-1", "a"),
		task("late", "b", withDue(models.NewDate(2024, time.July, 1))),
		task("none-2", "c"),
		task("early", "d", withDue(models.NewDate(2024, time.June, 1))),
	}

	got := View(tasks, Params{SortBy: SortDueDate})
	assert.Equal(t, []string{"early", "late", "none-1", "none-2"}, ids(got))
}

func TestView_SortCategory(t *testing.T) {
	tasks := []models.Task{
		task("1", "a", withCategory(models.CategoryWork)),
		task("2", "b", withCategory(models.CategoryHealth)),
		task("3", "c", withCategory(models.CategoryPersonal)),
		task("4", "d", withCategory(models.CategoryHealth)),
	}

	got := View(tasks, Params{SortBy: SortCategory})
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(got))
}

func TestView_SortCreatedNewestFirst(t *testing.T) {
	tasks := []models.Task{
		task("old", "a", withCreated(now.Add(-2*time.Hour))),
		task("new", "b", withCreated(now)),
		task("mid", "c", withCreated(now.Add(-time.Hour))),
	}

	for _, sortBy := range []string{"", SortCreated, "bogus"} {
		got := View(tasks, Params{SortBy: sortBy})
		assert.Equal(t, []string{"new", "mid", "old"}, ids(got), sortBy)
	}
}

func TestView_DoesNotModifyInput(t *testing.T) {
	tasks := []models.Task{
		task("1", "a", withPriority(models.PriorityLow)),
		task("2", "b", withPriority(models.PriorityHigh)),
	}

	view := View(tasks, Params{SortBy: SortPriority})
	view[0].Text = "changed"

	assert.Equal(t, []string{"1", "2"}, ids(tasks))
	assert.Equal(t, "b", tasks[1].Text)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.NoError(t, Params{}.Validate())
	require.NoError(t, Params{Category: "work", Priority: "high", Status: "active", SortBy: "dueDate"}.Validate())

	for _, p := range []Params{
		{Category: "errands"},
		{Priority: "urgent"},
		{Status: "archived"},
		{SortBy: "alphabetical"},
	} {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	}
}

func TestIsOverdue(t *testing.T) {
	assert.False(t, IsOverdue(task("1", "a"), now), "no due date")
	assert.True(t, IsOverdue(task("1", "a", withDue(models.NewDate(2024, time.June, 11))), now))
	assert.False(t, IsOverdue(task("1", "a", withDue(models.NewDate(2024, time.June, 12))), now), "due today")
	assert.False(t, IsOverdue(task("1", "a", withDue(models.NewDate(2024, time.June, 13))), now))

	// The predicate is date-only; completion is handled by Aggregate.
	assert.True(t, IsOverdue(task("1", "a", withDue(models.NewDate(2024, time.June, 1)), done), now))
}

func TestIsDueSoon(t *testing.T) {
	assert.False(t, IsDueSoon(task("1", "a"), now))
	assert.True(t, IsDueSoon(task("1", "a", withDue(models.NewDate(2024, time.June, 12))), now), "today")
	assert.True(t, IsDueSoon(task("1", "a", withDue(models.NewDate(2024, time.June, 13))), now), "tomorrow")
	assert.False(t, IsDueSoon(task("1", "a", withDue(models.NewDate(2024, time.June, 14))), now))
	assert.False(t, IsDueSoon(task("1", "a", withDue(models.NewDate(2024, time.June, 11))), now))
}

func TestIsOverdue_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-06-12 23:00 UTC is already 2024-06-13 in UTC+10.
	late := time.Date(2024, time.June, 12, 23, 0, 0, 0, time.UTC)
	due := task("1", "a", withDue(models.NewDate(2024, time.June, 12)))

	assert.False(t, IsOverdue(due, late))
	assert.True(t, IsOverdue(due, late.In(loc)))
}

func TestAggregate(t *testing.T) {
	yesterday := models.NewDate(2024, time.June, 11)
	today := models.NewDate(2024, time.June, 12)

	tasks := []models.Task{
		task("1", "a", withDue(yesterday)),
		task("2", "b", withDue(yesterday), done),
		task("3", "c", withDue(today), withPriority(models.PriorityHigh)),
		task("4", "d", withPriority(models.PriorityHigh), done),
		task("5", "e"),
	}

	stats := Aggregate(tasks, now)
	assert.Equal(t, Stats{
		Total:        5,
		Active:       3,
		Completed:    2,
		Overdue:      1,
		DueSoon:      1,
		HighPriority: 1,
	}, stats)
	assert.Equal(t, 40, stats.PercentCompleted())
}

func TestStatsPercentCompleted(t *testing.T) {
	assert.Equal(t, 0, Stats{}.PercentCompleted())
	assert.Equal(t, 80, Stats{Total: 10, Completed: 8}.PercentCompleted())
	assert.Equal(t, 67, Stats{Total: 3, Completed: 2}.PercentCompleted())
	assert.Equal(t, 50, Stats{Total: 2, Completed: 1}.PercentCompleted())
}
