package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
)

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, TaskInput{Title: "Buy milk", Category: model.CategoryShopping, Priority: model.PriorityLow})
	urgent := f.add(t, TaskInput{Title: "Ship <release>", Category: model.CategoryWork, Priority: model.PriorityHigh})
	done := f.add(t, TaskInput{Title: "Run", Category: model.CategoryHealth})
	_, err := f.tasks.ToggleTask(ctx, done.ID)
	require.NoError(t, err)

	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	d := f.reports.Dashboard(now)
	assert.Equal(t, 3, d.Stats.Total)
	assert.Equal(t, 1, d.Stats.InProgress)
	assert.Equal(t, 33, d.CompletionRate)
	assert.Equal(t, 1, d.Categories[model.CategoryWork])
	require.Len(t, d.Recent, 3)
	assert.Equal(t, done.ID, d.Recent[0].ID)

	text := d.Text()
	assert.Contains(t, text, "4 mars 2025")
	assert.Contains(t, text, "Taux de réussite: 33%")
	assert.Contains(t, text, "• travail: 1")
	assert.Contains(t, text, "Ship <release>")
	assert.Contains(t, text, ShortID(urgent.ID))

	markup := d.HTML()
	assert.Contains(t, markup, "Ship &lt;release&gt;")
	assert.Contains(t, markup, "<b>Tableau de bord</b>")
}

func TestDashboardEmpty(t *testing.T) {
	f := newFixture(t)
	text := f.reports.Dashboard(time.Now()).Text()
	assert.Contains(t, text, "Aucune tâche pour le moment")
	assert.NotContains(t, text, "Par catégorie")
}

func TestFormatTaskDueHints(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	overdue := model.Task{ID: "1", Title: "late", DueDate: "2025-03-01", Priority: model.PriorityLow, Category: model.CategoryWork}
	soon := model.Task{ID: "2", Title: "soon", DueDate: "2025-03-11", Priority: model.PriorityLow, Category: model.CategoryWork}
	later := model.Task{ID: "3", Title: "later", DueDate: "2025-04-11", Priority: model.PriorityLow, Category: model.CategoryWork}

	assert.Contains(t, FormatTask(overdue, now, false), "⚠️")
	assert.Contains(t, FormatTask(soon, now, false), "⏳")
	assert.NotContains(t, FormatTask(later, now, false), "⏳")
	assert.Contains(t, FormatTask(later, now, false), "11/04/2025")

	overdue.Completed = true
	assert.NotContains(t, FormatTask(overdue, now, false), "⚠️")
}

func TestFormatTaskListEmpty(t *testing.T) {
	assert.Equal(t, "Aucune tâche trouvée", FormatTaskList(nil, time.Now(), false))
}
