package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/store"
)

func TestCreateTaskTrimsAndDefaults(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, TaskInput{Title: "  Buy milk  ", Description: " 2L "})

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2L", task.Description)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.CategoryPersonal, task.Category)
	assert.False(t, task.Completed)
}

func TestNormalizeRules(t *testing.T) {
	f := newFixture(t)
	f.tasks.now = func() time.Time { return time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		input TaskInput
		field string
		want  error
	}{
		{"blank title", TaskInput{Title: "   "}, "title", ErrTitleRequired},
		{"long title", TaskInput{Title: strings.Repeat("é", MaxTitleLen+1)}, "title", ErrTitleTooLong},
		{"long description", TaskInput{Title: "ok", Description: strings.Repeat("x", MaxDescriptionLen+1)}, "description", ErrDescriptionTooLong},
		{"bad date", TaskInput{Title: "ok", DueDate: "15/06/2025"}, "dueDate", ErrDueDateInvalid},
		{"past date", TaskInput{Title: "ok", DueDate: "2025-06-14"}, "dueDate", ErrDueDateInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.Normalize(tt.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Fields[tt.field])
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("boundaries accepted", func(t *testing.T) {
		_, err := f.tasks.Normalize(TaskInput{
			Title:       strings.Repeat("a", MaxTitleLen),
			Description: strings.Repeat("b", MaxDescriptionLen),
			DueDate:     "2025-06-15",
		})
		assert.NoError(t, err)
	})
}

func TestCreateTaskInvalidLeavesStoreAlone(t *testing.T) {
	f := newFixture(t)
	_, err := f.tasks.CreateTask(context.Background(), TaskInput{})
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Empty(t, f.store.Tasks())
}

func TestEditTaskKeepsCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task := f.add(t, TaskInput{Title: "a", DueDate: ""})
	_, err := f.tasks.ToggleTask(ctx, task.ID)
	require.NoError(t, err)

	in := InputFromTask(task)
	in.Title = "renamed"
	in.Priority = model.PriorityHigh
	edited, err := f.tasks.EditTask(ctx, task.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "renamed", edited.Title)
	assert.Equal(t, model.PriorityHigh, edited.Priority)
	assert.True(t, edited.Completed)

	_, err = f.tasks.EditTask(ctx, "ghost", in)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestResolvePrefix(t *testing.T) {
	f := newFixture(t)
	task := f.add(t, TaskInput{Title: "a"})

	got, err := f.tasks.Resolve(task.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	got, err = f.tasks.Resolve(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = f.tasks.Resolve("")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	_, err = f.tasks.Resolve("zzzz")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestResolveAmbiguous(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.store.ReplaceTasks(ctx, []model.Task{{ID: "abc1"}, {ID: "abc2"}}))

	_, err := f.tasks.Resolve("abc")
	assert.ErrorIs(t, err, ErrAmbiguousID)
}
