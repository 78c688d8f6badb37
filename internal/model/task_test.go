package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskJSONShape(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.UTC)
	task := Task{
		ID:          "a1",
		Title:       "Buy milk",
		Description: "",
		Priority:    PriorityLow,
		Category:    CategoryShopping,
		CreatedAt:   NewTimestamp(created),
		UpdatedAt:   NewTimestamp(created),
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "a1",
		"title": "Buy milk",
		"description": "",
		"completed": false,
		"priority": "low",
		"category": "shopping",
		"createdAt": "2025-03-14T09:26:53.589Z",
		"updatedAt": "2025-03-14T09:26:53.589Z"
	}`, string(data))
}

func TestTaskUnmarshalBrowserData(t *testing.T) {
	raw := `{"id":"x","title":"Run","description":"5k","completed":true,"priority":"high",
		"category":"health","createdAt":"2024-01-02T03:04:05.678Z","updatedAt":"2024-01-03T00:00:00.000Z","dueDate":"2024-02-01"}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, "x", task.ID)
	assert.True(t, task.Completed)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, CategoryHealth, task.Category)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC), task.CreatedAt.Time)
	assert.Equal(t, "2024-02-01", task.DueDate)

	due, ok := task.Due(time.UTC)
	require.True(t, ok)
	assert.Equal(t, 2024, due.Year())
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestParseEnums(t *testing.T) {
	p, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)

	c, err := ParseCategory("Work")
	require.NoError(t, err)
	assert.Equal(t, CategoryWork, c)

	_, err = ParseCategory("hobby")
	assert.Error(t, err)

	th, err := ParseTheme("dark")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)
}
