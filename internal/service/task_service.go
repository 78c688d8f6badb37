package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/i18n"
	"taskflow/internal/model"
	"taskflow/internal/store"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

var (
	ErrTitleRequired      = errors.New(i18n.T("titleRequired"))
	ErrTitleTooLong       = errors.New(i18n.T("titleTooLong"))
	ErrDescriptionTooLong = errors.New(i18n.T("descriptionTooLong"))
	ErrDueDateInvalid     = errors.New(i18n.T("dueDateInvalid"))
	ErrDueDateInPast      = errors.New(i18n.T("dueDatePast"))

	// ErrAmbiguousID is returned by Resolve when a prefix matches several tasks.
	ErrAmbiguousID = errors.New("id prefix matches several tasks")
)

// TaskInput is what a user submits from a task form.
// Empty Priority and Category fall back to medium and personal.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Category    model.Category
	DueDate     string
	Completed   bool
}

// ValidationError maps form fields to the rule they broke.
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range []string{"title", "description", "dueDate"} {
		if err, ok := e.Fields[field]; ok {
			parts = append(parts, field+": "+err.Error())
		}
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match individual field errors.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, err := range e.Fields {
		errs = append(errs, err)
	}
	return errs
}

// TaskService validates form input before it reaches the store.
type TaskService struct {
	store *store.Store
	now   func() time.Time
}

func NewTaskService(s *store.Store) *TaskService {
	return &TaskService{store: s, now: time.Now}
}

// Normalize trims input, applies defaults and checks the form rules.
func (s *TaskService) Normalize(input TaskInput) (TaskInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.DueDate = strings.TrimSpace(input.DueDate)
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if input.Category == "" {
		input.Category = model.CategoryPersonal
	}

	fields := make(map[string]error)
	switch n := utf8.RuneCountInString(input.Title); {
	case n == 0:
		fields["title"] = ErrTitleRequired
	case n > MaxTitleLen:
		fields["title"] = ErrTitleTooLong
	}
	if utf8.RuneCountInString(input.Description) > MaxDescriptionLen {
		fields["description"] = ErrDescriptionTooLong
	}
	if input.DueDate != "" {
		if err := s.checkDueDate(input.DueDate); err != nil {
			fields["dueDate"] = err
		}
	}

	if len(fields) > 0 {
		return input, &ValidationError{Fields: fields}
	}
	return input, nil
}

func (s *TaskService) checkDueDate(raw string) error {
	now := s.now()
	due, err := time.ParseInLocation(model.DueDateLayout, raw, now.Location())
	if err != nil {
		return ErrDueDateInvalid
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if due.Before(today) {
		return ErrDueDateInPast
	}
	return nil
}

// CreateTask validates input and adds it to the store.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (model.Task, error) {
	input, err := s.Normalize(input)
	if err != nil {
		return model.Task{}, err
	}
	return s.store.AddTask(ctx, model.NewTask{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
	})
}

// EditTask replaces the editable fields of task id with input, keeping its completion state.
func (s *TaskService) EditTask(ctx context.Context, id string, input TaskInput) (model.Task, error) {
	current, ok := s.store.Task(id)
	if !ok {
		return model.Task{}, store.ErrTaskNotFound
	}
	input.Completed = current.Completed
	input, err := s.Normalize(input)
	if err != nil {
		return model.Task{}, err
	}
	return s.store.UpdateTask(ctx, id,
		store.SetTitle(input.Title),
		store.SetDescription(input.Description),
		store.SetPriority(input.Priority),
		store.SetCategory(input.Category),
		store.SetDueDate(input.DueDate),
	)
}

// InputFromTask pre-fills a form from an existing task.
func InputFromTask(t model.Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
}

func (s *TaskService) ToggleTask(ctx context.Context, id string) (model.Task, error) {
	return s.store.ToggleTask(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.store.DeleteTask(ctx, id)
}

// Resolve finds a task by full id or unique id prefix.
func (s *TaskService) Resolve(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := s.store.Task(ref); ok {
		return t, nil
	}
	var match []model.Task
	if ref != "" {
		for _, t := range s.store.Tasks() {
			if strings.HasPrefix(t.ID, ref) {
				match = append(match, t)
			}
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return model.Task{}, store.ErrTaskNotFound
	default:
		return model.Task{}, ErrAmbiguousID
	}
}
