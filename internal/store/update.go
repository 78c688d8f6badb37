package store

import "taskflow/internal/model"

// Update is one typed field change for UpdateTask. Only the constructors in
// this file produce a usable Update; ID and timestamps cannot be changed.
type Update struct {
	apply func(*model.Task)
}

func SetTitle(title string) Update {
	return Update{apply: func(t *model.Task) { t.Title = title }}
}

func SetDescription(desc string) Update {
	return Update{apply: func(t *model.Task) { t.Description = desc }}
}

func SetCompleted(done bool) Update {
	return Update{apply: func(t *model.Task) { t.Completed = done }}
}

func SetPriority(p model.Priority) Update {
	return Update{apply: func(t *model.Task) { t.Priority = p }}
}

func SetCategory(c model.Category) Update {
	return Update{apply: func(t *model.Task) { t.Category = c }}
}

// SetDueDate takes a YYYY-MM-DD string; an empty string clears it.
func SetDueDate(date string) Update {
	return Update{apply: func(t *model.Task) { t.DueDate = date }}
}

func ClearDueDate() Update {
	return SetDueDate("")
}
