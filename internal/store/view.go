package store

import (
	"math"
	"sort"
	"strings"

	"taskflow/internal/model"
)

// Stats summarises the whole sequence, ignoring filter and search.
//
// InProgress counts active high-priority tasks. The name is kept from the UI
// contract; it has nothing to do with a work-in-progress state.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Active     int `json:"active"`
	InProgress int `json:"inProgress"`
}

// CompletionRate is Completed/Total as a rounded percentage, 0 for no tasks.
func (s Stats) CompletionRate() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// FilteredTasks applies the filter, then the search term, then orders by
// UpdatedAt, newest first. Equal timestamps keep insertion order.
func (s *Store) FilteredTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterTasks(s.state.Tasks, s.state.Filter, s.state.SearchTerm)
}

// Query is FilteredTasks with an explicit filter and term, leaving store state alone.
func (s *Store) Query(f Filter, term string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterTasks(s.state.Tasks, f, term)
}

func filterTasks(tasks []model.Task, f Filter, term string) []model.Task {
	needle := strings.ToLower(term)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}
	sortByUpdated(out)
	return out
}

func sortByUpdated(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt.Time)
	})
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	st.Total = len(s.state.Tasks)
	for _, t := range s.state.Tasks {
		switch {
		case t.Completed:
			st.Completed++
		case t.Priority == model.PriorityHigh:
			st.InProgress++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// CategoryCounts counts tasks per category. Categories without tasks are absent.
func (s *Store) CategoryCounts() map[model.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.Category]int)
	for _, t := range s.state.Tasks {
		counts[t.Category]++
	}
	return counts
}

// Recent returns up to n tasks, most recently updated first.
func (s *Store) Recent(n int) []model.Task {
	tasks := s.Tasks()
	sortByUpdated(tasks)
	if n >= 0 && len(tasks) > n {
		tasks = tasks[:n]
	}
	return tasks
}
