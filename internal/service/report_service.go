package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"taskflow/internal/i18n"
	"taskflow/internal/model"
	"taskflow/internal/store"
)

const recentLimit = 3

// Dashboard is the data shown on the overview screen.
type Dashboard struct {
	Stats          store.Stats
	CompletionRate int
	Categories     map[model.Category]int
	Recent         []model.Task
	GeneratedAt    time.Time
}

// ReportService builds human-readable summaries of the task store.
type ReportService struct {
	store *store.Store
}

func NewReportService(s *store.Store) *ReportService {
	return &ReportService{store: s}
}

func (s *ReportService) Dashboard(now time.Time) Dashboard {
	stats := s.store.Stats()
	return Dashboard{
		Stats:          stats,
		CompletionRate: stats.CompletionRate(),
		Categories:     s.store.CategoryCounts(),
		Recent:         s.store.Recent(recentLimit),
		GeneratedAt:    now,
	}
}

// Text renders d for a terminal.
func (d Dashboard) Text() string {
	return d.render(false)
}

// HTML renders d with Telegram's HTML subset.
func (d Dashboard) HTML() string {
	return d.render(true)
}

func (d Dashboard) render(markup bool) string {
	bold := func(s string) string {
		if markup {
			return "<b>" + html.EscapeString(s) + "</b>"
		}
		return s
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 %s\n", bold(i18n.T("dashboard"))))
	b.WriteString(fmt.Sprintf("🗓 %s\n\n", i18n.FormatDate(d.GeneratedAt)))

	b.WriteString(fmt.Sprintf("%s: %d\n", i18n.T("totalTasks"), d.Stats.Total))
	b.WriteString(fmt.Sprintf("%s: %d\n", i18n.T("completed"), d.Stats.Completed))
	b.WriteString(fmt.Sprintf("%s: %d\n", i18n.T("active"), d.Stats.Active))
	b.WriteString(fmt.Sprintf("%s: %d\n", i18n.T("highPriority"), d.Stats.InProgress))
	b.WriteString(fmt.Sprintf("%s: %d%%\n", i18n.T("completionRate"), d.CompletionRate))

	if len(d.Categories) > 0 {
		b.WriteString(fmt.Sprintf("\n%s\n", bold(i18n.T("byCategory"))))
		for _, c := range model.Categories {
			if n, ok := d.Categories[c]; ok {
				b.WriteString(fmt.Sprintf("• %s: %d\n", i18n.T("categories."+string(c)), n))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n%s\n", bold(i18n.T("recentTasks"))))
	if len(d.Recent) == 0 {
		b.WriteString("— " + i18n.T("noTasksYet") + "\n")
	}
	for _, t := range d.Recent {
		b.WriteString(FormatTask(t, d.GeneratedAt, markup))
	}
	return strings.TrimSpace(b.String())
}

// FormatTask renders one task line with status and due date hints.
func FormatTask(t model.Task, now time.Time, markup bool) string {
	esc := func(s string) string {
		if markup {
			return html.EscapeString(s)
		}
		return s
	}

	status := "⬜"
	if t.Completed {
		status = "✅"
	}
	icon := ""
	due, hasDue := t.Due(now.Location())
	if hasDue && !t.Completed {
		switch {
		case now.After(due.Add(24 * time.Hour)):
			icon = " ⚠️"
		case due.Sub(now) <= 48*time.Hour:
			icon = " ⏳"
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s %s", status, icon, esc(strings.TrimSpace(t.Title))))
	sb.WriteString(fmt.Sprintf(" · %s · %s %s · %s",
		i18n.T("categories."+string(t.Category)),
		i18n.T(string(t.Priority)), i18n.T("priority"),
		ShortID(t.ID)))
	if hasDue {
		sb.WriteString(fmt.Sprintf("\n   ⏰ %s %s", i18n.T("due"), i18n.FormatDateShort(due)))
	}
	if t.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", esc(strings.TrimSpace(t.Description))))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ShortID is the prefix users type to address a task.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatTaskList renders tasks, or the empty-list message.
func FormatTaskList(tasks []model.Task, now time.Time, markup bool) string {
	if len(tasks) == 0 {
		return i18n.T("noTasksFound")
	}
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(FormatTask(t, now, markup))
	}
	return strings.TrimSpace(b.String())
}
