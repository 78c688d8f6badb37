package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskflow/internal/i18n"
	"taskflow/internal/model"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

type taskFlags struct {
	title       string
	description string
	priority    string
	category    string
	due         string
	done        bool
	noDue       bool
}

func (f *taskFlags) register(cmd *cobra.Command, edit bool) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&f.category, "category", "", "personal, work, shopping or health")
	cmd.Flags().StringVar(&f.due, "due", "", "due date, YYYY-MM-DD")
	if edit {
		cmd.Flags().BoolVar(&f.noDue, "no-due", false, "remove the due date")
	} else {
		cmd.Flags().BoolVar(&f.done, "done", false, "create the task already completed")
	}
}

// apply copies the flags that were set on cmd into input.
func (f *taskFlags) apply(cmd *cobra.Command, input *service.TaskInput) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		input.Title = f.title
	}
	if changed("description") {
		input.Description = f.description
	}
	if changed("priority") {
		p, err := model.ParsePriority(strings.ToLower(f.priority))
		if err != nil {
			return err
		}
		input.Priority = p
	}
	if changed("category") {
		c, err := model.ParseCategory(strings.ToLower(f.category))
		if err != nil {
			return err
		}
		input.Category = c
	}
	if changed("due") {
		input.DueDate = f.due
	}
	if f.noDue {
		input.DueDate = ""
	}
	input.Completed = f.done
	return nil
}

func (c *cli) addCmd() *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Example: `  taskflow add "Buy milk" --category shopping
  taskflow add -t "Quarterly report" -p high --category work --due 2025-12-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input service.TaskInput
			if len(args) == 1 {
				input.Title = args[0]
			}
			if err := flags.apply(cmd, &input); err != nil {
				return err
			}
			task, err := c.app.Tasks.CreateTask(cmd.Context(), input)
			if err != nil && task.ID == "" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", i18n.T("taskCreated"), service.FormatTask(task, time.Now(), false))
			return err
		},
	}
	flags.register(cmd, false)
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var flags taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task; flags that are not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := c.app.Tasks.Resolve(args[0])
			if err != nil {
				return err
			}
			input := service.InputFromTask(current)
			if err := flags.apply(cmd, &input); err != nil {
				return err
			}
			task, err := c.app.Tasks.EditTask(cmd.Context(), current.ID, input)
			if err != nil && task.ID == "" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s", i18n.T("taskUpdated"), service.FormatTask(task, time.Now(), false))
			return err
		},
	}
	flags.register(cmd, true)
	return cmd
}

func (c *cli) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or active again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := c.app.Tasks.Resolve(args[0])
			if err != nil {
				return err
			}
			task, err := c.app.Tasks.ToggleTask(cmd.Context(), current.ID)
			if errors.Is(err, store.ErrTaskNotFound) {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), service.FormatTask(task, time.Now(), false))
			return err
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := c.app.Tasks.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Tasks.DeleteTask(cmd.Context(), current.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", i18n.T("taskDeleted"), current.Title)
			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var (
		filter string
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := store.ParseFilter(strings.ToLower(filter))
			if err != nil {
				return err
			}
			s := c.app.Store
			s.SetFilter(f)
			s.SetSearchTerm(search)
			tasks := s.FilteredTasks()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}
			if len(tasks) == 0 && f == store.FilterAll && search == "" {
				fmt.Fprintln(out, i18n.T("noTasksYet"))
				return nil
			}
			fmt.Fprintln(out, service.FormatTaskList(tasks, time.Now(), false))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "all, active or completed")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text in title or description")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := c.app.Tasks.Resolve(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, service.FormatTask(task, time.Now(), false))
			fmt.Fprintf(out, "id: %s\n", task.ID)
			fmt.Fprintf(out, "%s %s\n", i18n.T("created"), i18n.FormatDate(task.CreatedAt.Local()))
			fmt.Fprintf(out, "%s %s\n", i18n.T("updated"), i18n.FormatDate(task.UpdatedAt.Local()))
			return nil
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), c.app.Reports.Dashboard(time.Now()).Text())
			return nil
		},
	}
}
