package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bada/internal/task"
	"bada/internal/view"
)

// listCmd implements 'todo list'.
func listCmd() *cobra.Command {
	var status, priority, date, from, to, search, sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks through the same filters as the interactive view",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			if status != "" {
				s, ok := view.ParseStatusFilter(status)
				if !ok {
					printError(InvalidFlagError{Flag: "status", Value: status, Valid: []string{"all", "pending", "completed"}})
				}
				ctrl.SetStatusFilter(s)
			}
			if priority != "" {
				if err := ctrl.SetPriorityFilter(priority); err != nil {
					printError(err)
				}
			}
			switch {
			case from != "" || to != "":
				r, err := view.ParseRange(from, to)
				if err != nil {
					printError(err)
				}
				if err := ctrl.ApplyCustomRange(r); err != nil {
					printError(err)
				}
			case date != "":
				d, ok := view.ParseDateFilter(date)
				if !ok || d == view.DateCustom {
					printError(InvalidFlagError{Flag: "date", Value: date, Valid: []string{"all", "today", "thisWeek"}})
				}
				ctrl.SetDateFilter(d)
			}
			if sortBy != "" {
				o, ok := view.ParseSortOption(sortBy)
				if !ok {
					printError(InvalidFlagError{Flag: "sort", Value: sortBy, Valid: []string{"dateCreated", "dueDate", "alphabetical", "custom"}})
				}
				ctrl.SetSortOption(o)
			}
			ctrl.SetSearch(search)

			v := ctrl.View()
			v.Visible = view.GroupForDisplay(v.Visible, cfg.DoneToBottom)
			printOutput(formatter.FormatView(v, time.Now()))
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter (all, pending, completed)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority id, or all")
	cmd.Flags().StringVar(&date, "date", "", "Date filter (all, today, thisWeek)")
	cmd.Flags().StringVar(&from, "from", "", "Custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Only tasks whose name or description contains this text")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort option (dateCreated, dueDate, alphabetical, custom)")
	return cmd
}

// addCmd implements 'todo add'.
func addCmd() *cobra.Command {
	var description, deadline, priority string
	var categories []string
	var pinned bool
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new task",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()

			name := strings.TrimSpace(strings.Join(args, " "))
			description = strings.TrimSpace(description)
			if err := task.Validate(name, description, cfg.Limits()); err != nil {
				printError(err)
			}
			due, err := view.ParseDay(deadline)
			if err != nil {
				printError(err)
			}

			t := task.Task{Name: name, Description: description, Deadline: due, Pinned: pinned}
			if priority != "" {
				p, ok := task.FindPriority(cfg.Priorities, priority)
				if !ok {
					printError(view.UnknownPriorityError{ID: priority, Valid: priorityIDs(cfg.Priorities)})
				}
				t.Priority = &p
			}
			for _, cn := range categories {
				c, err := store.EnsureCategory(strings.TrimSpace(cn))
				if err != nil {
					printError(err)
				}
				t.Categories = append(t.Categories, c)
			}

			added, err := store.AddTask(t)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Added task %s", added.ID)))
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority id")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Category name, repeatable; created when missing")
	cmd.Flags().BoolVar(&pinned, "pin", false, "Pin the task to the top")
	return cmd
}

// doneCmd implements 'todo done'.
func doneCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			t, err := resolveTask(ctrl.Snapshot().Tasks, args[0])
			if err != nil {
				printError(err)
			}
			if err := store.SetDone(t.ID, !undo); err != nil {
				printError(err)
			}
			state := "done"
			if undo {
				state = "pending"
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Marked %q %s", t.Name, state)))
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task pending again")
	return cmd
}

// pinCmd implements 'todo pin'.
func pinCmd() *cobra.Command {
	var unpin bool
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a task to the top of the list",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			t, err := resolveTask(ctrl.Snapshot().Tasks, args[0])
			if err != nil {
				printError(err)
			}
			if err := store.SetPinned(t.ID, !unpin); err != nil {
				printError(err)
			}
			verb := "Pinned"
			if unpin {
				verb = "Unpinned"
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("%s %q", verb, t.Name)))
		},
	}
	cmd.Flags().BoolVar(&unpin, "unpin", false, "Remove the pin")
	return cmd
}

// rmCmd implements 'todo rm'. Several ids are deleted as one selection.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete tasks",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			for _, ref := range args {
				t, err := resolveTask(ctrl.Snapshot().Tasks, ref)
				if err != nil {
					printError(err)
				}
				if ctrl.Selection().IsSelected(t.ID) {
					continue
				}
				if err := ctrl.ToggleMultiSelect(t.ID); err != nil {
					printError(err)
				}
			}
			n, err := ctrl.DeleteSelected()
			if err != nil {
				printError(fmt.Errorf("deleted %d tasks before failing: %w", n, err))
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted %d tasks", n)))
		},
	}
}

func priorityIDs(priorities []task.Priority) []string {
	ids := make([]string, len(priorities))
	for i, p := range priorities {
		ids[i] = p.ID
	}
	return ids
}
