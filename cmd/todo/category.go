package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bada/internal/task"
)

// categoryCmd implements the 'todo category' command group.
func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(
		categoryListCmd(),
		categoryAddCmd(),
		categoryEditCmd(),
		categoryAssignCmd(),
		categoryUnassignCmd(),
	)

	return cmd
}

// categoryListCmd implements 'todo category list'.
func categoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()

			cats, err := store.Categories()
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatCategories(cats))
		},
	}
}

// categoryAddCmd implements 'todo category add'.
func categoryAddCmd() *cobra.Command {
	var color, emoji string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()

			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				printError(task.EmptyNameError{})
			}
			c, err := store.AddCategory(task.Category{Name: name, Color: color, Emoji: emoji})
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Added category %s", c.ID)))
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #1E88E5")
	cmd.Flags().StringVar(&emoji, "emoji", "", "Emoji shown before the name")
	return cmd
}

// categoryEditCmd implements 'todo category edit'. Every task carrying the
// category is updated with it.
func categoryEditCmd() *cobra.Command {
	var name, color, emoji string
	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Rename or restyle a category",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			c, err := resolveCategory(ctrl.Snapshot().Categories, args[0])
			if err != nil {
				printError(err)
			}
			patch := task.CategoryPatch{ID: c.ID}
			if cmd.Flags().Changed("name") {
				name = strings.TrimSpace(name)
				if name == "" {
					printError(task.EmptyNameError{})
				}
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("emoji") {
				patch.Emoji = &emoji
			}
			if err := ctrl.UpdateCategory(patch); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Updated category %s", c.ID)))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	cmd.Flags().StringVar(&emoji, "emoji", "", "New emoji")
	return cmd
}

// categoryAssignCmd implements 'todo category assign'.
func categoryAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <category>",
		Short: "Add a category to a task",
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			snap := ctrl.Snapshot()
			t, err := resolveTask(snap.Tasks, args[0])
			if err != nil {
				printError(err)
			}
			c, err := resolveCategory(snap.Categories, args[1])
			if err != nil {
				printError(err)
			}
			if err := store.AssignCategory(t.ID, c.ID); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Assigned %s to %q", c.Name, t.Name)))
		},
	}
}

// categoryUnassignCmd implements 'todo category unassign'.
func categoryUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task-id> <category>",
		Short: "Remove a category from a task",
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			cfg := loadConfig()
			store := openStore(cfg)
			defer store.Close()
			ctrl := newController(store, cfg)

			snap := ctrl.Snapshot()
			t, err := resolveTask(snap.Tasks, args[0])
			if err != nil {
				printError(err)
			}
			c, err := resolveCategory(snap.Categories, args[1])
			if err != nil {
				printError(err)
			}
			if !t.HasCategory(c.ID) {
				printError(fmt.Errorf("task %q does not have category %s", t.Name, c.Name))
			}
			if err := store.SetTaskCategories(t.ID, remainingCategoryIDs(t, c.ID)); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed %s from %q", c.Name, t.Name)))
		},
	}
}

// remainingCategoryIDs lists t's category ids in order, without drop.
func remainingCategoryIDs(t task.Task, drop string) []string {
	var ids []string
	for _, c := range t.Categories {
		if c.ID != drop {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
