package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/store"
)

func (c *cli) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List, inspect, add and remove goals",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.Goals(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), goals)
			}
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No goals yet. Run `lifeos onboard` or `lifeos goals add`.")
				return nil
			}
			printGoals(cmd.OutOrStdout(), goals)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <goal-id>",
		Short: "Show a goal's milestones, tasks and checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.svc.Goal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), g)
			}
			return renderMarkdown(cmd.OutOrStdout(), store.GoalMarkdown(g))
		},
	}

	var title, timeframe, category, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a goal and plan its milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.svc.AddGoal(cmd.Context(), profile.NewGoal(title, description, timeframe, category))
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), g)
			}
			_, total := goal.TaskCounts(g)
			fmt.Fprintf(cmd.OutOrStdout(), "Added: %s (%d milestones, %d tasks)\n%s\n", g.Title, len(g.Milestones), total, g.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "Goal title (required)")
	add.Flags().StringVar(&timeframe, "timeframe", "", `Timeframe, e.g. "3 months" (required)`)
	add.Flags().StringVar(&category, "category", string(goal.CategoryOther), "Category: "+categoryNames())
	add.Flags().StringVar(&description, "description", "", "What success looks like")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("timeframe")

	rm := &cobra.Command{
		Use:     "rm <goal-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.svc.DeleteGoal(cmd.Context(), args[0]); err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, add, rm)
	return cmd
}

func (c *cli) toggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip a task, subtask or checkpoint",
	}

	task := &cobra.Command{
		Use:   "task <goal-id> <milestone-id> <task-id>",
		Short: "Toggle a task and recompute progress",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.ToggleTask(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return c.reportGoal(cmd.OutOrStdout(), goals, args[0])
		},
	}

	subtask := &cobra.Command{
		Use:   "subtask <goal-id> <milestone-id> <subtask-id>",
		Short: "Toggle a subtask (does not change progress)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.ToggleSubtask(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return c.reportGoal(cmd.OutOrStdout(), goals, args[0])
		},
	}

	checkpoint := &cobra.Command{
		Use:   "checkpoint <goal-id> <checkpoint-id>",
		Short: "Toggle a checkpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.ToggleCheckpoint(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.reportGoal(cmd.OutOrStdout(), goals, args[0])
		},
	}

	cmd.AddCommand(task, subtask, checkpoint)
	return cmd
}

func (c *cli) focusCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show today's focus tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.Goals(cmd.Context())
			if err != nil {
				return err
			}
			focus := goal.TodaysFocus(goals, limit)
			if c.jsonOut {
				if focus == nil {
					focus = []goal.FocusItem{}
				}
				return outputJSON(cmd.OutOrStdout(), focus)
			}
			if len(focus) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing left to focus on. Nice work.")
				return nil
			}
			for i, f := range focus {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s: %s [%s]\n", i+1, f.GoalTitle, f.Task.Title, f.Task.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", goal.DefaultFocusLimit, "How many tasks to show")

	done := &cobra.Command{
		Use:   "done",
		Short: "Mark the first focus task done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			item, goals, err := c.svc.CompleteFocus(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", item.Task.Title)
			return c.reportGoal(cmd.OutOrStdout(), goals, item.GoalID)
		},
	}
	cmd.AddCommand(done)
	return cmd
}

func (c *cli) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done in every goal that has it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.CompleteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), goals)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", args[0])
			printGoals(cmd.OutOrStdout(), goals)
			return nil
		},
	}
}

func (c *cli) enrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Fill in missing checkpoints, subtasks, timelines and task details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := c.svc.Enrich(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), goals)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d goals\n", len(goals))
			return nil
		},
	}
}

// reportGoal prints the goal a mutation touched.
func (c *cli) reportGoal(w io.Writer, goals []goal.Goal, goalID string) error {
	g, ok := goal.Find(goals, goalID)
	if !ok {
		return fmt.Errorf("goal %s: %w", goalID, goal.ErrNotFound)
	}
	if c.jsonOut {
		return outputJSON(w, g)
	}
	completed, total := goal.TaskCounts(*g)
	fmt.Fprintf(w, "%s → %d%% (%d/%d tasks)\n", g.Title, g.Progress, completed, total)
	return nil
}

func printGoals(w io.Writer, goals []goal.Goal) {
	for _, g := range goals {
		status := "○"
		if g.Progress >= 100 {
			status = "✓"
		}
		completed, total := goal.TaskCounts(g)
		fmt.Fprintf(w, "%s %s  %d%% (%d/%d)  [%s, %s]\n", status, g.Title, g.Progress, completed, total, g.Category, g.Timeframe)
		fmt.Fprintf(w, "  %s\n", g.ID)
	}
}

func categoryNames() string {
	names := make([]string, len(goal.Categories))
	for i, cat := range goal.Categories {
		names[i] = string(cat)
	}
	return strings.Join(names, ", ")
}

// renderMarkdown renders md for the terminal, falling back to plain text
// when the output is not a terminal.
func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
