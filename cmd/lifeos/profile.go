package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/profile"
	"github.com/stefanpenner/lifeos/pkg/resources"
	"github.com/stefanpenner/lifeos/pkg/store"
	"github.com/stefanpenner/lifeos/pkg/tui"
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDashboard(cmd)
		},
	}
}

func (c *cli) runDashboard(cmd *cobra.Command) error {
	return tui.Run(cmd.Context(), c.svc, c.cfg.DataDir, tui.WithLogger(c.logger))
}

func (c *cli) onboardCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create your profile, life summary and goal plans from a file",
		Long: `Reads a profile from a YAML or JSON file, generates the life summary and a
plan for every goal, and saves them. Running it again replaces everything.

Example profile.yaml:

  age: 34
  location: Lisbon
  profession: Designer
  work_hours: 9
  social_media_hours: 2
  frustrations: Too many meetings
  daily_routine: Gym, work, dinner
  proud_habit: Morning walks
  avoiding_what: Public speaking
  productivity: 6
  health: 7
  motivation: 5
  mental_health: 6
  career_direction: 4
  goals:
    - title: Run a 10k
      timeframe: 3 months
      category: fitness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfile(file)
			if err != nil {
				return err
			}
			res, err := c.svc.Onboard(cmd.Context(), p)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Life score: %d/100\n\n%s\n\n", res.Summary.Score.Overall, res.Summary.Narrative)
			completed, total := goal.TaskCounts(res.Goals...)
			fmt.Fprintf(out, "Planned %d goals with %d tasks (%d done).\n", len(res.Goals), total, completed)
			printGoals(out, res.Goals)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Profile file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readProfile decodes path over the onboarding defaults. Goals without an id
// get one.
func readProfile(path string) (profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("reading profile: %w", err)
	}

	p := profile.New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &p)
	default:
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	for i, g := range p.Goals {
		if g.ID == "" {
			p.Goals[i] = profile.NewGoal(g.Title, g.Description, g.Timeframe, string(g.Category))
		}
	}
	return p, nil
}

func (c *cli) summaryCmd() *cobra.Command {
	var regenerate bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show your life summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary profile.Summary
			if regenerate {
				s, err := c.svc.RegenerateSummary(cmd.Context())
				if err != nil {
					return err
				}
				summary = s
			} else {
				s, err := c.svc.Summary(cmd.Context())
				if err != nil {
					return err
				}
				if s == nil {
					return fmt.Errorf("no summary yet: run `lifeos onboard` or `lifeos summary --regenerate`")
				}
				summary = *s
			}

			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), summary)
			}
			var streak profile.Streak
			if d, err := c.svc.Dashboard(cmd.Context()); err == nil {
				streak = d.Streak
			}
			return renderMarkdown(cmd.OutOrStdout(), tui.SummaryMarkdown(summary, streak))
		},
	}
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "Ask the coach for a fresh summary")
	return cmd
}

func (c *cli) streakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Record today's visit and show the streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			streak, changed, err := c.svc.TouchStreak(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), streak)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Streak: %d days (%d total)\n", streak.Current, streak.TotalDays)
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "Welcome back!")
			}
			return nil
		},
	}
}

func (c *cli) resourcesCmd() *cobra.Command {
	var refresh bool
	var category, query string
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Show book recommendations for your goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			load := c.svc.Resources
			if refresh {
				load = c.svc.RefreshResources
			}
			recs, err := load(cmd.Context())
			if err != nil {
				return err
			}
			books := resources.Filter(recs.Books, category, query)
			if c.jsonOut {
				recs.Books = books
				return outputJSON(cmd.OutOrStdout(), recs)
			}

			out := cmd.OutOrStdout()
			if recs.PersonalizedNote != "" {
				fmt.Fprintf(out, "%s\n\n", recs.PersonalizedNote)
			}
			if len(books) == 0 {
				fmt.Fprintln(out, "No matching books.")
				return nil
			}
			for _, b := range books {
				fmt.Fprintf(out, "%s by %s [%s]\n", b.Title, b.Author, b.Category)
				if b.Description != "" {
					fmt.Fprintf(out, "  %s\n", b.Description)
				}
			}
			fmt.Fprintf(out, "\nCategories: %s\n", strings.Join(resources.Categories(recs.Books), ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ask the coach for a new list")
	cmd.Flags().StringVar(&category, "category", "", "Only show this category")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search title, author, description and tags")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write goals and today's focus as markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.svc.ExportMarkdown(cmd.Context(), c.exportDir(args))
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), paths)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [dir]",
		Short: "Read back an export: goal status and the focus list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.exportDir(args)
			docs, err := store.ListExported(dir)
			if err != nil {
				return err
			}
			focus, err := store.LoadFocus(dir)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return outputJSON(cmd.OutOrStdout(), map[string]any{"goals": docs, "focus": focus})
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintf(out, "Nothing exported in %s. Run `lifeos export`.\n", dir)
				return nil
			}
			for _, d := range docs {
				status := "○"
				if d.IsComplete() {
					status = "✓"
				}
				fmt.Fprintf(out, "%s %s  %d%%  (exported %s)\n", status, d.Title, d.Progress, d.Exported.Format("2006-01-02 15:04"))
			}
			if len(focus.Items) > 0 {
				fmt.Fprintln(out, "\nFocus:")
				for i, item := range focus.Items {
					fmt.Fprintf(out, "%d. %s\n", i+1, item)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(show)
	return cmd
}

func (c *cli) exportDir(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return c.store.ExportDir()
}

func (c *cli) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile, summary, goals and resources of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete user %s without --yes", c.cfg.UserID)
			}
			if err := c.store.DeleteUser(cmd.Context(), c.cfg.UserID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted all data for %s\n", c.cfg.UserID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
