package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Edit individual tasks",
		Long: `Tasks are addressed by WBS number (1.2), full id or id prefix. Summary
task dates follow their children and cannot be set directly.`,
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskProgressCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		title, parent, color string
		start, end           *time.Time
		days, sortOrder      int
		milestone            bool
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a manual task or milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			t := &domain.Task{
				ProjectID:    p.ID,
				Title:        title,
				DurationDays: days,
				IsMilestone:  milestone,
				SortOrder:    sortOrder,
				Color:        color,
				Source:       domain.SourceManual,
			}
			if parent != "" {
				pt, err := resolveTask(ctx, app, p.ID, parent)
				if err != nil {
					return err
				}
				t.ParentID = &pt.ID
			}
			if start != nil {
				t.StartDate = *start
			}
			if end != nil {
				t.EndDate = *end
			}
			if milestone && end == nil {
				t.EndDate = t.StartDate
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s → %s (%s)\n",
				t.Title, formatter.ISODate(t.StartDate), formatter.ISODate(t.EndDate), t.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task (WBS or id)")
	cmd.Flags().StringVar(&color, "color", "", "Bar colour (#rrggbb)")
	dateFlag(cmd.Flags(), &start, "start", "Start date (default: project start)")
	dateFlag(cmd.Flags(), &end, "end", "End date (default: derived from --days)")
	cmd.Flags().IntVar(&days, "days", 1, "Duration in working days when --end is not given")
	cmd.Flags().IntVar(&sortOrder, "sort", 0, "Position among siblings")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Create a zero-duration milestone")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var asTree bool

	cmd := &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's tasks in WBS order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}

			forest := tree.Build(tasks)
			if asTree {
				fmt.Fprint(out, formatter.RenderTaskTree(forest))
			} else {
				fmt.Fprint(out, formatter.FormatTaskTable(tree.Flatten(forest, nil, false)))
			}
			if w := formatter.FormatWarnings(forestWarnings(forest)); w != "" {
				fmt.Fprint(out, "\n"+w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTree, "tree", false, "Draw the hierarchy instead of a table")
	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		title, color string
		start, end   *time.Time
		sortOrder    int
		milestone    bool
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT TASK",
		Short: "Change a task's title, dates, colour or position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("title") {
				t.Title = title
			}
			if flags.Changed("color") {
				t.Color = color
			}
			if start != nil {
				t.StartDate = *start
			}
			if end != nil {
				t.EndDate = *end
			}
			if flags.Changed("sort") {
				t.SortOrder = sortOrder
			}
			if flags.Changed("milestone") {
				t.IsMilestone = milestone
				if milestone {
					t.EndDate = t.StartDate
				}
			}

			if err := app.Tasks.Update(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s → %s\n",
				t.Title, formatter.ISODate(t.StartDate), formatter.ISODate(t.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&color, "color", "", "Bar colour (#rrggbb)")
	dateFlag(cmd.Flags(), &start, "start", "New start date")
	dateFlag(cmd.Flags(), &end, "end", "New end date")
	cmd.Flags().IntVar(&sortOrder, "sort", 0, "Position among siblings")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Mark as milestone")

	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress PROJECT TASK PERCENT",
		Short: "Set a task's completion percentage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pct, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid percentage %q", args[2])
			}
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			t, err = app.Tasks.SetProgress(ctx, t.ID, pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", t.Title, formatter.RenderProgress(t.ProgressPct, 20))
			return nil
		},
	}
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var (
		parent    string
		sortOrder int
	)

	cmd := &cobra.Command{
		Use:   "move PROJECT TASK",
		Short: "Re-parent a task; without --parent it becomes a root",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}

			var parentID *string
			if parent != "" {
				pt, err := resolveTask(ctx, app, p.ID, parent)
				if err != nil {
					return err
				}
				parentID = &pt.ID
			}
			var order *int
			if cmd.Flags().Changed("sort") {
				order = &sortOrder
			}

			moved, err := app.Tasks.Move(ctx, t.ID, parentID, order)
			if err != nil {
				return err
			}
			where := "top level"
			if parentID != nil {
				where = "under " + parent
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", moved.Title, where)
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent task (WBS or id)")
	cmd.Flags().IntVar(&sortOrder, "sort", 0, "Position among the new siblings")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PROJECT TASK",
		Aliases: []string{"rm"},
		Short:   "Delete a task; its children move up to the top level",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", t.Title)
			return nil
		},
	}
}
