package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"link"},
		Short:   "Manage finish-to-start links between tasks",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add PROJECT PREDECESSOR SUCCESSOR",
		Short: "Link two tasks; the successor starts after the predecessor ends",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			pred, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			succ, err := resolveTask(ctx, app, p.ID, args[2])
			if err != nil {
				return err
			}
			if _, err := app.Dependencies.Add(ctx, pred.ID, succ.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s → %s\n", pred.Title, succ.Title)
			return nil
		},
	}
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list PROJECT",
		Aliases: []string{"ls"},
		Short:   "List a project's links",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			deps, err := app.Dependencies.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No links.")
				return nil
			}
			tasks, err := app.Tasks.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}

			forest := tree.Build(tasks)
			label := func(id string) string {
				if n := forest.Find(id); n != nil {
					return n.WBS + " " + n.Task.Title
				}
				return id
			}
			rows := make([][]string, 0, len(deps))
			for _, d := range deps {
				rows = append(rows, []string{label(d.PredecessorID), "→", label(d.SuccessorID)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"PREDECESSOR", "", "SUCCESSOR"}, rows))
			return nil
		},
	}
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PROJECT PREDECESSOR SUCCESSOR",
		Aliases: []string{"rm"},
		Short:   "Remove a link",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			pred, err := resolveTask(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			succ, err := resolveTask(ctx, app, p.ID, args[2])
			if err != nil {
				return err
			}
			if err := app.Dependencies.Remove(ctx, pred.ID, succ.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s → %s\n", pred.Title, succ.Title)
			return nil
		},
	}
}
