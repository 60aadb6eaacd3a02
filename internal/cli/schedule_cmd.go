package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"s"},
		Short:   "Generate schedules from estimates",
	}

	cmd.AddCommand(
		newScheduleGenerateCmd(app),
		newScheduleRunsCmd(app),
	)

	return cmd
}

func newScheduleGenerateCmd(app *App) *cobra.Command {
	var (
		from, fromURL string
		mode          domain.ScheduleMode
		start         *time.Time
	)

	cmd := &cobra.Command{
		Use:     "generate PROJECT",
		Aliases: []string{"gen", "regenerate"},
		Short:   "Replace a project's tasks with a schedule built from an import",
		Long: `Reads an estimate, cost estimate or offer and rebuilds every task of the
project from it. The previous tasks and links are replaced atomically; on
failure they are kept. The project block of the import, if any, is ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if (from == "") == (fromURL == "") {
				return fmt.Errorf("exactly one of --from or --from-url is required")
			}
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			var schema *importer.ImportSchema
			if from != "" {
				if schema, err = importer.LoadImportSchema(from); err != nil {
					return fmt.Errorf("loading import file: %w", err)
				}
			} else {
				if app.ImportSource == nil {
					return fmt.Errorf("no import URL configured (set GANTT_IMPORT_URL)")
				}
				src, err := app.ImportSource()
				if err != nil {
					return err
				}
				stop := func() {}
				if app.Interactive {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Fetching "+fromURL)
				}
				schema, err = src.Fetch(ctx, fromURL)
				stop()
				if err != nil {
					return err
				}
			}

			schema.Project = nil
			if cmd.Flags().Changed("mode") {
				schema.Mode = string(mode)
			}

			res, err := app.Imports.RegenerateFromSchema(ctx, p.ID, schema, start)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRegenerate(res))
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Import file (JSON or YAML)")
	cmd.Flags().StringVar(&fromURL, "from-url", "", "Import reference on the configured import source")
	modeFlag(cmd.Flags(), &mode)
	dateFlag(cmd.Flags(), &start, "start", "Start date (default: project start)")

	return cmd
}

func newScheduleRunsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs PROJECT",
		Short: "Show recent schedule generations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			runs, err := app.Schedules.ListRuns(ctx, p.ID, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schedule runs.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}
