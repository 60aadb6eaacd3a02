package cli

import (
	"encoding/json"
	"fmt"
	"time"

	core "github.com/alexanderramin/gantt/internal/app"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/contract"
	"github.com/alexanderramin/gantt/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChartCmd(app *App) *cobra.Command {
	var (
		zoom        timeline.Zoom
		collapse    []string
		today       *time.Time
		asJSON      bool
		interactive bool
		width       int
		labelWidth  int
	)

	cmd := &cobra.Command{
		Use:     "chart PROJECT",
		Aliases: []string{"gantt"},
		Short:   "Draw a project's Gantt chart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			req := core.NewGanttRequest(p.ID)
			req.Zoom = app.defaultZoom()
			if cmd.Flags().Changed("zoom") {
				req.Zoom = zoom
			}
			req.Today = today
			for _, ref := range collapse {
				t, err := resolveTask(ctx, app, p.ID, ref)
				if err != nil {
					return err
				}
				req.Collapsed = append(req.Collapsed, t.ID)
			}

			if interactive {
				if !app.Interactive {
					return fmt.Errorf("interactive chart needs a terminal")
				}
				m := newGanttModel(ctx, app.Gantt, req)
				_, err := tea.NewProgram(m,
					tea.WithAltScreen(),
					tea.WithContext(ctx),
					tea.WithOutput(cmd.OutOrStdout()),
				).Run()
				return err
			}

			resp, err := app.Gantt.Gantt(ctx, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(contract.GanttFrom(resp))
			}

			fmt.Fprintf(out, "%s  %s  %s → %s  %s\n\n",
				formatter.Bold(resp.Project.Name),
				formatter.Dim(resp.Project.DisplayID()),
				formatter.ISODate(resp.Chart.Range.Start),
				formatter.ISODate(resp.Chart.Range.End),
				formatter.Dim(string(resp.Chart.Zoom)))
			fmt.Fprint(out, formatter.RenderGantt(resp, formatter.GanttOptions{
				LabelWidth: labelWidth,
				Width:      width,
				Cursor:     -1,
			}))
			return nil
		},
	}

	zoomFlag(cmd.Flags(), &zoom)
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "Summary tasks to collapse (WBS or id, comma separated)")
	dateFlag(cmd.Flags(), &today, "today", "Date of the today marker (default: today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the chart geometry as JSON")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the chart viewer")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Maximum timeline columns (0 = all)")
	cmd.Flags().IntVar(&labelWidth, "label-width", 32, "Width of the task label column")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}
