package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/gantt/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" && app.Config != nil {
				addr = app.Config.HTTPAddr
			}
			if addr == "" {
				return fmt.Errorf("no listen address (use --addr)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h := api.NewHandler(api.Services{
				Projects:     app.Projects,
				Tasks:        app.Tasks,
				Dependencies: app.Dependencies,
				Schedules:    app.Schedules,
				Gantt:        app.Gantt,
				Imports:      app.Imports,
			}, app.logger(), app.defaultZoom())

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
			return api.Serve(ctx, addr, h.Router(), app.logger())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
