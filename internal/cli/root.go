package cli

import (
	"context"
	"io"

	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ImportSource fetches an import payload by reference from a remote system.
type ImportSource interface {
	Fetch(ctx context.Context, ref string) (*importer.ImportSchema, error)
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Tasks        service.TaskService
	Dependencies service.DependencyService
	Schedules    service.ScheduleService
	Gantt        service.GanttService
	Imports      service.ImportService

	Config *config.Config
	Logger logrus.FieldLogger

	// Interactive enables forms and the chart viewer. It is false when
	// stdin or stdout is not a terminal.
	Interactive bool
	// ImportSource is nil when no import URL is configured.
	ImportSource func() (ImportSource, error)
}

func (a *App) defaultZoom() timeline.Zoom {
	if a.Config == nil {
		return timeline.ZoomWeek
	}
	z, err := timeline.ParseZoom(a.Config.DefaultZoom)
	if err != nil {
		return timeline.ZoomWeek
	}
	return z
}

func (a *App) logger() logrus.FieldLogger {
	if a.Logger != nil {
		return a.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewRootCmd creates the top-level "gantt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "gantt",
		Short:         "Hierarchical project timelines from estimates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newScheduleCmd(app),
		newChartCmd(app),
		newServeCmd(app),
	)

	return root
}
