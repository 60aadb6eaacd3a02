package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/tree"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectCalendarCmd(app),
		newProjectRemoveCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		shortID, name string
		start         *time.Time
		deadline      *time.Time
		mask          calendar.Mask
		maskSet       bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Interactive && (shortID == "" || name == "") {
				fields := projectFields{ShortID: shortID, Name: name, Start: calendar.DateOf(time.Now()).Format(calendar.DateLayout)}
				if start != nil {
					fields.Start = start.Format(calendar.DateLayout)
				}
				if err := projectForm(&fields).Run(); err != nil {
					return err
				}
				shortID, name = fields.ShortID, fields.Name
				s, err := calendar.ParseDate(fields.Start)
				if err != nil {
					return err
				}
				start = &s
				if fields.Deadline != "" {
					d, err := calendar.ParseDate(fields.Deadline)
					if err != nil {
						return err
					}
					deadline = &d
				}
			}
			if shortID == "" || name == "" {
				return fmt.Errorf(`required flag(s) "id" and "name" not set`)
			}

			p := &domain.Project{
				ShortID:  shortID,
				Name:     strings.TrimSpace(name),
				Deadline: deadline,
			}
			if start != nil {
				p.StartDate = *start
			} else {
				p.StartDate = calendar.DateOf(time.Now())
			}
			if maskSet {
				p.WorkingDays = mask
			} else if app.Config != nil {
				m, err := app.Config.Mask()
				if err != nil {
					return err
				}
				p.WorkingDays = m
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. BLD01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	dateFlag(cmd.Flags(), &start, "start", "Start date (YYYY-MM-DD, default today)")
	dateFlag(cmd.Flags(), &deadline, "deadline", "Deadline (YYYY-MM-DD)")
	maskFlag(cmd.Flags(), &mask, &maskSet)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PROJECT",
		Short: "Show a project with its task tree",
		Args:  cobra.ExactArgs(1),
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
			deps, err := app.Dependencies.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			runs, err := app.Schedules.ListRuns(ctx, p.ID, 1)
			if err != nil {
				return err
			}

			forest := tree.Build(tasks)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatProjectInspect(formatter.ProjectInspectData{
				Project: p,
				Forest:  forest,
				Deps:    deps,
				Runs:    runs,
			}))
			if len(forest.Warnings) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatWarnings(forestWarnings(forest)))
			}
			return nil
		},
	}
}

func newProjectCalendarCmd(app *App) *cobra.Command {
	var (
		mask    calendar.Mask
		maskSet bool
	)

	cmd := &cobra.Command{
		Use:   "calendar PROJECT",
		Short: "Show or change the working days of a project",
		Long: `Without --working-days the current calendar is printed, or edited in a
form when running in a terminal. Changing the calendar does not move
existing tasks; regenerate the schedule to re-date them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !maskSet && app.Interactive {
				days := p.WorkingDays.Names()
				if err := calendarForm(&days).Run(); err != nil {
					return err
				}
				if mask, err = calendar.ParseMask(strings.Join(days, ",")); err != nil {
					return err
				}
				maskSet = true
			}
			if !maskSet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s working days: %s\n", p.DisplayID(), formatter.WorkingDays(p.WorkingDays))
				return nil
			}

			updated, err := app.Projects.SetCalendar(ctx, p.ID, mask)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s working days: %s\n", updated.DisplayID(), formatter.WorkingDays(updated.WorkingDays))
			return nil
		},
	}

	maskFlag(cmd.Flags(), &mask, &maskSet)
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove PROJECT",
		Aliases: []string{"rm"},
		Short:   "Delete a project with its tasks, links and runs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.Interactive {
					return fmt.Errorf("refusing to delete %s without --yes", p.DisplayID())
				}
				if err := confirmForm(fmt.Sprintf("Delete %s (%s)?", p.Name, p.DisplayID()), &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project and its schedule from a JSON or YAML import file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported project %s [%s]\n", res.Project.Name, res.Project.ShortID)
			if res.Schedule != nil {
				fmt.Fprint(out, formatter.FormatRegenerate(res.Schedule))
			}
			return nil
		},
	}
}
