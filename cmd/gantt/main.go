package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/alexanderramin/gantt/internal/cli"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/importsource"
	"github.com/alexanderramin/gantt/internal/logging"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Without a log file, only the server logs at the configured level;
	// one-shot commands keep stderr for warnings.
	level := cfg.LogLevel
	if cfg.LogFile == "" && !slices.Contains(os.Args[1:], "serve") {
		level = "warn"
	}
	logger, closer, err := logging.New(logging.Options{
		SystemName: "gantt",
		File:       cfg.LogFile,
		Level:      level,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	runRepo := repository.NewSQLiteScheduleRunRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	// Wire services
	scheduleSvc := service.NewScheduleService(projectRepo, runRepo, uow, logger, observer)

	app := &cli.App{
		Projects:     service.NewProjectService(projectRepo, observer),
		Tasks:        service.NewTaskService(taskRepo, uow, observer),
		Dependencies: service.NewDependencyService(depRepo, uow, observer),
		Schedules:    scheduleSvc,
		Gantt:        service.NewGanttService(projectRepo, taskRepo, depRepo, logger),
		Imports:      service.NewImportService(projectRepo, scheduleSvc, observer),
		Config:       &cfg,
		Logger:       logger,
	}

	app.Interactive = (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		isatty.IsTerminal(os.Stdout.Fd())

	if cfg.ImportURL != "" {
		app.ImportSource = func() (cli.ImportSource, error) {
			client, err := importsource.New(importsource.Options{
				BaseURL: cfg.ImportURL,
				Timeout: time.Duration(cfg.ImportTimeoutMs) * time.Millisecond,
				Logger:  logger,
			})
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
