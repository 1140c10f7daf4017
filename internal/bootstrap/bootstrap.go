package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	appinadapter "basecli/internal/modules/app/adapter/in"
	appoutadapter "basecli/internal/modules/app/adapter/out"
	appservice "basecli/internal/modules/app/service"
	appusecase "basecli/internal/modules/app/usecase"
	cliinadapter "basecli/internal/modules/cli/adapter/in"
	clioutadapter "basecli/internal/modules/cli/adapter/out"
	cliservice "basecli/internal/modules/cli/service"
	cliusecase "basecli/internal/modules/cli/usecase"
	"basecli/internal/platform/clock"
	"basecli/internal/platform/config"
	"basecli/internal/platform/id"
	"basecli/internal/platform/logging"
	uiapp "basecli/internal/ui/app"
)

const envPrefix = "BASECLI"

type App struct {
	CLI    cliinadapter.CLIHandler
	AppCLI appinadapter.CLIHandler
	Host   *appservice.AppService
	Logger hclog.Logger

	db *sql.DB
}

// Close releases the state database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func New(cfg config.Config, logOutput io.Writer) (*App, error) {
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger := logging.New("basecli", logOutput, cfg.LogLevel)
	ctx := context.Background()

	db, err := appoutadapter.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	store, err := appoutadapter.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new store: %w", err)
	}
	journal, err := appoutadapter.NewSQLiteEventJournal(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new event journal: %w", err)
	}

	host := appservice.NewAppService(appservice.Deps{
		Store:   store,
		Loader:  appoutadapter.NewFileDataLoader(),
		Journal: journal,
		Clock:   clock.SystemClock{},
		IDs:     id.UUID{},
		Logger:  logger.Named("app"),
	})

	modules := clioutadapter.NewRegistryLoader(cfg.PluginDir, logger.Named("plugin"))
	if err := modules.Register(clioutadapter.NewEnvPlugin(envPrefix, os.Environ)); err != nil {
		_ = db.Close()
		return nil, err
	}
	resolver := cliservice.NewResolver(modules, clioutadapter.NewPathLoader(logger.Named("plugin")), logger.Named("resolver"))
	cli, err := cliservice.Build(host, resolver, cliservice.Options{
		Args:   cfg.Args,
		Logger: logger.Named("cli"),
		Getwd:  func() (string, error) { return cfg.Cwd, nil },
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build cli: %w", err)
	}

	return &App{
		CLI:    cliinadapter.NewCLIHandler(cliusecase.NewInteractor(cli)),
		AppCLI: appinadapter.NewCLIHandler(appusecase.NewInteractor(host)),
		Host:   host,
		Logger: logger,
		db:     db,
	}, nil
}

func RunConsole(app *App) error {
	model := uiapp.NewModel(app.CLI, app.AppCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
