package main

import (
	"github.com/Dan9191/exercise-tracker/internal/config"
	"github.com/Dan9191/exercise-tracker/internal/logging"
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

// App is passed to every command's Run method.
type App struct {
	Config *config.Config
	Log    *logrus.Logger
}

var cli struct {
	Port  string `help:"Listen port. Overrides PORT."`
	Store string `help:"Storage driver (memory, sqlite, postgres, mongo). Overrides STORE_DRIVER."`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP API."`
	Migrate MigrateCmd `cmd:"" help:"Create the storage schema and exit."`
	Report  ReportCmd  `cmd:"" help:"Build the activity report once and deliver it."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("exercise-tracker"),
		kong.Description("Exercise tracker REST API"),
		kong.UsageOnError(),
	)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		ctx.FatalIfErrorf(err, "failed to load config")
	}
	if cli.Port != "" {
		cfg.Port = cli.Port
	}
	if cli.Store != "" {
		cfg.StoreDriver = cli.Store
	}
	if err := cfg.Validate(); err != nil {
		ctx.FatalIfErrorf(err, "invalid configuration")
	}

	// Initialize logger
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	if err := ctx.Run(&App{Config: cfg, Log: logger}); err != nil {
		logger.Fatalf("%s failed: %v", ctx.Command(), err)
	}
}
