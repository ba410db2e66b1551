package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/lehmann314159/wordbank/internal/config"
	"github.com/lehmann314159/wordbank/internal/database"
	"github.com/lehmann314159/wordbank/internal/logger"
	"github.com/lehmann314159/wordbank/internal/models"
	"github.com/lehmann314159/wordbank/internal/repository"
	"github.com/lehmann314159/wordbank/internal/services"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrWordbank is a parent error for all command errors.
var ErrWordbank = errors.New("wordbank")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrWordbank)

func newWordbankApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Community multilingual dictionary.",
		Description: strings.Join([]string{
			"Serve and manage a dictionary of English headwords and",
			"their community-contributed translations.",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE`",
				Aliases: []string{"c"},
				EnvVars: []string{"WORDBANK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "use the dictionary database at `PATH`",
				EnvVars: []string{"WORDBANK_DB"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log at `LEVEL` (debug, info, warn, error)",
				EnvVars: []string{"WORDBANK_LOG_LEVEL"},
			},
		},
		HideHelpCommand: true,
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			listCommand,
			searchCommand,
			showCommand,
			addCommand,
			translateCommand,
			languagesCommand,
			categoriesCommand,
			importCommand,
			exportCommand,
			versionCommand,
		},
	}
}

// loadConfig reads the config file and applies global flag overrides.
// Commands other than serve log at warn unless a level is requested so
// their output stays readable.
func loadConfig(c *cli.Context, quiet bool) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}

	switch {
	case c.IsSet("log-level"):
		cfg.Logging.Level = c.String("log-level")
	case quiet:
		cfg.Logging.Level = "warn"
	}

	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		logger.Warn("logger configuration incomplete", "error", err)
	}

	return cfg, nil
}

// openService opens and migrates the database and builds the dictionary service
func openService(c *cli.Context, quiet bool) (*services.DictionaryService, config.Config, func(), error) {
	cfg, err := loadConfig(c, quiet)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	db, err := database.OpenAndMigrate(cfg.Database.Path)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	svc := services.NewDictionaryService(repository.NewSQLiteRepository(db))
	return svc, cfg, func() { db.Close() }, nil
}

// parseTranslation parses a LANGUAGE=DEFINITION flag value
func parseTranslation(value string) (models.TranslationRequest, error) {
	language, definition, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(language) == "" || strings.TrimSpace(definition) == "" {
		return models.TranslationRequest{}, fmt.Errorf("%w: translation %q must be LANGUAGE=DEFINITION", ErrFlagParse, value)
	}

	return models.TranslationRequest{
		Language:   strings.TrimSpace(language),
		Definition: strings.TrimSpace(definition),
	}, nil
}

// requireArgs checks the command received exactly n positional arguments
func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrFlagParse, c.Command.Name, n, c.NArg())
	}
	return nil
}
