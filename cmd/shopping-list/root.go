package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"shopping-list/internal/app"
	"shopping-list/internal/config"
	"shopping-list/internal/database"
	"shopping-list/internal/metrics"
	"shopping-list/internal/shopping"
	"shopping-list/internal/storage"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	cfgFile   string
	recipeDir string
	verbose   bool
}

// env is everything a command needs, opened once per invocation.
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	store   *storage.RecipeStore
	db      *database.DB
	metrics *metrics.Store
	app     *app.App
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "shopping-list",
		Short: "Build one shopping list from a selection of recipes",
		Long: `shopping-list merges the ingredients of the recipes you pick into a single
list, converting between teaspoons, tablespoons, ounces and cups so every
ingredient appears once, and writes it out as a printable or notes report.

Examples:
  shopping-list init
  shopping-list recipes --tag MealType:Dinner
  shopping-list generate "Sante Fe Pork Tacos" --file list.txt --format print
  shopping-list history`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "TOML config file (default: environment only)")
	cmd.PersistentFlags().StringVar(&opts.recipeDir, "recipe-dir", "", "recipe directory (overrides RECIPE_DIR)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newInitCommand(opts),
		newRecipesCommand(opts),
		newGenerateCommand(opts),
		newHistoryCommand(opts),
		newShowCommand(opts),
		newClipCommand(opts),
		newMetricsCommand(opts),
		newMetricsCleanupCommand(opts),
	)
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.cfgFile != "" {
		return config.Load(opts.cfgFile)
	}
	return config.NewFromEnv()
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "shopping-list",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// openEnv loads config, opens the recipe store and the database and loads
// the recipe catalogue.
func openEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.recipeDir != "" {
		cfg.RecipeDir = opts.recipeDir
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg, opts.verbose)

	store, created, err := storage.NewRecipeStore(cfg.RecipeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe directory: %w", err)
	}
	if created {
		logger.Info("created recipe directory", "dir", cfg.RecipeDir)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	metricsStore := metrics.NewStore(db.SQL)
	a := app.NewApp(store, shopping.NewRepository(db.SQL), metricsStore, logger)
	if _, err := a.LoadRecipes(); err != nil {
		db.Close()
		return nil, err
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		db:      db,
		metrics: metricsStore,
		app:     a,
	}, nil
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.logger.Warn("failed to close database", "err", err)
	}
}
