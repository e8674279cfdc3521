package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stefanpenner/lifeos/pkg/app"
	"github.com/stefanpenner/lifeos/pkg/coach"
	"github.com/stefanpenner/lifeos/pkg/config"
	"github.com/stefanpenner/lifeos/pkg/goal"
	"github.com/stefanpenner/lifeos/pkg/store"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command tree with args. It owns the store and logger
// opened by the root command and releases them on return.
func execute(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// cli holds global flags and the dependencies built from them.
type cli struct {
	// Global flags
	dir     string
	user    string
	logFile string
	jsonOut bool
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	svc    *app.Service
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lifeos",
		Short: "LifeOS - goals, milestones and daily focus from the terminal",
		Long: `LifeOS turns an onboarding questionnaire into a life summary and a
month-by-month plan for each goal, then tracks progress as tasks get done.

Run without arguments to open the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDashboard(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.dir, "dir", "", "Data directory (or set LIFEOS_DIR)")
	root.PersistentFlags().StringVar(&c.user, "user", "", "User id (or set LIFEOS_USER)")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "Write logs to this file")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print JSON instead of text")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.dashboardCmd(),
		c.onboardCmd(),
		c.summaryCmd(),
		c.goalsCmd(),
		c.toggleCmd(),
		c.focusCmd(),
		c.doneCmd(),
		c.enrichCmd(),
		c.streakCmd(),
		c.resourcesCmd(),
		c.checkoutCmd(),
		c.exportCmd(),
		c.gatewayCmd(),
		c.configCmd(),
		c.resetCmd(),
	)
	return root
}

// setup loads configuration and opens the store for every command.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.dir, store.DefaultDataDir())
	if err != nil {
		return err
	}
	if c.user != "" {
		cfg.UserID = c.user
	}
	if c.logFile != "" {
		cfg.Logging.File = c.logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg

	c.logger, err = newLogger(cfg.Logging, c.verbose, isInteractive(cmd))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.store, err = store.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening data dir %s: %w", cfg.DataDir, err)
	}

	var analyzer coach.Analyzer
	if !cfg.Offline() {
		analyzer = coach.NewClient(cfg.Gateway.URL, cfg.Gateway.APIKey, cfg.GatewayTimeout())
	}
	c.svc = app.New(c.store, coach.New(analyzer, c.logger), goal.NewEnricher(nil), c.logger, cfg.UserID)

	c.logger.Debug("lifeos ready",
		zap.String("dir", cfg.DataDir),
		zap.String("user", cfg.UserID),
		zap.Bool("offline", cfg.Offline()))
	return nil
}

func (c *cli) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// isInteractive reports whether cmd takes over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	return cmd.Name() == "dashboard" || !cmd.HasParent()
}

// newLogger builds the process logger. The dashboard owns the terminal, so
// it only logs when a log file is configured.
func newLogger(cfg config.LoggingConfig, verbose, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}
	return zc.Build()
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
