// ABOUTME: Root Cobra command for the healthai CLI.
// ABOUTME: Builds config, logger, storage and the health service in PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"

	"github.com/harperreed/healthai/internal/config"
	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/logging"
	"github.com/harperreed/healthai/internal/models"
	"github.com/harperreed/healthai/internal/session"
	"github.com/harperreed/healthai/internal/storage"
	"github.com/harperreed/healthai/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skipSetup marks commands that run without opening storage.
const skipSetup = "skip-setup"

var (
	configPath   string
	backendFlag  string
	userEmail    string
	userPassword string
)

// app holds everything a command needs once PersistentPreRunE has run.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	kv      storage.KV
	svc     *health.Service
	auth    *session.Authenticator
	tokens  *session.Registry
	session *session.Session
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "healthai",
	Short: "AI-assisted health metrics tracker",
	Long: `Healthai tracks health metrics and turns them into insights.

WHAT IT TRACKS:

  heart_rate (bpm), steps, sleep (hours), weight (kg),
  blood_pressure (mmHg), temperature (°C)

QUICK START:

  $ healthai list                          # Demo metrics, seeded on first read
  $ healthai add heart_rate 72             # Record a reading
  $ healthai analyze                       # Health score and summary
  $ healthai insights generate             # Produce a new insight
  $ healthai ask "how is my sleep?"        # Ask the health assistant
  $ healthai sources connect apple-health  # Connect a data source

IDENTITY:

  Commands act as the demo user unless --email is given. Register an
  account first with 'healthai user register'.

SERVERS:

  $ healthai serve    # HTTP API on server.addr (default :8080)
  $ healthai mcp      # Model Context Protocol server on stdio

STORAGE:

  The backend is chosen by 'backend' in the config file or HEALTHAI_BACKEND:
  sqlite (default), memory, badger, redis, or charm.
  Run 'healthai config show' to see the effective configuration.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] == "true" || cmd.Name() == "help" {
			return nil
		}
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		_ = current.logger.Sync()
		err := current.kv.Close()
		current = nil
		return err
	},
}

// loadConfig reads --config when set, otherwise the default location,
// then applies --backend.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	kv, err := cfg.OpenStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	logger.Debug("storage opened", zap.String("backend", cfg.GetBackend()))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		svc:     health.New(kv, health.Options{Latency: cfg.Insights.Latency}),
		auth:    session.NewAuthenticator(store.NewUserStore(kv)),
		tokens:  session.NewRegistry(),
		session: session.New(),
	}

	if userEmail != "" {
		if _, err := a.auth.Login(ctx, a.session, userEmail, userPassword); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to log in as %s: %w", userEmail, err)
		}
	} else {
		a.auth.LoginDemo(a.session)
	}
	return a, nil
}

// user returns the identity commands act as.
func (a *app) user() *models.User {
	u, ok := a.session.Current()
	if !ok {
		return models.DemoUser()
	}
	return u
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/healthai/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "override the storage backend")
	rootCmd.PersistentFlags().StringVar(&userEmail, "email", "", "act as the account registered with this email")
	rootCmd.PersistentFlags().StringVar(&userPassword, "password", "", "password for --email")
}
