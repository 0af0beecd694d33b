package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/solutyics/sales-distributor-aturab/internal/api"
	"github.com/solutyics/sales-distributor-aturab/internal/config"
	"github.com/solutyics/sales-distributor-aturab/internal/db"
	"github.com/solutyics/sales-distributor-aturab/internal/logging"
	"github.com/solutyics/sales-distributor-aturab/internal/metrics"
)

// set by -ldflags at build time
var (
	gitSHA    = "dev"
	buildTime = ""
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales-service",
		Short:         "Sales and distribution management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context())
		},
	})
	return cmd
}

func setup() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if err := logging.Setup(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("failed to set up logging: %w", err)
	}
	if cfg.EnvFile == "" {
		logging.LogKV("info", "no .env file found, using environment variables", nil)
	} else {
		logging.LogKV("info", "loaded env file", map[string]interface{}{"path": cfg.EnvFile})
	}
	return cfg, nil
}

func migrate(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logging.LogKV("error", "database connection failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logging.LogKV("error", "migration failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	logging.LogKV("info", "schema applied", nil)
	return nil
}

func serve(ctx context.Context) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logging.L().Sync() }()

	logging.LogKV("info", "sales service starting", map[string]interface{}{
		"git_sha":    gitSHA,
		"build_time": buildTime,
		"port":       cfg.Port,
	})

	// Database failure is non-fatal so /live still answers
	var store api.Store
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logging.LogKV("warn", "database initialization failed at startup", map[string]interface{}{"error": err.Error()})
	} else {
		defer database.Close()
		if cfg.AutoMigrate {
			if err := database.Migrate(ctx); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
		}
		store = database
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	router := api.NewRouter(api.NewHandler(store, m), m, api.RouterOptions{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Version:         gitSHA,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogKV("info", "starting server", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			logging.LogKV("error", "server failed", map[string]interface{}{"error": err.Error()})
			return err
		}
		return nil
	case sig := <-quit:
		logging.LogKV("info", "shutting down server", map[string]interface{}{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
