package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vidgallery/vidgallery/internal/auth"
	"github.com/vidgallery/vidgallery/internal/config"
	"github.com/vidgallery/vidgallery/internal/database"
	"github.com/vidgallery/vidgallery/internal/server"
	"github.com/vidgallery/vidgallery/internal/storage"
	"github.com/vidgallery/vidgallery/internal/store"
	"github.com/vidgallery/vidgallery/internal/thumbnail"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "gallery",
		Short:         "Curated video gallery server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (default: ./config.yaml if present)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(newLogger(cfg.Logging))
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newUserCmd(load),
	)
	return root
}

type loader func() (*config.Config, error)

func newServeCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url is required")
			}
			db, err := connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cfg.Database.URL); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}
			slog.Info("database migrations applied")
			return nil
		},
	}
}

func newUserCmd(load loader) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage gallery accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <email>",
		Short: "Create an account and print its id",
		Long: "Create an account and print its id. Set auth.admin_id to this id " +
			"to let the account add and delete videos.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("database.url is required")
			}
			if password == "" {
				password = os.Getenv("GALLERY_USER_PASSWORD")
			}

			db, err := connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := auth.CreateUser(cmd.Context(), db.Pool, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "account password (or GALLERY_USER_PASSWORD)")

	userCmd.AddCommand(add)
	return userCmd
}

func connect(ctx context.Context, databaseURL string) (*database.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		slog.Info("database migrations applied")
	}

	coll, pingers, err := openCollection(ctx, cfg, db)
	if err != nil {
		return err
	}

	resolver := thumbnail.NewResolver(&http.Client{Timeout: cfg.Thumbnail.ProbeTimeout})
	resolver.SetProbeTimeout(cfg.Thumbnail.ProbeTimeout)

	srv := server.New(server.Config{
		DB:             db.Pool,
		Pingers:        pingers,
		Store:          store.NewClient(coll, cfg.Store.Timeout),
		Resolver:       resolver,
		JWTSecret:      cfg.Auth.JWTSecret,
		AdminID:        cfg.Auth.AdminID,
		BaseURL:        cfg.Server.BaseURL,
		FrameAncestors: cfg.Server.FrameAncestors,
		RateLimits: server.RateLimits{
			LoginPerSecond: cfg.RateLimit.LoginPerSecond,
			LoginBurst:     cfg.RateLimit.LoginBurst,
			APIPerSecond:   cfg.RateLimit.APIPerSecond,
			APIBurst:       cfg.RateLimit.APIBurst,
		},
		MetricsEnabled: cfg.Server.MetricsEnabled,
		DocsEnabled:    cfg.Server.DocsEnabled,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gallery listening", "addr", httpServer.Addr, "backend", cfg.Store.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

// openCollection picks the video backend. Accounts always live in Postgres.
func openCollection(ctx context.Context, cfg *config.Config, db *database.DB) (store.Collection, []server.Pinger, error) {
	switch cfg.Store.Backend {
	case config.BackendS3:
		bucket, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("storage initialization failed: %w", err)
		}
		if cfg.S3.CreateBucket {
			if err := bucket.EnsureBucket(ctx); err != nil {
				return nil, nil, fmt.Errorf("storage bucket check failed: %w", err)
			}
			slog.Info("storage bucket ready", "bucket", cfg.S3.Bucket)
		}
		return bucket, []server.Pinger{db, bucket}, nil
	default:
		return store.NewPostgresCollection(db.Pool), []server.Pinger{db}, nil
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
