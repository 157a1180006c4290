// Command smm-devserver is a local stand-in for the school portal API.
// It serves every endpoint the smm console uses, backed by SQLite.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-portal/internal/auth"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/http/router"
	"github.com/aanand-mishra/student-portal/internal/storage"
	"github.com/aanand-mishra/student-portal/internal/storage/sqlite"
	"github.com/aanand-mishra/student-portal/internal/types"
)

func main() {
	// ── Step 1: Load config ──────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── Step 2: Set up the logger ────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting smm-devserver",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── Step 3: Open storage and seed the super-admin ────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o755); err != nil {
		log.Error("failed to create storage directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	seedSuperAdmin(log, store, cfg.Seed)

	// ── Step 4: Build the router and server ──────────────────────────────
	// Sessions live in memory, so a restart logs everyone out.
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router.New(store, auth.NewSessions()),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── Step 5: Serve until SIGINT or SIGTERM ────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// In-flight requests get 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// seedSuperAdmin creates the configured super-admin unless the username
// is already taken.
func seedSuperAdmin(log *slog.Logger, store storage.Storage, seed config.Seed) {
	if seed.SuperAdminPassword == "" {
		log.Warn("no super-admin password configured, skipping seed",
			slog.String("username", seed.SuperAdminUsername))
		return
	}

	_, err := store.CreateUser(seed.SuperAdminUsername, seed.SuperAdminPassword, types.RoleSuperAdmin)
	switch {
	case err == nil:
		log.Info("super-admin seeded", slog.String("username", seed.SuperAdminUsername))
	case errors.Is(err, storage.ErrConflict):
		log.Debug("super-admin already present", slog.String("username", seed.SuperAdminUsername))
	default:
		log.Error("failed to seed super-admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupLogger picks the log format and level for env.
//
//	dev     → text, DEBUG
//	staging → JSON, DEBUG
//	prod    → JSON, INFO
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
