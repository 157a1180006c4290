// Command smm is the terminal client of the school portal.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/student-portal/internal/apiclient"
	"github.com/aanand-mishra/student-portal/internal/config"
	"github.com/aanand-mishra/student-portal/internal/console"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	api, err := apiclient.New(cfg.Client.BaseURL)
	if err != nil {
		log.Error("invalid API base URL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Debug("using API", slog.String("base_url", api.BaseURL()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := console.New(api, os.Stdin, os.Stdout).Run(ctx); err != nil {
		log.Error("console stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupLogger writes to stderr so stdout carries only the screens. Only
// warnings and errors are shown outside dev.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod", "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
