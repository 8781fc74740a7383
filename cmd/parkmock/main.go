// Command parkmock runs the development stand-in for the parking backend.
// It serves the documented routes, the websocket change feed and a metrics
// endpoint on one port, seeded with a small deterministic dataset.
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"

	"github.com/abdelrahmanseada/Car-Parking/internal/mockbackend"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/logging"
)

type settings struct {
	Port      string        `envconfig:"PORT" default:"4941"`
	BasePath  string        `envconfig:"BASE_PATH" default:"/api/v1"`
	JWTSecret string        `envconfig:"JWT_SECRET" default:"parkmock-dev-secret"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	Seed      bool          `envconfig:"SEED" default:"true"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"text"`
}

func main() {
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	var cfg settings
	if err := envconfig.Process("PARKMOCK", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)
	log.SetOutput(os.Stdout)
	log.SetFlags(0)

	backend := mockbackend.New(mockbackend.Config{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Seed:      cfg.Seed,
	})

	e := echo.New()
	e.Logger.SetOutput(log.Writer())
	backend.Routes(e.Group(basePath(cfg.BasePath)))

	slog.Info("mock backend ready",
		slog.String("port", cfg.Port),
		slog.String("base_path", basePath(cfg.BasePath)),
		slog.Bool("seeded", cfg.Seed))

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	backend.Shutdown()
	e.Close()
}

// basePath normalizes the mount prefix: a leading slash, no trailing one,
// and "/" meaning the root group.
func basePath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
