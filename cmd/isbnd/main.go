package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/GlazerMann/isbn/pkg/isbn"
	"github.com/GlazerMann/isbn/pkg/ranges"
	"github.com/GlazerMann/isbn/pkg/telemetry"
)

const serviceVersion = "1.0.0"

// Config holds every knob the service reads from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8899"`

	// RangeSource selects where the rule table comes from:
	// embedded, xml, sqlite or postgres.
	RangeSource  string `env:"RANGE_SOURCE" envDefault:"embedded"`
	RangeXMLPath string `env:"RANGE_XML_PATH"`
	RangeDBPath  string `env:"RANGE_DB_PATH" envDefault:"ranges.db"`
	RangeDSN     string `env:"RANGE_DB_DSN"`

	APIKey            string `env:"API_KEY"`
	AdminUser         string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

func initLogger() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
}

// seedSource picks the dataset used to fill an empty database source:
// a RangeMessage file when one is configured, the bundled copy
// otherwise.
func seedSource(cfg Config) ranges.Source {
	if cfg.RangeXMLPath != "" {
		return ranges.NewXMLSource(cfg.RangeXMLPath)
	}
	return ranges.BundledSource()
}

func buildTable(cfg Config) (*ranges.Table, error) {
	switch cfg.RangeSource {
	case "embedded", "":
		return ranges.Default()
	case "xml":
		if cfg.RangeXMLPath == "" {
			return nil, fmt.Errorf("RANGE_SOURCE=xml requires RANGE_XML_PATH")
		}
		return ranges.New(ranges.NewXMLSource(cfg.RangeXMLPath))
	case "sqlite":
		src, err := ranges.NewSQLiteSource(cfg.RangeDBPath, seedSource(cfg))
		if err != nil {
			return nil, err
		}
		return ranges.New(src)
	case "postgres":
		src, err := ranges.NewPostgresSource(cfg.RangeDSN, seedSource(cfg))
		if err != nil {
			return nil, err
		}
		return ranges.New(src)
	default:
		return nil, fmt.Errorf("unknown range source %q", cfg.RangeSource)
	}
}

func main() {
	// A .env file is optional; real deployments set the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "bad configuration: %v\n", err)
		os.Exit(1)
	}

	initLogger()

	shutdownTracer, err := telemetry.InitTracer(context.Background(), "isbn-gateway", serviceVersion)
	if err != nil {
		slog.Warn("failed to init tracer", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	slog.Info("loading range table", "source", cfg.RangeSource)
	table, err := buildTable(cfg)
	if err != nil {
		slog.Error("failed to load range table", "source", cfg.RangeSource, "error", err)
		os.Exit(1)
	}
	slog.Info("range table loaded", "products", table.Products(), "groups", len(table.GroupKeys()))

	parser := isbn.NewParser(table)

	router := setupRouter(cfg, parser, table)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("isbn gateway starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("gateway listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("gateway forced to shutdown", "error", err)
	}

	slog.Info("gateway exiting")
}
