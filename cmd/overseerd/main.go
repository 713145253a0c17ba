// Command overseerd runs the Overseer task deadline engine as a
// session daemon: it loads the persisted task collection, starts the
// tick scheduler, and dispatches alerts until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/overseerhq/overseer/config"
	"github.com/overseerhq/overseer/engine"
	"github.com/overseerhq/overseer/internal/version"
	"github.com/overseerhq/overseer/task"
)

var configPath = flag.String("config", "overseer.yaml", "path to config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.DefaultConfig()
		} else {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	logger.Info("starting overseerd",
		"version", version.Version,
		"commit", version.Commit,
	)

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	eng := engine.New(engine.Config{
		Store:         store,
		Logger:        logger,
		Tick:          time.Duration(cfg.Tick),
		AlertsEnabled: cfg.AlertsEnabled,
		AutoOpenURLs:  cfg.AutoOpenURLs,
	})
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eng.Load(ctx); err != nil {
		log.Fatalf("Failed to load tasks: %v", err)
	}

	go eng.Run(ctx)

	fmt.Printf("Overseer running (store=%s, tick=%s)\n", cfg.Store.Backend, time.Duration(cfg.Tick))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	cancel()
}

// openStore builds the configured Store backend. The returned closer
// is a no-op for backends without a connection to release.
func openStore(cfg config.StoreConfig) (task.Store, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		s, err := task.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "json":
		return task.NewFileStore(cfg.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
