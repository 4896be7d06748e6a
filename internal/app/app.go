package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rackline/rackline/internal/channel"
	"github.com/rackline/rackline/internal/config"
	"github.com/rackline/rackline/internal/fleet"
	"github.com/rackline/rackline/internal/prefs"
	"github.com/rackline/rackline/internal/ui"
)

// Options configure the rackline application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rackline/prefs.toml
	Server     string // overrides the configured controller address
	Tick       time.Duration
}

// Run boots the rackline TUI until the context is cancelled or the
// channel drops.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Server != "" {
		cfg.ServerAddr = opts.Server
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, err := channel.Dial(ctx, channel.Config{
		Address:     cfg.ServerAddr,
		DialTimeout: cfg.DialTimeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.ServerAddr, err)
	}
	defer conn.Close()

	flt := fleet.New(conn, logger)

	// Subscribe before the initial lists so no push is missed in the
	// gap between list response and first notify.
	flt.Register(conn)

	// Bridge pushes into the UI so a change renders immediately rather
	// than on the next tick. The channel is a level trigger: a pending
	// signal covers any number of notifications.
	events := make(chan struct{}, 1)
	for _, st := range flt.Stores() {
		conn.RegisterNotifier(st.ObjectType(), func(string, json.RawMessage) {
			select {
			case events <- struct{}{}:
			default:
			}
		})
	}

	if err := flt.Load(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	// A dropped channel ends the UI; the mirror is stale the moment
	// pushes stop arriving.
	go func() {
		<-conn.Done()
		cancel()
	}()

	uiErr := ui.Run(ui.Options{
		Context:   ctx,
		Fleet:     flt,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Tick:      opts.Tick,
		Events:    events,
	})

	if connErr := conn.Err(); connErr != nil {
		return fmt.Errorf("connection lost: %w", connErr)
	}
	if uiErr != nil && ctx.Err() == nil {
		return uiErr
	}
	return nil
}

// newLogger opens the log file and builds the application logger. The
// UI owns the terminal, so logs never go to stderr; a log dir that
// cannot be created degrades to a discard logger.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = file.Close() }
}
