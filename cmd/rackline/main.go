package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/rackline/rackline/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.String("config", "", "override config path (optional)")
	prefsPath := pflag.String("prefs", "", "override preferences path (optional)")
	server := pflag.String("server", "", "controller address, host:port (overrides config)")
	tick := pflag.Duration("tick", time.Second, "render refresh interval")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Server:     *server,
		Tick:       *tick,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "rackline: %v\n", err)
		return 1
	}
	return 0
}
