package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/sachwave/sachwave/internal/client/cli"
	"github.com/sachwave/sachwave/internal/client/config"
	"github.com/sachwave/sachwave/internal/logging"
)

var buildVersion = "N/A"

func main() {

	// Logs go to stderr so they never interleave with the REPL.
	sl := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(sl)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, buildVersion, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
