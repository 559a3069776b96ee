package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"simspay/internal/cli"
	"simspay/internal/config"
	"simspay/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
