package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/holidaycal/internal/logging"
	"github.com/dmitrijs2005/holidaycal/internal/server"
	"github.com/dmitrijs2005/holidaycal/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
