package main

import (
	"context"
	"log"
	"os"

	"github.com/ZinoChan/LangRhythms/internal/logging"
	"github.com/ZinoChan/LangRhythms/internal/server"
	"github.com/ZinoChan/LangRhythms/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
