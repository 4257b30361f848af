package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/postplanner/internal/buildinfo"
	"github.com/dmitrijs2005/postplanner/internal/logging"
	"github.com/dmitrijs2005/postplanner/internal/server"
	"github.com/dmitrijs2005/postplanner/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}
}
