package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tickstats/internal/app"
	"tickstats/internal/config"
	"tickstats/internal/infrastructure"
	"tickstats/pkg/contracts"
)

func main() {
	showVersion := flag.Bool("version", false, "print version information and exit")
	configFile := flag.String("config", "", "path to a YAML config file (overrides "+config.ConfigFileEnv+")")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *configFile != "" {
		if err := os.Setenv(config.ConfigFileEnv, *configFile); err != nil {
			slog.Error("Failed to set config path", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runErr := application.Run(context.Background())
	if err := infrastructure.CloseLogFile(); err != nil {
		slog.Error("Failed to close log file", slog.String("error", err.Error()))
	}
	if runErr != nil {
		slog.Error("Application error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}
