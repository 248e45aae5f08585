package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/yigit/electivehub/internal/pkg/logger"
	"github.com/yigit/electivehub/internal/server"
)

// @title ElectiveHub API
// @version 1.0
// @description Elective course enrollment service with score-ranked admission

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	// A missing .env is fine; the config has defaults and env overrides
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on environment and config file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
