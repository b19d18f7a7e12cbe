package main

import (
	"os"

	"github.com/ypropel/backend/internal/pkg/logger"
	"github.com/ypropel/backend/internal/server"
)

// @title YPropel API
// @version 1.0
// @description Career and community platform API: feed, discussions, study circles, messaging, jobs and curated content.

// @host localhost:4000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, sent as "Bearer <token>"

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup failures are logged in detail by NewServer
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
