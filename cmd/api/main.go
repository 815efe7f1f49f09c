package main

import (
	"os"

	"github.com/yigit/placementprep/internal/pkg/logger"
	"github.com/yigit/placementprep/internal/server"
)

// @title PlacementPrep API
// @version 1.0
// @description Interview experiences, preparation material and moderation for campus placements.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider token.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions have already logged the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
