package main

import (
	"github.com/apex/log"

	"github.com/binsight/footfall-backend-go/internal/api"
	"github.com/binsight/footfall-backend-go/internal/config"
	"github.com/binsight/footfall-backend-go/internal/database"
	"github.com/binsight/footfall-backend-go/internal/repository"
	"github.com/binsight/footfall-backend-go/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}

	artifactRepo := repository.NewArtifactRepository(database.GetDB())
	analysisService := service.NewAnalysisService(cfg, artifactRepo)

	router := api.SetupRouter(cfg, analysisService)

	log.Infof("Server starting on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
