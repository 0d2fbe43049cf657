package config

import (
	"prescription-reader/internal/client"
	"prescription-reader/internal/domain"
	"prescription-reader/internal/service"
	"prescription-reader/internal/staging"
	"prescription-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	ExtractionClient  domain.ExtractionAPI
	DocumentStager    domain.DocumentStager
	ExtractionService domain.ExtractionService
	AnalysisService   domain.AnalysisService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Initialize the extraction backend client and staging area
	extractionClient := client.NewExtractionClient(config.GetExtractionAPIURL(), config.GetExtractionTimeout(), appLogger)
	stager := staging.NewFileStager(config.GetStagingPath())

	// Initialize services
	extractionService := service.NewExtractionService(extractionClient, stager, appLogger)
	analysisService := service.NewAnalysisService(extractionClient, appLogger)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		ExtractionClient:  extractionClient,
		DocumentStager:    stager,
		ExtractionService: extractionService,
		AnalysisService:   analysisService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetExtractionService returns the extraction service instance
func (c *Container) GetExtractionService() domain.ExtractionService {
	return c.ExtractionService
}

// GetAnalysisService returns the analysis service instance
func (c *Container) GetAnalysisService() domain.AnalysisService {
	return c.AnalysisService
}
