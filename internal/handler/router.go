package handler

import (
	"net/http"

	"prescription-reader/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Liveness endpoint for the service itself (not the extraction backend)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"prescription-reader"}`))
	}).Methods("GET")

	// Initialize handlers
	prescriptionHandler := NewPrescriptionHandler(
		container.GetExtractionService(),
		container.GetAnalysisService(),
		container.GetConfig().GetMaxFileSize(),
		container.GetLogger(),
	)

	api.Use(LoggingMiddleware(container.GetLogger()))

	// Prescription routes
	api.HandleFunc("/prescriptions/upload", prescriptionHandler.UploadPrescription).Methods("POST")
	api.HandleFunc("/prescriptions/analyze", prescriptionHandler.AnalyzePrescription).Methods("POST")

	// Extraction backend status
	api.HandleFunc("/backend/health", prescriptionHandler.BackendHealth).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		MaxAge: 300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
