// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"prescription-reader/internal/domain"
	"prescription-reader/internal/staging"
	apperrors "prescription-reader/pkg/errors"
)

// PrescriptionHandler handles prescription-related HTTP requests
type PrescriptionHandler struct {
	extractionService domain.ExtractionService
	analysisService   domain.AnalysisService
	maxFileSize       int64
	logger            domain.Logger
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(extractionService domain.ExtractionService, analysisService domain.AnalysisService, maxFileSize int64, logger domain.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		extractionService: extractionService,
		analysisService:   analysisService,
		maxFileSize:       maxFileSize,
		logger:            logger,
	}
}

type analyzeRequest struct {
	ExtractedText string `json:"extracted_text"`
}

type backendHealthResponse struct {
	Reachable bool   `json:"reachable"`
	Status    string `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UploadPrescription accepts a multipart upload and runs the extraction
// fallback chain over it. The chain reports failures inside the outcome, so
// the only error statuses here are for bad requests and staging problems.
func (h *PrescriptionHandler) UploadPrescription(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	file, header, err := r.FormFile("files")
	if err != nil {
		writeAppError(w, apperrors.NewValidationError("File is required"))
		return
	}
	defer file.Close()

	// Buffer the upload so each extraction stage can reopen it.
	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", err, "file", header.Filename)
		writeAppError(w, apperrors.NewValidationError("Failed to read uploaded file"))
		return
	}

	// Sanitize filename (strip any path components)
	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "prescription"
	}

	source := &staging.BytesSource{FileName: name, Data: data}
	outcome, err := h.extractionService.Extract(r.Context(), source)
	if err != nil {
		h.logger.Error("Extraction failed before any stage could run", err, "file", name)
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// AnalyzePrescription builds a structured analysis from previously extracted
// text.
func (h *PrescriptionHandler) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, apperrors.NewValidationError("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.ExtractedText) == "" {
		writeAppError(w, apperrors.NewValidationError("Extracted text is required"))
		return
	}

	analysis, err := h.analysisService.Analyze(r.Context(), req.ExtractedText)
	if err != nil {
		h.logger.Error("Analysis failed", err)
		writeAppError(w, apperrors.NewInternalError("Failed to analyze prescription", err))
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// BackendHealth reports whether the extraction backend is reachable.
func (h *PrescriptionHandler) BackendHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.extractionService.CheckBackendHealth(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, backendHealthResponse{
			Reachable: false,
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, backendHealthResponse{
		Reachable: true,
		Status:    status,
	})
}
