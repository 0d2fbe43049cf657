package domain

import (
	"context"
	"io"
	"time"
)

// DocumentSource resolves a user-selected file into a readable byte stream.
// Open returns a fresh stream on every call; each stage of the extraction
// chain stages its own copy because a stream is single-consumption.
type DocumentSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// DocumentStager materializes a DocumentSource as a named, sized staged file
// and releases it once the caller is done with it.
type DocumentStager interface {
	Stage(source DocumentSource) (*StagedDocument, error)
	Release(doc *StagedDocument)
}

// ExtractionAPI is the wire-level contract with the remote extraction
// service. Upload methods return the decoded response, the HTTP status code,
// and an error for transport failures or non-2xx statuses (with the error
// body folded into the error message for diagnostics).
type ExtractionAPI interface {
	Upload(ctx context.Context, doc *StagedDocument) (*UploadResponse, int, error)
	ExtractText(ctx context.Context, doc *StagedDocument) (*UploadResponse, int, error)
	TestUpload(ctx context.Context, doc *StagedDocument) (*UploadResponse, int, error)
	Ask(ctx context.Context, req *AskRequest) (*AskResponse, int, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

// ExtractionService drives the fallback extraction chain for one upload.
type ExtractionService interface {
	Extract(ctx context.Context, source DocumentSource) (*ExtractionOutcome, error)
	CheckBackendHealth(ctx context.Context) (string, error)
}

// AnalysisService turns extracted text into a structured analysis record.
type AnalysisService interface {
	Analyze(ctx context.Context, extractedText string) (*PrescriptionAnalysis, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetStagingPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetExtractionAPIURL() string
	GetExtractionTimeout() time.Duration
}
