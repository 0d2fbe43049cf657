package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"prescription-reader/internal/domain"
	apperrors "prescription-reader/pkg/errors"
)

// Mock implementations shared by the service tests.

type nopLogger struct{}

func (nopLogger) Info(msg string, fields ...interface{})             {}
func (nopLogger) Error(msg string, err error, fields ...interface{}) {}
func (nopLogger) Debug(msg string, fields ...interface{})            {}
func (nopLogger) Warn(msg string, fields ...interface{})             {}

type mockAPI struct {
	uploadResp  *domain.UploadResponse
	uploadErr   error
	extractResp *domain.UploadResponse
	extractErr  error
	testResp    *domain.UploadResponse
	testErr     error
	askResp     *domain.AskResponse
	askErr      error
	healthResp  *domain.HealthResponse
	healthErr   error

	uploadCalls  int
	extractCalls int
	testCalls    int
}

func (m *mockAPI) Upload(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	m.uploadCalls++
	if m.uploadErr != nil {
		return nil, 0, m.uploadErr
	}
	return m.uploadResp, 200, nil
}

func (m *mockAPI) ExtractText(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	m.extractCalls++
	if m.extractErr != nil {
		return nil, 0, m.extractErr
	}
	return m.extractResp, 200, nil
}

func (m *mockAPI) TestUpload(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	m.testCalls++
	if m.testErr != nil {
		return nil, 0, m.testErr
	}
	return m.testResp, 200, nil
}

func (m *mockAPI) Ask(ctx context.Context, req *domain.AskRequest) (*domain.AskResponse, int, error) {
	if m.askErr != nil {
		return nil, 0, m.askErr
	}
	return m.askResp, 200, nil
}

func (m *mockAPI) Health(ctx context.Context) (*domain.HealthResponse, error) {
	if m.healthErr != nil {
		return nil, m.healthErr
	}
	return m.healthResp, nil
}

type mockStager struct {
	stageErr error
	staged   int
	released int
}

func (m *mockStager) Stage(source domain.DocumentSource) (*domain.StagedDocument, error) {
	if m.stageErr != nil {
		return nil, m.stageErr
	}
	m.staged++
	return &domain.StagedDocument{
		Name:        source.Name(),
		ContentType: "application/pdf",
		Size:        42,
		Path:        "/tmp/staged-test",
	}, nil
}

func (m *mockStager) Release(doc *domain.StagedDocument) {
	m.released++
}

type stubSource struct{ name string }

func (s stubSource) Name() string { return s.name }

func (s stubSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes")), nil
}

func TestExtract_OCRSuccess(t *testing.T) {
	api := &mockAPI{
		uploadResp: &domain.UploadResponse{
			Documents: []domain.DocumentInfo{{Filename: "rx.pdf", Content: "Dr. Smith\nParacetamol 500mg"}},
			Success:   true,
		},
	}
	stager := &mockStager{}
	svc := NewExtractionService(api, stager, nopLogger{})

	outcome, err := svc.Extract(context.Background(), stubSource{name: "rx.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.StrategyUsed != domain.StrategyOCR {
		t.Fatalf("expected strategy ocr, got %s", outcome.StrategyUsed)
	}
	if outcome.RawText != "Dr. Smith\nParacetamol 500mg" {
		t.Fatalf("unexpected raw text: %q", outcome.RawText)
	}
	if !outcome.Succeeded {
		t.Fatal("expected outcome to be marked succeeded")
	}
	if api.extractCalls != 0 || api.testCalls != 0 {
		t.Fatalf("expected later stages not to run, got extract=%d test=%d", api.extractCalls, api.testCalls)
	}
	if stager.staged != 1 || stager.released != 1 {
		t.Fatalf("expected one staged copy released, got staged=%d released=%d", stager.staged, stager.released)
	}
}

func TestExtract_FallsBackToPlainTextOnHTTPError(t *testing.T) {
	const message = "Patient: Take Paracetamol 500mg twice daily for 5 days"
	api := &mockAPI{
		uploadErr:   errors.New("/upload returned HTTP 500: ocr engine crashed"),
		extractResp: &domain.UploadResponse{Message: message, Success: true},
	}
	stager := &mockStager{}
	svc := NewExtractionService(api, stager, nopLogger{})

	outcome, err := svc.Extract(context.Background(), stubSource{name: "rx.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.StrategyUsed != domain.StrategyPlainText {
		t.Fatalf("expected strategy plain_text, got %s", outcome.StrategyUsed)
	}
	if outcome.RawText != message {
		t.Fatalf("expected raw text to equal the backend message, got %q", outcome.RawText)
	}
	// Each attempted stage stages and releases its own copy.
	if stager.staged != 2 || stager.released != 2 {
		t.Fatalf("expected two staged copies released, got staged=%d released=%d", stager.staged, stager.released)
	}
}

func TestExtract_PlainTextUsesMessageWhenDocumentsPresent(t *testing.T) {
	api := &mockAPI{
		uploadResp: &domain.UploadResponse{Message: "no documents"},
		extractResp: &domain.UploadResponse{
			Documents: []domain.DocumentInfo{{Filename: "rx.pdf"}},
			Message:   "born-digital text content",
		},
	}
	svc := NewExtractionService(api, &mockStager{}, nopLogger{})

	outcome, err := svc.Extract(context.Background(), stubSource{name: "rx.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.StrategyUsed != domain.StrategyPlainText {
		t.Fatalf("expected strategy plain_text, got %s", outcome.StrategyUsed)
	}
	if outcome.RawText != "born-digital text content" {
		t.Fatalf("unexpected raw text: %q", outcome.RawText)
	}
}

func TestExtract_SentinelMessageFallsThroughToDiagnostic(t *testing.T) {
	api := &mockAPI{
		uploadErr:   errors.New("/upload returned HTTP 503: unavailable"),
		extractResp: &domain.UploadResponse{Message: "No text found in PDF - may require OCR"},
		testResp:    &domain.UploadResponse{Message: "File received successfully"},
	}
	svc := NewExtractionService(api, &mockStager{}, nopLogger{})

	outcome, err := svc.Extract(context.Background(), stubSource{name: "scan.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.StrategyUsed != domain.StrategyDiagnostic {
		t.Fatalf("expected strategy diagnostic, got %s", outcome.StrategyUsed)
	}
	if !outcome.Succeeded {
		t.Fatal("expected diagnostic outcome to be marked succeeded")
	}
	// The troubleshooting report carries both prior failure reasons.
	if !strings.Contains(outcome.RawText, "HTTP 503") {
		t.Fatalf("expected report to contain the OCR failure, got: %s", outcome.RawText)
	}
	if !strings.Contains(outcome.RawText, "no text found") {
		t.Fatalf("expected report to contain the text-stage failure, got: %s", outcome.RawText)
	}
	if !strings.Contains(outcome.RawText, "File received successfully") {
		t.Fatalf("expected report to contain the backend message, got: %s", outcome.RawText)
	}
}

func TestExtract_AllStagesFailStillSucceeds(t *testing.T) {
	api := &mockAPI{
		uploadErr:  errors.New("request to /upload failed: connection refused"),
		extractErr: errors.New("request to /extract-text failed: connection refused"),
		testErr:    errors.New("request to /test-upload failed: connection refused"),
	}
	stager := &mockStager{}
	svc := NewExtractionService(api, stager, nopLogger{})

	outcome, err := svc.Extract(context.Background(), stubSource{name: "rx.pdf"})
	if err != nil {
		t.Fatalf("expected no error even when every stage fails, got %v", err)
	}

	if outcome.StrategyUsed != domain.StrategyNone {
		t.Fatalf("expected strategy none, got %s", outcome.StrategyUsed)
	}
	if !outcome.Succeeded {
		t.Fatal("expected exhausted outcome to be marked succeeded")
	}
	for _, fragment := range []string{"/upload", "/extract-text", "/test-upload"} {
		if !strings.Contains(outcome.DiagnosticMessage, fragment) {
			t.Fatalf("expected diagnostic message to mention %s, got: %s", fragment, outcome.DiagnosticMessage)
		}
	}
	if stager.staged != 3 || stager.released != 3 {
		t.Fatalf("expected three staged copies released, got staged=%d released=%d", stager.staged, stager.released)
	}
}

func TestExtract_StagingFailurePropagates(t *testing.T) {
	stager := &mockStager{stageErr: domain.ErrEmptyDocument}
	svc := NewExtractionService(&mockAPI{}, stager, nopLogger{})

	_, err := svc.Extract(context.Background(), stubSource{name: "rx.pdf"})
	if err == nil {
		t.Fatal("expected staging failure to propagate")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeStaging) {
		t.Fatalf("expected staging error type, got %v", err)
	}
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected wrapped ErrEmptyDocument, got %v", err)
	}
}

func TestCheckBackendHealth(t *testing.T) {
	api := &mockAPI{healthResp: &domain.HealthResponse{Status: "healthy"}}
	svc := NewExtractionService(api, &mockStager{}, nopLogger{})

	status, err := svc.CheckBackendHealth(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "healthy" {
		t.Fatalf("expected status healthy, got %s", status)
	}

	api.healthErr = domain.ErrBackendUnavailable
	if _, err := svc.CheckBackendHealth(context.Background()); err == nil {
		t.Fatal("expected error when the backend is unreachable")
	}
}
