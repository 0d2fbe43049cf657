package service

import (
	"context"
	"fmt"
	"strings"

	"prescription-reader/internal/domain"
	apperrors "prescription-reader/pkg/errors"
)

// ExtractionService drives the ordered fallback chain: full OCR, then plain
// text extraction, then a diagnostic echo. Uploading is a user-facing action,
// so the chain never fails outward once bytes are staged: when every stage is
// exhausted the caller still receives a successful outcome carrying a
// troubleshooting report instead of extracted text. The single hard failure
// is staging, since no strategy can run without bytes.
type ExtractionService struct {
	api    domain.ExtractionAPI
	stager domain.DocumentStager
	logger domain.Logger
}

func NewExtractionService(api domain.ExtractionAPI, stager domain.DocumentStager, logger domain.Logger) *ExtractionService {
	return &ExtractionService{
		api:    api,
		stager: stager,
		logger: logger,
	}
}

// Extract runs the fallback chain for one upload. Each stage works on a fresh
// staged copy, released before the next stage starts regardless of outcome.
func (s *ExtractionService) Extract(ctx context.Context, source domain.DocumentSource) (*domain.ExtractionOutcome, error) {
	failures := make(map[domain.Stage]string, 3)
	var fileName string
	var fileSize int64

	for stage := domain.StageOCR; stage != domain.StageExhausted; stage = stage.Next() {
		doc, err := s.stager.Stage(source)
		if err != nil {
			return nil, apperrors.NewStagingError("failed to stage document for extraction", err)
		}
		fileName, fileSize = doc.Name, doc.Size

		outcome, reason := s.runStage(ctx, stage, doc, failures)
		s.stager.Release(doc)

		if outcome != nil {
			s.logger.Info("Extraction succeeded", "stage", stage.String(), "file", fileName, "chars", len(outcome.RawText))
			return outcome, nil
		}

		failures[stage] = reason
		s.logger.Warn("Extraction stage failed", "stage", stage.String(), "file", fileName, "reason", reason)
	}

	// Every stage raised. Report the failure as a displayable outcome rather
	// than an error: the caller always gets something actionable to show.
	report := failureReport(fileName, fileSize, failures)
	s.logger.Error("All extraction stages exhausted", nil, "file", fileName)
	return &domain.ExtractionOutcome{
		StrategyUsed:      domain.StrategyNone,
		RawText:           report,
		DiagnosticMessage: report,
		Succeeded:         true,
	}, nil
}

// runStage attempts a single stage. It returns a completed outcome on
// success, or the failure reason recorded for later diagnostics.
func (s *ExtractionService) runStage(ctx context.Context, stage domain.Stage, doc *domain.StagedDocument, failures map[domain.Stage]string) (*domain.ExtractionOutcome, string) {
	switch stage {
	case domain.StageOCR:
		return s.runOCRStage(ctx, doc)
	case domain.StagePlainText:
		return s.runPlainTextStage(ctx, doc)
	default:
		return s.runDiagnosticStage(ctx, doc, failures)
	}
}

func (s *ExtractionService) runOCRStage(ctx context.Context, doc *domain.StagedDocument) (*domain.ExtractionOutcome, string) {
	resp, _, err := s.api.Upload(ctx, doc)
	if err != nil {
		return nil, err.Error()
	}
	if len(resp.Documents) == 0 || resp.Documents[0].Content == "" {
		message := resp.Message
		if message == "" {
			message = "no documents processed"
		}
		return nil, fmt.Sprintf("OCR responded but extracted no text: %s", message)
	}

	content := resp.Documents[0].Content
	summary := fmt.Sprintf("OCR extraction successful: %d characters extracted from %s.", len(content), doc.Name)
	return &domain.ExtractionOutcome{
		StrategyUsed:      domain.StrategyOCR,
		RawText:           content,
		DiagnosticMessage: summary,
		Succeeded:         true,
	}, ""
}

func (s *ExtractionService) runPlainTextStage(ctx context.Context, doc *domain.StagedDocument) (*domain.ExtractionOutcome, string) {
	resp, _, err := s.api.ExtractText(ctx, doc)
	if err != nil {
		return nil, err.Error()
	}

	// This endpoint reports extracted text in the message field rather than
	// in documents[0].content.
	var content string
	if len(resp.Documents) > 0 {
		content = resp.Message
	} else if resp.Message != "" && !strings.Contains(strings.ToLower(resp.Message), "no text found") {
		content = resp.Message
	}
	if content == "" {
		return nil, "no text found in document; a scanned image may require OCR"
	}

	summary := fmt.Sprintf("Text extraction successful: %d characters extracted from %s without OCR.", len(content), doc.Name)
	return &domain.ExtractionOutcome{
		StrategyUsed:      domain.StrategyPlainText,
		RawText:           content,
		DiagnosticMessage: summary,
		Succeeded:         true,
	}, ""
}

// runDiagnosticStage confirms connectivity via the echo endpoint and
// synthesizes a troubleshooting report carrying the prior failure reasons.
// Its "text" is that report, not real extraction.
func (s *ExtractionService) runDiagnosticStage(ctx context.Context, doc *domain.StagedDocument, failures map[domain.Stage]string) (*domain.ExtractionOutcome, string) {
	resp, _, err := s.api.TestUpload(ctx, doc)
	if err != nil {
		return nil, err.Error()
	}

	message := resp.Message
	if message == "" {
		message = "File received successfully"
	}

	report := diagnosticReport(doc, message, failures)
	return &domain.ExtractionOutcome{
		StrategyUsed:      domain.StrategyDiagnostic,
		RawText:           report,
		DiagnosticMessage: report,
		Succeeded:         true,
	}, ""
}

func diagnosticReport(doc *domain.StagedDocument, backendMessage string, failures map[domain.Stage]string) string {
	var b strings.Builder
	b.WriteString("Text extraction unavailable; backend connectivity confirmed via the diagnostic endpoint.\n\n")
	b.WriteString("Processing issues:\n")
	fmt.Fprintf(&b, "- OCR: %s\n", failures[domain.StageOCR])
	fmt.Fprintf(&b, "- Text extraction: %s\n\n", failures[domain.StagePlainText])
	fmt.Fprintf(&b, "File: %s (%d bytes)\n", doc.Name, doc.Size)
	fmt.Fprintf(&b, "Backend message: %s\n\n", backendMessage)
	b.WriteString("Possible solutions:\n")
	b.WriteString("- Try a text-based PDF instead of a scanned image\n")
	b.WriteString("- Check the backend OCR engine installation\n")
	b.WriteString("- Verify the document is not corrupted or password-protected")
	return b.String()
}

func failureReport(fileName string, fileSize int64, failures map[domain.Stage]string) string {
	var b strings.Builder
	b.WriteString("Upload failed: all extraction methods were exhausted.\n\n")
	fmt.Fprintf(&b, "- OCR: %s\n", failures[domain.StageOCR])
	fmt.Fprintf(&b, "- Text extraction: %s\n", failures[domain.StagePlainText])
	fmt.Fprintf(&b, "- Diagnostic: %s\n\n", failures[domain.StageDiagnostic])
	fmt.Fprintf(&b, "File: %s (%d bytes)\n\n", fileName, fileSize)
	b.WriteString("Troubleshooting:\n")
	b.WriteString("- Check the extraction backend is running\n")
	b.WriteString("- Verify file permissions and size\n")
	b.WriteString("- Check network connectivity")
	return b.String()
}

// CheckBackendHealth reports the backend status string, or an error when the
// backend is unreachable. Unlike extraction, this failure is user-visible.
func (s *ExtractionService) CheckBackendHealth(ctx context.Context) (string, error) {
	health, err := s.api.Health(ctx)
	if err != nil {
		s.logger.Warn("Backend health check failed", "error", err)
		return "", fmt.Errorf("backend health check: %w", err)
	}
	return health.Status, nil
}
