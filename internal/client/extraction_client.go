package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"prescription-reader/internal/domain"
	apperrors "prescription-reader/pkg/errors"
)

// ExtractionClient talks to the remote OCR/AI backend. It is a pure
// request/response layer: it reports non-2xx statuses as errors carrying the
// status code and error body, and leaves all fallback decisions to callers.
type ExtractionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     domain.Logger
}

// NewExtractionClient creates a client for the given base URL. The timeout
// applies per request; zero or negative falls back to 30 seconds.
func NewExtractionClient(baseURL string, timeout time.Duration, logger domain.Logger) *ExtractionClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExtractionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Upload sends the staged document to the full-OCR endpoint.
func (c *ExtractionClient) Upload(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	return c.uploadTo(ctx, "/upload", doc)
}

// ExtractText sends the staged document to the text-only endpoint.
func (c *ExtractionClient) ExtractText(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	return c.uploadTo(ctx, "/extract-text", doc)
}

// TestUpload sends the staged document to the diagnostic endpoint, which only
// confirms the backend can receive files.
func (c *ExtractionClient) TestUpload(ctx context.Context, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	return c.uploadTo(ctx, "/test-upload", doc)
}

func (c *ExtractionClient) uploadTo(ctx context.Context, path string, doc *domain.StagedDocument) (*domain.UploadResponse, int, error) {
	file, err := os.Open(doc.Path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open staged document: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, doc.Name))
	header.Set("Content-Type", doc.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, 0, fmt.Errorf("failed to write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finalize form body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.Debug("Uploading document", "path", path, "file", doc.Name, "bytes", doc.Size)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, resp.StatusCode, apperrors.NewNetworkError(
			fmt.Sprintf("%s returned HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw))), nil)
	}

	var out domain.UploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, resp.StatusCode, apperrors.NewProcessingError(fmt.Sprintf("failed to decode %s response", path), err)
	}
	return &out, resp.StatusCode, nil
}

// Ask sends an AI narrative query about previously extracted text.
func (c *ExtractionClient) Ask(ctx context.Context, askReq *domain.AskRequest) (*domain.AskResponse, int, error) {
	bs, err := json.Marshal(askReq)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Asking backend AI", "context_bytes", len(askReq.Context))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to /ask failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, resp.StatusCode, apperrors.NewNetworkError(
			fmt.Sprintf("/ask returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), nil)
	}

	var out domain.AskResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, resp.StatusCode, apperrors.NewProcessingError("failed to decode /ask response", err)
	}
	return &out, resp.StatusCode, nil
}

// Health checks backend reachability.
func (c *ExtractionClient) Health(ctx context.Context) (*domain.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var out domain.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode /health response: %w", err)
	}
	return &out, nil
}
