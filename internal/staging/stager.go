package staging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prescription-reader/internal/domain"
)

// FileStager materializes document sources as temporary files under a staging
// directory. Each staged copy is independent; callers release it when done.
type FileStager struct {
	dir string
}

// NewFileStager creates a stager writing staged copies under dir.
func NewFileStager(dir string) *FileStager {
	return &FileStager{dir: dir}
}

// Stage copies the source into a fresh staged file. A source that yields zero
// bytes is rejected, since no extraction strategy can work without content.
func (s *FileStager) Stage(source domain.DocumentSource) (*domain.StagedDocument, error) {
	name := strings.TrimSpace(source.Name())
	if name == "" {
		name = fmt.Sprintf("prescription_%d.pdf", time.Now().UnixMilli())
	}
	name = filepath.Base(name)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	in, err := source.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(s.dir, "staged-*-"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	written, err := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to copy document to staged file: %w", err)
	}
	if closeErr != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to finalize staged file: %w", closeErr)
	}
	if written == 0 {
		_ = os.Remove(tmp.Name())
		return nil, domain.ErrEmptyDocument
	}

	return &domain.StagedDocument{
		Name:        name,
		ContentType: ContentTypeFor(name),
		Size:        written,
		Path:        tmp.Name(),
	}, nil
}

// Release removes the staged file. Safe to call more than once.
func (s *FileStager) Release(doc *domain.StagedDocument) {
	if doc == nil || doc.Path == "" {
		return
	}
	_ = os.Remove(doc.Path)
	doc.Path = ""
}

// ContentTypeFor maps a filename extension to the upload content type.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// BytesSource is a DocumentSource over an in-memory payload. Open may be
// called once per extraction stage; every call yields a fresh reader.
type BytesSource struct {
	FileName string
	Data     []byte
}

func (b *BytesSource) Name() string {
	return b.FileName
}

func (b *BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}
