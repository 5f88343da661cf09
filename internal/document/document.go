package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// DefaultMediaType is assumed when no media type is declared and the
	// extension gives no better hint.
	DefaultMediaType = "application/pdf"

	// Anything smaller cannot be a real CV document.
	minFileSize = 200
)

var mediaTypesByExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Document holds the candidate file bytes together with the media type the
// model request will declare for them.
type Document struct {
	Path      string
	Name      string
	MediaType string
	Data      []byte
}

// Load reads the document at path. An empty mediaType is resolved from the
// file extension, falling back to DefaultMediaType. Missing, undersized or
// unreadable PDF files are rejected before any model call is made.
func Load(path, mediaType string) (*Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("document path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("document %q is not accessible: %w", path, err)
	}

	if info.Size() < minFileSize {
		return nil, fmt.Errorf("document %q is missing or corrupt (%d bytes)", path, info.Size())
	}

	if isPDF(path) {
		if err := validatePDF(path, info.Size()); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	if mediaType = strings.TrimSpace(mediaType); mediaType == "" {
		mediaType = DetectMediaType(path)
	}

	return &Document{
		Path:      path,
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}, nil
}

// DetectMediaType resolves a media type from the file extension.
func DetectMediaType(path string) string {
	if mediaType, ok := mediaTypesByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return mediaType
	}
	return DefaultMediaType
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// validatePDF confirms the file parses as a PDF with at least one page, so
// an obviously broken upload fails fast instead of wasting a model call.
func validatePDF(path string, size int64) error {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("document %q is not a readable PDF: %w", path, err)
	}
	defer file.Close()

	if reader.NumPage() < 1 {
		return fmt.Errorf("document %q has no pages (%d bytes)", path, size)
	}

	return nil
}
