package document

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}
	return path
}

func padded(prefix string, size int) []byte {
	data := make([]byte, size)
	copy(data, prefix)
	return data
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.pdf"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load("   ", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadRejectsUndersizedFile(t *testing.T) {
	path := writeFile(t, "cv.docx", []byte("tiny"))

	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected error for undersized file")
	}
}

func TestLoadRejectsBrokenPDF(t *testing.T) {
	path := writeFile(t, "cv.pdf", padded("definitely not a pdf", 500))

	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected error for unreadable pdf")
	}
}

func TestLoadInfersMediaTypeFromExtension(t *testing.T) {
	data := padded("PK", 500)
	path := writeFile(t, "cv.docx", data)

	doc, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.MediaType != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Fatalf("unexpected media type: %q", doc.MediaType)
	}

	if doc.Name != "cv.docx" {
		t.Fatalf("unexpected name: %q", doc.Name)
	}

	if !bytes.Equal(doc.Data, data) {
		t.Fatal("expected file bytes to be loaded unchanged")
	}
}

func TestLoadKeepsDeclaredMediaType(t *testing.T) {
	path := writeFile(t, "cv.docx", padded("PK", 500))

	doc, err := Load(path, "application/msword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.MediaType != "application/msword" {
		t.Fatalf("expected declared media type to win, got %q", doc.MediaType)
	}
}

func TestLoadUnknownExtensionDefaults(t *testing.T) {
	// An unknown extension is not validated as a PDF, only declared as one.
	path := writeFile(t, "cv.bin", padded("binary", 500))

	doc, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.MediaType != DefaultMediaType {
		t.Fatalf("expected default media type, got %q", doc.MediaType)
	}
}

func TestDetectMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		expect string
	}{
		{name: "pdf", path: "a/b/cv.pdf", expect: "application/pdf"},
		{name: "uppercase extension", path: "CV.PDF", expect: "application/pdf"},
		{name: "doc", path: "cv.doc", expect: "application/msword"},
		{name: "docx", path: "cv.docx", expect: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "unknown", path: "cv.txt", expect: DefaultMediaType},
		{name: "no extension", path: "cv", expect: DefaultMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectMediaType(tt.path); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
