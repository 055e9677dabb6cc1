package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractText([]byte("  Jane Doe\nBackend Engineer\n"), MimeTypeText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nBackend Engineer" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractEmptyPlainText(t *testing.T) {
	_, err := ExtractText([]byte("   \n  "), MimeTypeText)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := ExtractText([]byte("whatever"), "image/png")
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("error should name the problem, got: %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := ExtractText([]byte("this is not a pdf"), MimeTypePDF)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError for corrupt pdf, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	const document = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Postgres</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if _, err := entry.Write([]byte(document)); err != nil {
		t.Fatalf("writing zip entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	text, err := ExtractText(buf.Bytes(), MimeTypeDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Fatalf("expected paragraph text, got: %q", text)
	}
	if !strings.Contains(text, "Go\tPostgres") {
		t.Fatalf("expected tab-separated run text, got: %q", text)
	}
}

func TestExtractDOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	if _, err := writer.Create("word/styles.xml"); err != nil {
		t.Fatalf("creating zip entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	_, err := ExtractText(buf.Bytes(), MimeTypeDOCX)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestMimeTypeForPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"resume.pdf", MimeTypePDF},
		{"Resume.PDF", MimeTypePDF},
		{"resume.docx", MimeTypeDOCX},
		{"resume.txt", MimeTypeText},
		{"resume.md", MimeTypeText},
		{"resume.odt", ""},
		{"resume", ""},
	}

	for _, tc := range cases {
		if got := MimeTypeForPath(tc.path); got != tc.want {
			t.Errorf("MimeTypeForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
