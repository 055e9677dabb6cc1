// Package resume turns uploaded resume files into plain text for the
// interview core. It supports PDF, Office Open XML word processing (DOCX) and
// plain text; anything else fails with an ExtractionError the caller can show
// to the candidate.
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimeTypeText = "text/plain"
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractionError reports an unsupported or unreadable resume file.
type ExtractionError struct {
	MimeType string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting resume text (%s): %v", e.MimeType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExtractText converts the file contents to plain text based on the declared
// mime type.
func ExtractText(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimeTypeText:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", &ExtractionError{MimeType: mimeType, Err: errors.New("file is empty")}
		}
		return text, nil
	case MimeTypePDF:
		return extractPDF(data)
	case MimeTypeDOCX:
		return extractDOCX(data)
	default:
		return "", &ExtractionError{MimeType: mimeType, Err: errors.New("unsupported file type, please upload a PDF, DOCX or plain text resume")}
	}
}

// MimeTypeForPath maps a file extension to the declared mime type, returning
// an empty string for unrecognized extensions.
func MimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return MimeTypePDF
	case ".docx":
		return MimeTypeDOCX
	case ".txt", ".text", ".md":
		return MimeTypeText
	default:
		return ""
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{MimeType: MimeTypePDF, Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{MimeType: MimeTypePDF, Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &ExtractionError{MimeType: MimeTypePDF, Err: err}
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", &ExtractionError{MimeType: MimeTypePDF, Err: errors.New("no extractable text")}
	}
	return text, nil
}

// extractDOCX reads word/document.xml out of the OOXML container and strips
// the markup, emitting newlines at paragraph and line-break boundaries.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{MimeType: MimeTypeDOCX, Err: err}
	}

	var document *zip.File
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			document = file
			break
		}
	}
	if document == nil {
		return "", &ExtractionError{MimeType: MimeTypeDOCX, Err: errors.New("word/document.xml not found")}
	}

	rc, err := document.Open()
	if err != nil {
		return "", &ExtractionError{MimeType: MimeTypeDOCX, Err: err}
	}
	defer rc.Close()

	var sb strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ExtractionError{MimeType: MimeTypeDOCX, Err: err}
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ExtractionError{MimeType: MimeTypeDOCX, Err: errors.New("no extractable text")}
	}
	return text, nil
}
