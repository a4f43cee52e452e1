package docparse

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for document types no extractor handles.
var ErrUnsupportedFormat = errors.New("docparse: unsupported document format")

// ErrEmptyDocument is returned when extraction yields no usable text.
var ErrEmptyDocument = errors.New("docparse: document contains no extractable text")

// Result carries the extracted plain text of an uploaded document.
type Result struct {
	Text     string
	Format   string
	Filename string
}

// Extract pulls plain text out of an uploaded resume or cover letter. The
// format is decided by file extension: pdf and txt are supported, everything
// else (docx included) reports ErrUnsupportedFormat so the caller can tell
// the user instead of storing garbage.
func Extract(filename string, content []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		text, err := extractPDF(content)
		if err != nil {
			return nil, err
		}
		return newResult(text, "pdf", filename)
	case ".txt":
		if !utf8.Valid(content) {
			return nil, fmt.Errorf("docparse: text file is not valid UTF-8")
		}
		return newResult(string(content), "txt", filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("docparse: open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("docparse: extract pdf text: %w", err)
	}

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("docparse: read pdf text: %w", err)
	}
	return buf.String(), nil
}

func newResult(text, format, filename string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}
	return &Result{
		Text:     text,
		Format:   format,
		Filename: filepath.Base(filename),
	}, nil
}
