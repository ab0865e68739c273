// Package claimtext validates uploaded claim documents and extracts their text.
package claimtext

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"claimequity/internal/domain"
)

const pdfMediaType = "application/pdf"

// Document is an uploaded claim file held only for the duration of a request.
type Document struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Validate checks the extension and the leading magic bytes.
func (d Document) Validate(maxBytes int64) error {
	if len(d.Data) == 0 {
		return domain.ErrMissingFile
	}
	if maxBytes > 0 && int64(len(d.Data)) > maxBytes {
		return domain.ErrFileTooLarge
	}
	if !strings.EqualFold(filepath.Ext(d.Filename), ".pdf") {
		return domain.ErrUnsupportedFileType
	}
	if http.DetectContentType(d.Data) != pdfMediaType {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

// ExtractText returns the plain text of every page. A document with no
// extractable text, or one the PDF reader cannot open, is reported as
// unreadable.
func ExtractText(data []byte) (text string, err error) {
	defer func() {
		// The reader panics on some malformed cross-reference tables.
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}
	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", domain.ErrUnreadableDocument
	}
	return text, nil
}
