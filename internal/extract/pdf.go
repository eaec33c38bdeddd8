package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfMagic is the signature at the start of every PDF document.
var pdfMagic = []byte("%PDF-")

// isPDF sniffs the document header.
func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// documentText converts a fetched document to plain text. PDF documents
// are parsed page by page; anything else is treated as UTF-8 text.
func documentText(data []byte) (string, error) {
	if !isPDF(data) {
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", ErrEmptyDocument
		}
		return text, nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: unreadable PDF: %v", ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: PDF text extraction: %v", ErrExtraction, err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("%w: reading PDF text: %v", ErrExtraction, err)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
