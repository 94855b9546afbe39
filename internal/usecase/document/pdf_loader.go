package document

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/docrag/docrag/internal/domain/entity"
)

// ParsedPDF is a parsed document handle exposing zero-based page
// access. Pages without extractable text yield an empty string.
type ParsedPDF struct {
	reader *pdf.Reader
}

// LoadFromBase64 decodes a base64 payload and parses it as a PDF. Bad
// base64 and unparseable PDF bytes both fail with ErrInvalidDocument;
// the caller cannot meaningfully tell them apart.
func LoadFromBase64(content string) (*ParsedPDF, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", entity.ErrInvalidDocument, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf: %v", entity.ErrInvalidDocument, err)
	}
	return &ParsedPDF{reader: reader}, nil
}

func (p *ParsedPDF) PageCount() int {
	return p.reader.NumPage()
}

// PageText extracts plain text from the zero-based page index. Null or
// unreadable pages return an empty string rather than an error so that
// page numbering stays contiguous downstream.
func (p *ParsedPDF) PageText(i int) string {
	page := p.reader.Page(i + 1)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
