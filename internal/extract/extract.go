// Package extract turns uploaded documents into plain text.
//
// Supported formats form a closed set selected by the declared MIME type;
// anything outside the set is reported as unsupported instead of being
// guessed at.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
)

// Format is a supported document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPlainText
	FormatPDF
	FormatDOCX
)

// MIME types accepted for upload.
const (
	MIMEPlainText = "text/plain"
	MIMEPDF       = "application/pdf"
	MIMEDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DefaultMaxBytes caps the size of an uploaded document.
const DefaultMaxBytes int64 = 200 << 20

var (
	// ErrUnsupportedFormat is returned for any declared type outside the
	// supported set. No extraction is attempted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidEncoding is returned when plain text is not valid UTF-8.
	ErrInvalidEncoding = errors.New("text is not valid UTF-8")

	// ErrMalformed is returned when a PDF or DOCX cannot be parsed.
	ErrMalformed = errors.New("malformed document")

	// ErrTooLarge is returned when a stream exceeds the size cap.
	ErrTooLarge = errors.New("document too large")

	// ErrNoText is returned by callers that require text when a supported
	// document yields none, such as a scanned PDF without a text layer.
	ErrNoText = errors.New("document contains no text")
)

func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// MIME returns the canonical MIME type of f, or "" for FormatUnknown.
func (f Format) MIME() string {
	switch f {
	case FormatPlainText:
		return MIMEPlainText
	case FormatPDF:
		return MIMEPDF
	case FormatDOCX:
		return MIMEDOCX
	default:
		return ""
	}
}

// FormatFromMIME maps a declared content type to a Format. Parameters such
// as "; charset=utf-8" are ignored; the media type itself must match exactly.
func FormatFromMIME(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	switch strings.ToLower(mediaType) {
	case MIMEPlainText:
		return FormatPlainText
	case MIMEPDF:
		return FormatPDF
	case MIMEDOCX:
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// FormatFromExt maps a file extension (with or without the dot) to a Format.
// Used by the CLI where there is no declared content type.
func FormatFromExt(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt":
		return FormatPlainText
	case "pdf":
		return FormatPDF
	case "docx":
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// Result is the text extracted from one document.
type Result struct {
	Text string
	// PageCount is the number of pages for PDFs and paragraphs for DOCX.
	// Zero for plain text.
	PageCount int
	Format    Format
}

// Extract converts data in the given format to text.
func Extract(data []byte, format Format) (*Result, error) {
	switch format {
	case FormatPlainText:
		return extractPlainText(data)
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Extractor reads a document stream and extracts its text.
type Extractor interface {
	ExtractFile(ctx context.Context, r io.Reader, contentType string) (*Result, error)
}

// DocumentExtractor is the default Extractor.
type DocumentExtractor struct {
	maxBytes int64
}

// New returns a DocumentExtractor that refuses streams larger than maxBytes.
// A non-positive maxBytes selects DefaultMaxBytes.
func New(maxBytes int64) *DocumentExtractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &DocumentExtractor{maxBytes: maxBytes}
}

// ExtractFile resolves the format from contentType before reading, so an
// unsupported upload is rejected without consuming the stream.
func (e *DocumentExtractor) ExtractFile(ctx context.Context, r io.Reader, contentType string) (*Result, error) {
	format := FormatFromMIME(contentType)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, e.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Extract(data, format)
}
