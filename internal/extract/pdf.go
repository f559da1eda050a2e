package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (res *Result, err error) {
	// The parser panics on some corrupt inputs.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: pdf: %v", ErrMalformed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrMalformed, err)
	}

	n := reader.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: pdf page %d: %v", ErrMalformed, i, err)
		}
		pages = append(pages, text)
	}

	return &Result{Text: joinPages(pages), PageCount: n, Format: FormatPDF}, nil
}

// joinPages concatenates page texts in order, each followed by a newline.
// Pages without text contribute nothing.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}
