package extract

import "unicode/utf8"

func extractPlainText(data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	return &Result{Text: string(data), Format: FormatPlainText}, nil
}
