package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

func extractDOCX(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrMalformed, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: docx: missing %s", ErrMalformed, docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrMalformed, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrMalformed, err)
	}

	return &Result{
		Text:      strings.Join(paragraphs, "\n"),
		PageCount: len(paragraphs),
		Format:    FormatDOCX,
	}, nil
}

// WordprocessingML main namespaces, transitional and strict.
const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	wordStrictNS = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

func isWord(n xml.Name, local string) bool {
	return n.Local == local && (n.Space == wordNS || n.Space == wordStrictNS)
}

// readParagraphs walks WordprocessingML and returns the text of every
// body-level w:p element in document order. Paragraphs nested in tables are
// not part of the body paragraph list. A paragraph's text is the text of
// its own runs: direct w:r children and runs of a direct w:hyperlink.
// Runs nested deeper (text boxes, drawings, math) are skipped. Inside a run
// w:tab becomes a tab and w:br / w:cr a newline.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		stack      []xml.Name
		paraDepth  = -1 // stack depth of the open body paragraph
		runDepth   = -1 // stack depth of the open paragraph-level run
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth := len(stack)
			inRun := runDepth >= 0 && depth == runDepth+1
			switch {
			case isWord(t.Name, "p") && paraDepth < 0 && depth > 0 && isWord(stack[depth-1], "body"):
				current.Reset()
				paraDepth = depth
			case isWord(t.Name, "r") && paraDepth >= 0 && runDepth < 0 && paragraphRun(stack, paraDepth):
				runDepth = depth
			case isWord(t.Name, "t") && inRun:
				inText = true
			case isWord(t.Name, "tab") && inRun:
				current.WriteByte('\t')
			case (isWord(t.Name, "br") || isWord(t.Name, "cr")) && inRun:
				current.WriteByte('\n')
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			depth := len(stack)
			switch {
			case inText && depth == runDepth+1:
				inText = false
			case depth == runDepth:
				runDepth = -1
			case depth == paraDepth:
				paragraphs = append(paragraphs, current.String())
				paraDepth = -1
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// paragraphRun reports whether a run opening at the top of stack belongs to
// the paragraph at paraDepth: either its direct child or a child of a
// hyperlink that is.
func paragraphRun(stack []xml.Name, paraDepth int) bool {
	switch len(stack) {
	case paraDepth + 1:
		return true
	case paraDepth + 2:
		return isWord(stack[paraDepth+1], "hyperlink")
	}
	return false
}
