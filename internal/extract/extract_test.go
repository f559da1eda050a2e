package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want Format
	}{
		{"text/plain", FormatPlainText},
		{"text/plain; charset=utf-8", FormatPlainText},
		{"TEXT/PLAIN", FormatPlainText},
		{"application/pdf", FormatPDF},
		{MIMEDOCX, FormatDOCX},
		{"application/msword", FormatUnknown},
		// Suffix look-alikes are not documents.
		{"application/x-document", FormatUnknown},
		{"application/vnd.oasis.opendocument.text-document", FormatUnknown},
		{"image/png", FormatUnknown},
		{"", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromMIME(tt.mime))
		})
	}
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, FormatPlainText, FormatFromExt(".txt"))
	assert.Equal(t, FormatPDF, FormatFromExt("PDF"))
	assert.Equal(t, FormatDOCX, FormatFromExt(".docx"))
	assert.Equal(t, FormatUnknown, FormatFromExt(".doc"))
}

func TestFormatStringAndMIME(t *testing.T) {
	assert.Equal(t, "pdf", FormatPDF.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
	assert.Equal(t, MIMEDOCX, FormatDOCX.MIME())
	assert.Empty(t, FormatUnknown.MIME())
}

func TestExtractPlainText(t *testing.T) {
	for _, in := range []string{"Hello world", "", "  spaced\n\ttext  ", "héllo wörld ✨"} {
		res, err := Extract([]byte(in), FormatPlainText)
		require.NoError(t, err)
		assert.Equal(t, in, res.Text)
		assert.Equal(t, FormatPlainText, res.Format)
	}
}

func TestExtractPlainText_InvalidUTF8(t *testing.T) {
	res, err := Extract([]byte{0xff, 0xfe, 'h', 'i'}, FormatPlainText)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestExtractUnsupported(t *testing.T) {
	res, err := Extract([]byte("anything"), FormatUnknown)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "", joinPages(nil))
	assert.Equal(t, "one\ntwo\n", joinPages([]string{"one", "two"}))
	assert.Equal(t, "one\nthree\n", joinPages([]string{"one", "", "three"}))
}

// buildPDF writes a minimal PDF with one page per entry. An empty entry
// produces a page without a text layer.
func buildPDF(pages []string) []byte {
	var objs []string
	n := len(pages)
	fontID := 3 + 2*n

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	)
	for i, text := range pages {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>", 4+2*i, fontID),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestExtractPDF_PagesInOrder(t *testing.T) {
	data := buildPDF([]string{"First page text", "", "Third page text"})

	res, err := Extract(data, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PageCount)
	assert.Equal(t, FormatPDF, res.Format)

	assert.Equal(t, "First page text\nThird page text\n", res.Text)
}

func TestExtractPDF_Malformed(t *testing.T) {
	res, err := Extract([]byte("%PDF-1.4 this is not really a pdf"), FormatPDF)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrMalformed)
}

// buildDOCX writes a minimal DOCX zip with the given document body XML.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))

	w, err = zw.Create(docxBodyPart)
	require.NoError(t, err)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body +
		`</w:body></w:document>`))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX_ParagraphsJoined(t *testing.T) {
	body := `<w:p><w:r><w:t>Paris is the capital</w:t></w:r><w:r><w:t xml:space="preserve"> of France.</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Line</w:t><w:br/><w:t>break</w:t></w:r></w:p>`

	res, err := Extract(buildDOCX(t, body), FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.\nA\tB\n\nLine\nbreak", res.Text)
	assert.Equal(t, 4, res.PageCount)
	assert.Equal(t, FormatDOCX, res.Format)
}

func TestExtractDOCX_SkipsTableParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Before</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>After</w:t></w:r></w:p>`

	res, err := Extract(buildDOCX(t, body), FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Before\nAfter", res.Text)
}

func TestExtractDOCX_OnlyParagraphOwnRuns(t *testing.T) {
	textBox := func(text string) string {
		return `<w:txbxContent><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:txbxContent>`
	}
	body := `<w:p><w:r><w:t>Intro</w:t></w:r>` +
		`<w:r><mc:AlternateContent xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006">` +
		`<mc:Choice Requires="wps"><w:drawing><wps:wsp xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape"><wps:txbx>` +
		textBox("Box") +
		`</wps:txbx></wps:wsp></w:drawing></mc:Choice>` +
		`<mc:Fallback><w:pict><v:shape xmlns:v="urn:schemas-microsoft-com:vml"><v:textbox>` +
		textBox("Box") +
		`</v:textbox></v:shape></w:pict></mc:Fallback>` +
		`</mc:AlternateContent></w:r></w:p>` +
		`<w:p><w:hyperlink><w:r><w:t>Link</w:t></w:r></w:hyperlink><w:r><w:t xml:space="preserve"> text</w:t></w:r></w:p>` +
		`<w:p xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math">` +
		`<w:r><w:t>x = </w:t></w:r><m:oMath><m:r><m:t>y</m:t></m:r></m:oMath></w:p>`

	res, err := Extract(buildDOCX(t, body), FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Intro\nLink text\nx = ", res.Text)
	assert.Equal(t, 3, res.PageCount)
}

func TestExtractDOCX_Malformed(t *testing.T) {
	_, err := Extract([]byte("not a zip"), FormatDOCX)
	assert.ErrorIs(t, err, ErrMalformed)

	// A zip without the document part.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.xml")
	require.NoError(t, zw.Close())
	_, err = Extract(buf.Bytes(), FormatDOCX)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtractFile(t *testing.T) {
	e := New(0)

	res, err := e.ExtractFile(context.Background(), strings.NewReader("Hello world"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", res.Text)
}

func TestExtractFile_UnsupportedDoesNotRead(t *testing.T) {
	r := &countingReader{r: strings.NewReader("data")}
	_, err := New(0).ExtractFile(context.Background(), r, "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, r.n)
}

func TestExtractFile_TooLarge(t *testing.T) {
	_, err := New(4).ExtractFile(context.Background(), strings.NewReader("Hello world"), "text/plain")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestExtractFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(0).ExtractFile(ctx, strings.NewReader("Hello"), "text/plain")
	assert.True(t, errors.Is(err, context.Canceled))
}

type countingReader struct {
	r *strings.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
