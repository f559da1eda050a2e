// Package web serves the question generator's browser UI.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/sync/semaphore"

	"github.com/abhisek/qgen/internal/extract"
	"github.com/abhisek/qgen/internal/qgen"
)

// User-facing messages.
const (
	MsgExtracted       = "File successfully extracted!"
	MsgExtractFailed   = "Failed to extract text."
	MsgMissingInput    = "Please provide both a context and an answer!"
	MsgGenerateFailed  = "Question generation failed. Please try again."
	MsgAnswerNotInText = "The answer does not appear in the context; questions may not target it."
	MsgBusy            = "Another generation is still running. Please try again."
)

// multipartMemoryCap is the part of an upload kept in memory while parsing.
const multipartMemoryCap = 32 << 20

// Options configures the handler.
type Options struct {
	// DefaultCount preselects the question count.
	DefaultCount int
	// MaxLength caps generated tokens per question.
	MaxLength int
	// MaxUploadBytes caps an uploaded document.
	MaxUploadBytes int64
}

// Handler serves the UI. Generation is serialized: one request runs to
// completion before the next starts.
type Handler struct {
	loader    *qgen.Loader
	extractor extract.Extractor
	opts      Options
	logger    *slog.Logger
	sem       *semaphore.Weighted
	mux       *http.ServeMux
}

// NewHandler builds the HTTP handler. loader is consulted lazily, on the
// first generation, so the page is usable before the model is ready.
func NewHandler(loader *qgen.Loader, extractor extract.Extractor, opts Options, logger *slog.Logger) (*Handler, error) {
	if loader == nil {
		return nil, errors.New("web: loader is required")
	}
	if extractor == nil {
		return nil, errors.New("web: extractor is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.DefaultCount == 0 {
		opts.DefaultCount = qgen.DefaultQuestions
	}
	opts.DefaultCount = qgen.ClampCount(opts.DefaultCount)
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = extract.DefaultMaxBytes
	}

	h := &Handler{
		loader:    loader,
		extractor: extractor,
		opts:      opts,
		logger:    logger,
		sem:       semaphore.NewWeighted(1),
		mux:       http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.serveIndex)
	h.mux.HandleFunc("POST /extract", h.serveExtract)
	h.mux.HandleFunc("POST /generate", h.serveGenerate)
	h.mux.HandleFunc("GET /healthz", serveHealth)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, PageData{Count: h.opts.DefaultCount})
}

func (h *Handler) serveExtract(w http.ResponseWriter, r *http.Request) {
	data := PageData{Count: h.opts.DefaultCount}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+multipartMemoryCap)
	if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
		h.logger.WarnContext(r.Context(), "bad upload", "err", err)
		data.Notices = append(data.Notices, Notice{Kind: NoticeError, Text: MsgExtractFailed})
		render(w, r, http.StatusBadRequest, data)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		data.Notices = append(data.Notices, Notice{Kind: NoticeError, Text: MsgExtractFailed})
		render(w, r, http.StatusBadRequest, data)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	res, err := h.extractor.ExtractFile(r.Context(), file, contentType)
	if err != nil || res.Text == "" {
		h.logger.InfoContext(r.Context(), "extraction failed",
			"filename", header.Filename, "content_type", contentType, "err", err)
		data.Notices = append(data.Notices, Notice{Kind: NoticeError, Text: MsgExtractFailed})
		render(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	h.logger.InfoContext(r.Context(), "extracted document",
		"format", res.Format.String(), "pages", res.PageCount, "chars", len(res.Text))
	data.Context = res.Text
	data.Extracted = true
	data.Notices = append(data.Notices, Notice{Kind: NoticeSuccess, Text: MsgExtracted})
	render(w, r, http.StatusOK, data)
}

func (h *Handler) serveGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	data := PageData{
		Context: r.PostForm.Get("context"),
		Answer:  r.PostForm.Get("answer"),
		Count:   parseCount(r.PostForm.Get("count"), h.opts.DefaultCount),
	}

	if strings.TrimSpace(data.Context) == "" || strings.TrimSpace(data.Answer) == "" {
		data.Notices = append(data.Notices, Notice{Kind: NoticeWarning, Text: MsgMissingInput})
		render(w, r, http.StatusUnprocessableEntity, data)
		return
	}
	if !qgen.AnswerInContext(data.Context, data.Answer) {
		data.Notices = append(data.Notices, Notice{Kind: NoticeInfo, Text: MsgAnswerNotInText})
	}

	if err := h.sem.Acquire(r.Context(), 1); err != nil {
		data.Notices = append(data.Notices, Notice{Kind: NoticeError, Text: MsgBusy})
		render(w, r, http.StatusServiceUnavailable, data)
		return
	}
	defer h.sem.Release(1)

	gen, err := h.loader.Get(r.Context())
	if err == nil {
		var set *qgen.QuestionSet
		set, err = gen.Generate(r.Context(), qgen.Input{
			Context:      data.Context,
			Answer:       data.Answer,
			NumQuestions: data.Count,
			MaxLength:    h.opts.MaxLength,
		})
		if err == nil {
			data.Questions = set.Questions
		}
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generation failed", "err", err)
		data.Notices = append(data.Notices, Notice{Kind: NoticeError, Text: MsgGenerateFailed})
		render(w, r, http.StatusBadGateway, data)
		return
	}

	render(w, r, http.StatusOK, data)
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, "ok")
}

// parseCount reads the count field, clamping it to the supported range.
// A missing or non-numeric value selects def.
func parseCount(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return qgen.ClampCount(n)
}

func render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	templ.Handler(Page(data), templ.WithStatus(status)).ServeHTTP(w, r)
}
