//go:build cucumber

package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/cucumber/godog"

	"github.com/abhisek/qgen/internal/extract"
	"github.com/abhisek/qgen/internal/llm"
	"github.com/abhisek/qgen/internal/qgen"
)

// TestQuestionGeneratorScenarios runs the web UI feature scenarios.
func TestQuestionGeneratorScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "question-generator.feature")
	suite := godog.TestSuite{
		Name:                "question-generator",
		ScenarioInitializer: InitializeUIScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeUIScenario wires steps for the web UI scenarios.
func InitializeUIScenario(ctx *godog.ScenarioContext) {
	state := &uiScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^the question model returns:$`, state.givenModelReturns)
	ctx.Step(`^the question model is unavailable$`, state.givenModelUnavailable)
	ctx.Step(`^I upload "([^"]+)" as "([^"]+)" containing "([^"]*)"$`, state.whenIUpload)
	ctx.Step(`^I submit context "([^"]*)" with answer "([^"]*)" and count (\d+)$`, state.whenISubmit)
	ctx.Step(`^the response status is (\d+)$`, state.thenResponseStatus)
	ctx.Step(`^the page shows the notice "([^"]+)"$`, state.thenNotice)
	ctx.Step(`^the page contains "([^"]+)"$`, state.thenPageContains)
	ctx.Step(`^question (\d+) is "([^"]+)"$`, state.thenQuestionIs)
	ctx.Step(`^there is no question (\d+)$`, state.thenNoQuestion)
	ctx.Step(`^the question model was called (\d+) times?$`, state.thenModelCalled)
}

// uiScenarioState holds scenario state for the web UI feature tests.
type uiScenarioState struct {
	mock     *llm.MockProvider
	handler  http.Handler
	response *httptest.ResponseRecorder
}

// reset clears scenario state.
func (s *uiScenarioState) reset() {
	s.mock = llm.NewMockProvider()
	s.handler = nil
	s.response = nil
}

// givenModelReturns queues one response with a sequence per table row.
func (s *uiScenarioState) givenModelReturns(table *godog.Table) error {
	var seqs []string
	for _, row := range table.Rows {
		if len(row.Cells) != 1 {
			return fmt.Errorf("expected one cell per row, got %d", len(row.Cells))
		}
		seqs = append(seqs, row.Cells[0].Value)
	}
	s.mock.AddResponse(llm.MockResponse{Sequences: seqs})
	return nil
}

// givenModelUnavailable queues a backend failure.
func (s *uiScenarioState) givenModelUnavailable() error {
	s.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}})
	return nil
}

// ensureHandler builds the handler around the scenario's mock backend.
func (s *uiScenarioState) ensureHandler() error {
	if s.handler != nil {
		return nil
	}
	mock := s.mock
	loader := qgen.NewLoader(func(context.Context) (qgen.Generator, error) {
		return qgen.New(mock, qgen.DefaultConfig(), nil), nil
	})
	handler, err := NewHandler(loader, extract.New(0), Options{}, nil)
	if err != nil {
		return err
	}
	s.handler = handler
	return nil
}

// whenIUpload posts a single-file multipart upload.
func (s *uiScenarioState) whenIUpload(filename, contentType, content string) error {
	if err := s.ensureHandler(); err != nil {
		return err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte(content)); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req := httptest.NewRequest(http.MethodPost, "http://example.com/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	s.response = httptest.NewRecorder()
	s.handler.ServeHTTP(s.response, req)
	return nil
}

// whenISubmit posts the generate form.
func (s *uiScenarioState) whenISubmit(contextText, answer string, count int) error {
	if err := s.ensureHandler(); err != nil {
		return err
	}
	form := url.Values{
		"context": {contextText},
		"answer":  {answer},
		"count":   {strconv.Itoa(count)},
	}
	req := httptest.NewRequest(http.MethodPost, "http://example.com/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	s.response = httptest.NewRecorder()
	s.handler.ServeHTTP(s.response, req)
	return nil
}

// thenResponseStatus asserts the HTTP response status code.
func (s *uiScenarioState) thenResponseStatus(expected int) error {
	if s.response == nil {
		return fmt.Errorf("response not recorded")
	}
	if s.response.Code != expected {
		return fmt.Errorf("expected status %d, got %d", expected, s.response.Code)
	}
	return nil
}

// thenNotice asserts a notice with the given text is rendered.
func (s *uiScenarioState) thenNotice(text string) error {
	return s.thenPageContains(`">` + templ.EscapeString(text) + `</div>`)
}

// thenPageContains asserts the response body includes the given substring.
func (s *uiScenarioState) thenPageContains(snippet string) error {
	if s.response == nil {
		return fmt.Errorf("response not recorded")
	}
	if !strings.Contains(s.response.Body.String(), snippet) {
		return fmt.Errorf("expected response to contain %q", snippet)
	}
	return nil
}

// thenQuestionIs asserts the numbered question text.
func (s *uiScenarioState) thenQuestionIs(n int, text string) error {
	return s.thenPageContains(fmt.Sprintf("<b>%d. </b>%s</div>", n, templ.EscapeString(text)))
}

// thenNoQuestion asserts the list has fewer than n questions.
func (s *uiScenarioState) thenNoQuestion(n int) error {
	if s.response == nil {
		return fmt.Errorf("response not recorded")
	}
	if strings.Contains(s.response.Body.String(), fmt.Sprintf("<b>%d. </b>", n)) {
		return fmt.Errorf("did not expect question %d", n)
	}
	return nil
}

// thenModelCalled asserts the number of backend calls.
func (s *uiScenarioState) thenModelCalled(n int) error {
	if got := s.mock.CallCount(); got != n {
		return fmt.Errorf("expected %d backend calls, got %d", n, got)
	}
	return nil
}
