package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/abhisek/qgen/internal/qgen"
)

// NoticeKind selects the styling of a notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-line message shown above the form.
type Notice struct {
	Kind NoticeKind
	Text string
}

// PageData is everything the page renders.
type PageData struct {
	Context   string
	Answer    string
	Count     int
	Extracted bool // Context came from an uploaded file
	Notices   []Notice
	Questions []string
}

const pageCSS = `
body { background: #F0F3F9; font-family: system-ui, sans-serif; margin: 0; }
main { max-width: 900px; margin: auto; padding: 24px; }
.header-box { background: linear-gradient(135deg, #6A82FB, #FC5C7D); padding: 35px; border-radius: 22px; text-align: center; color: white; margin-bottom: 30px; box-shadow: 0 8px 18px rgba(0,0,0,0.12); }
.header-title { font-size: 40px; font-weight: 900; }
.header-sub { font-size: 16px; opacity: 0.95; }
.clean-card { background: white; padding: 22px; border-radius: 18px; box-shadow: 0 4px 14px rgba(0,0,0,0.10); margin-bottom: 20px; }
label { display: block; font-weight: 600; margin: 12px 0 6px; }
textarea, input[type=text], input[type=number] { width: 100%; box-sizing: border-box; background: white; border-radius: 12px; padding: 15px; font-size: 16px; border: 1px solid #DDE3F0; }
button { background: linear-gradient(135deg, #6A82FB, #5A53E0); width: 100%; height: 52px; color: white; border-radius: 12px; font-size: 18px; font-weight: 700; border: none; cursor: pointer; margin-top: 12px; }
button:hover { background: linear-gradient(135deg, #5A53E0, #6A82FB); }
.notice { padding: 12px 16px; border-radius: 12px; margin-bottom: 16px; }
.notice-success { background: #E6F7EC; color: #14532D; }
.notice-info { background: #E8F0FE; color: #1E3A8A; }
.notice-warning { background: #FFF7E0; color: #78350F; }
.notice-error { background: #FDE8EC; color: #881337; }
.result-bubble { background: linear-gradient(135deg, #EEF3FF, #FAFBFF); padding: 15px; border-radius: 18px; margin-bottom: 12px; font-size: 17px; border-left: 6px solid #6A82FB; display: flex; gap: 12px; align-items: flex-start; box-shadow: 0 2px 8px rgba(0,0,0,0.06); }
.bubble-icon { font-size: 20px; margin-top: 3px; }
ol.questions { list-style: none; padding: 0; }
`

// Page renders the full single-page UI.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w,
			`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>AI Question Generator</title><style>`, pageCSS, `</style></head><body><main>`,
			`<div class="header-box"><div class="header-title">✨ AI Question Generator</div>`,
			`<div class="header-sub">Generate intelligent questions instantly from any text or uploaded document.</div></div>`,
		); err != nil {
			return err
		}
		for _, n := range data.Notices {
			if err := noticeView(n).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := uploadForm().Render(ctx, w); err != nil {
			return err
		}
		if err := generateForm(data).Render(ctx, w); err != nil {
			return err
		}
		if len(data.Questions) > 0 {
			if err := questionList(data.Questions).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</main></body></html>`)
	})
}

func noticeView(n Notice) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<div class="notice notice-`, string(n.Kind), `" role="status" data-kind="`, string(n.Kind), `">`,
			templ.EscapeString(n.Text), `</div>`)
	})
}

func uploadForm() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w,
			`<div class="clean-card"><h2>📄 Upload File or Paste Text</h2>`,
			`<form method="post" action="/extract" enctype="multipart/form-data">`,
			`<label for="file">Upload PDF / TXT / DOCX</label>`,
			`<input id="file" type="file" name="file" accept=".pdf,.txt,.docx" required>`,
			`<button type="submit">Extract text</button></form></div>`)
	})
}

func generateForm(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		contextLabel := "Context (paragraph)"
		if data.Extracted {
			contextLabel = "Extracted Text"
		}
		count := data.Count
		if count == 0 {
			count = qgen.DefaultQuestions
		}
		return write(w,
			`<form method="post" action="/generate"><div class="clean-card">`,
			`<label for="context">`, contextLabel, `</label>`,
			`<textarea id="context" name="context" rows="9">`, templ.EscapeString(data.Context), `</textarea>`,
			`<label for="answer">Answer (taken from context)</label>`,
			`<input id="answer" type="text" name="answer" value="`, templ.EscapeString(data.Answer), `">`,
			`</div><div class="clean-card">`,
			`<label for="count">Number of questions</label>`,
			fmt.Sprintf(`<input id="count" type="number" name="count" min="%d" max="%d" value="%d">`,
				qgen.MinQuestions, qgen.MaxQuestions, count),
			`</div><button type="submit">🚀 Generate Questions</button></form>`)
	})
}

func questionList(questions []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<div class="clean-card"><h2>🧠 Generated Questions</h2><ol class="questions">`); err != nil {
			return err
		}
		for i, q := range questions {
			if err := write(w,
				`<li class="result-bubble"><div class="bubble-icon">💬</div><div><b>`,
				strconv.Itoa(i+1), `. </b>`, templ.EscapeString(q), `</div></li>`,
			); err != nil {
				return err
			}
		}
		return write(w, `</ol></div>`)
	})
}

func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
