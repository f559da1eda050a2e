package components

import (
	"context"
	"io"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qgen/internal/ui/theme"
)

// TextInput asks for one line of text. Enter submits a non-blank value;
// esc or ctrl+c cancels.
type TextInput struct {
	Model     textinput.Model
	label     string
	submitted bool
	canceled  bool
}

// NewTextInput creates a focused, styled text input.
func NewTextInput(label, placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()

	return TextInput{Model: ti, label: label}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			if strings.TrimSpace(t.Model.Value()) == "" {
				return t, nil
			}
			t.submitted = true
			return t, tea.Quit
		case "esc", "ctrl+c":
			t.canceled = true
			return t, tea.Quit
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above the input.
func (t TextInput) View() tea.View {
	if t.submitted || t.canceled {
		return tea.NewView("")
	}
	return tea.NewView(theme.Prompt.Render(t.label) + "\n" + t.Model.View() + "\n" +
		theme.Hint.Render("enter to submit, esc to cancel") + "\n")
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Submitted reports whether the user confirmed a value.
func (t TextInput) Submitted() bool {
	return t.submitted
}

// PromptLine runs a TextInput on in/out and returns the submitted value.
func PromptLine(ctx context.Context, in io.Reader, out io.Writer, label, placeholder string) (string, error) {
	final, err := tea.NewProgram(NewTextInput(label, placeholder, 0),
		tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", err
	}
	ti := final.(TextInput)
	if !ti.Submitted() {
		return "", ErrInterrupted
	}
	return ti.Value(), nil
}
