package components

import (
	"errors"
	"strings"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
)

func TestRenderQuestions_Plain(t *testing.T) {
	got := RenderQuestions([]string{"What is the capital of France?", "Which city is it?"}, false)
	want := "1. What is the capital of France?\n2. Which city is it?\n"
	if got != want {
		t.Errorf("RenderQuestions = %q, want %q", got, want)
	}
}

func TestRenderQuestions_Empty(t *testing.T) {
	if got := RenderQuestions(nil, true); got != "" {
		t.Errorf("RenderQuestions(nil) = %q, want empty", got)
	}
}

func TestRenderQuestions_Styled(t *testing.T) {
	got := RenderQuestions([]string{"Q one?"}, true)
	if !strings.Contains(got, "Q one?") || !strings.Contains(got, "1. ") {
		t.Errorf("styled output %q lost its content", got)
	}
}

func TestSpinner_QuitsWhenJobDone(t *testing.T) {
	s := NewSpinner("Generating", func() error { return nil })
	if s.Init() == nil {
		t.Fatal("expected init command")
	}

	m, cmd := s.Update(jobDoneMsg{err: nil})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if err := m.(Spinner).Err(); err != nil {
		t.Errorf("Err = %v, want nil", err)
	}
	if v := m.(Spinner).render(); v != "" {
		t.Errorf("view after done = %q, want empty", v)
	}
}

func TestSpinner_ReportsJobError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSpinner("Generating", func() error { return boom })

	m, _ := s.Update(jobDoneMsg{err: boom})
	if !errors.Is(m.(Spinner).Err(), boom) {
		t.Errorf("Err = %v, want %v", m.(Spinner).Err(), boom)
	}
}

func TestSpinner_CtrlCInterrupts(t *testing.T) {
	s := NewSpinner("Generating", func() error { return nil })

	m, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !errors.Is(m.(Spinner).Err(), ErrInterrupted) {
		t.Errorf("Err = %v, want ErrInterrupted", m.(Spinner).Err())
	}
}

func TestSpinner_TickKeepsAnimating(t *testing.T) {
	s := NewSpinner("Generating", func() error { return nil })
	tick, ok := s.spinner.Tick().(spinner.TickMsg)
	if !ok {
		t.Fatal("expected spinner.TickMsg")
	}

	m, cmd := s.Update(tick)
	if cmd == nil {
		t.Error("expected follow-up tick")
	}
	if v := m.(Spinner).render(); !strings.Contains(v, "Generating") {
		t.Errorf("view %q missing label", v)
	}
}

func TestTextInput_BlankEnterIgnored(t *testing.T) {
	ti := NewTextInput("Answer", "", 0)

	m, cmd := ti.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank enter should not quit")
	}
	if m.(TextInput).Submitted() {
		t.Error("blank input should not submit")
	}
}

func TestTextInput_TypeAndSubmit(t *testing.T) {
	var m tea.Model = NewTextInput("Answer", "", 0)
	for _, r := range "Paris" {
		m, _ = m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}

	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	ti := m.(TextInput)
	if !ti.Submitted() {
		t.Error("expected submitted")
	}
	if ti.Value() != "Paris" {
		t.Errorf("Value = %q, want %q", ti.Value(), "Paris")
	}
}

func TestTextInput_EscCancels(t *testing.T) {
	m, cmd := NewTextInput("Answer", "", 0).Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.(TextInput).Submitted() {
		t.Error("esc should not submit")
	}
}
