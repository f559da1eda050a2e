package qgen

import "testing"

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Paris is the capital of France.", "Paris")
	want := "generate question: Paris is the capital of France. <hl> Paris <hl>"
	if got != want {
		t.Fatalf("BuildPrompt() = %q, want %q", got, want)
	}
}

func TestBuildPrompt_KeepsInputVerbatim(t *testing.T) {
	got := BuildPrompt("  line one\nline two  ", " the answer ")
	want := "generate question:   line one\nline two   <hl>  the answer  <hl>"
	if got != want {
		t.Fatalf("BuildPrompt() = %q, want %q", got, want)
	}
}

func TestAnswerInContext(t *testing.T) {
	tests := []struct {
		context, answer string
		want            bool
	}{
		{"Paris is the capital of France.", "Paris", true},
		{"Paris is the capital of France.", "paris", false},
		{"Paris is the capital of France.", "Berlin", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		if got := AnswerInContext(tt.context, tt.answer); got != tt.want {
			t.Errorf("AnswerInContext(%q, %q) = %v, want %v", tt.context, tt.answer, got, tt.want)
		}
	}
}

func TestClampCount(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 5: 5, 10: 10, 11: 10, 99: 10} {
		if got := ClampCount(in); got != want {
			t.Errorf("ClampCount(%d) = %d, want %d", in, got, want)
		}
	}
}
