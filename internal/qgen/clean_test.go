package qgen

import (
	"strings"
	"testing"
)

func TestCleanSequence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What is the capital of France?", "What is the capital of France?"},
		{"<pad> What is the capital of France?</s>", "What is the capital of France?"},
		{"<s>Who <hl> wrote it?</s><pad><pad>", "Who wrote it?"},
		{"Where is <extra_id_0> the Louvre?", "Where is the Louvre?"},
		{"<unk>", ""},
		{"   ", ""},
		{"  Keep  inner  spacing  ", "Keep  inner  spacing"},
	}
	for _, tt := range tests {
		if got := cleanSequence(tt.in); got != tt.want {
			t.Errorf("cleanSequence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedup(t *testing.T) {
	in := []string{"a?", "b?", "a?", "A?", "b?", "c?", "a? "}
	got, removed := dedup(in)

	want := []string{"a?", "b?", "A?", "c?", "a? "}
	if len(got) != len(want) {
		t.Fatalf("dedup() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedup()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	long := make([]byte, maxQuestionChars+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		q    string
		ok   bool
	}{
		{"valid", "What is the capital of France?", true},
		{"empty", "", false},
		{"too long", string(long), false},
		{"multibyte at limit", strings.Repeat("é", maxQuestionChars), true},
		{"control token", "What <hl> is it?", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.q, Input{})
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if err.Validator != "structural" {
					t.Fatalf("unexpected validator %q", err.Validator)
				}
			}
		})
	}
}
