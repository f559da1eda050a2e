package qgen

import "unicode/utf8"

// maxQuestionChars bounds a single question, in characters. Sequences are capped in
// tokens by the backend; this catches runaway output from chat backends.
const maxQuestionChars = 500

// StructuralValidator rejects empty or oversized questions and questions
// that still carry control tokens.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q string, _ Input) *ValidationError {
	if q == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question is empty",
		}
	}
	if utf8.RuneCountInString(q) > maxQuestionChars {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question exceeds 500 characters",
		}
	}
	if hasControlToken(q) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "question contains a control token",
		}
	}
	return nil
}
