package qgen

import "errors"

const (
	// MinQuestions and MaxQuestions bound the requested question count.
	MinQuestions = 1
	MaxQuestions = 10

	// DefaultQuestions is the count preselected in the UI.
	DefaultQuestions = 5

	// DefaultMaxLength caps the generated tokens per question.
	DefaultMaxLength = 72
)

var (
	// ErrMissingInput is returned when the context or the answer is empty.
	// No backend call is made.
	ErrMissingInput = errors.New("both a context and an answer are required")

	// ErrInvalidCount is returned for a question count outside
	// [MinQuestions, MaxQuestions].
	ErrInvalidCount = errors.New("question count must be between 1 and 10")

	// ErrNoQuestions is returned when every generated sequence was rejected.
	ErrNoQuestions = errors.New("model returned no usable questions")
)

// Input holds everything needed for one generation.
type Input struct {
	// Context is the source passage.
	Context string

	// Answer is the span the questions should elicit. It is expected, but
	// not required, to occur in Context.
	Answer string

	// NumQuestions is the number of sequences to sample (1-10).
	NumQuestions int

	// MaxLength caps the generated tokens per sequence. 0 selects
	// DefaultMaxLength.
	MaxLength int
}

// QuestionSet is the result of one generation.
type QuestionSet struct {
	// Questions are unique by exact string equality, in generation order.
	// There may be fewer than Requested.
	Questions []string

	// Requested is the number of sequences asked of the model.
	Requested int

	// Rejected counts sequences dropped by validators.
	Rejected int

	// Duplicates counts sequences dropped as repeats.
	Duplicates int

	// Model is the model that produced the set.
	Model string
}

// ClampCount forces n into [MinQuestions, MaxQuestions].
func ClampCount(n int) int {
	return max(MinQuestions, min(n, MaxQuestions))
}
