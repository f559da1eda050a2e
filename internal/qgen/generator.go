// Package qgen generates candidate questions for an answer span in a
// passage, using a seq2seq question-generation model behind llm.Provider.
package qgen

import "context"

// Generator produces questions whose answer is Input.Answer.
type Generator interface {
	// Generate samples Input.NumQuestions sequences, cleans and validates
	// them, and returns the unique survivors in generation order.
	// Input is checked before any backend call.
	Generate(ctx context.Context, input Input) (*QuestionSet, error)
}
