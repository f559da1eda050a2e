package qgen

import "github.com/abhisek/qgen/internal/llm"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every cleaned
	// sequence. The first failure drops the sequence.
	Validators []Validator

	// Sampling is sent verbatim to the backend.
	Sampling llm.Sampling

	// MaxLength is used when Input.MaxLength is 0.
	MaxLength int
}

// DefaultSampling returns the decoding parameters the question model was
// tuned for. Changing any of them changes the output distribution.
func DefaultSampling() llm.Sampling {
	return llm.Sampling{
		DoSample:          true,
		TopK:              120,
		TopP:              0.92,
		Temperature:       1.2,
		RepetitionPenalty: 2.0,
	}
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
		},
		Sampling:  DefaultSampling(),
		MaxLength: DefaultMaxLength,
	}
}
