package problemgen

import (
	"time"

	"github.com/abhisek/mathsheet/internal/history"
)

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated worksheet; the first
	// failure stops the chain.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// AvoidLimit caps how many earlier questions are quoted in the prompt.
	AvoidLimit int

	// Now stamps worksheet and question ids. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&HistoryValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.3,
		AvoidLimit:  history.PromptLimit,
		Now:         time.Now,
	}
}
