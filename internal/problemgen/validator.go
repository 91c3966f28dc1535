package problemgen

import (
	"fmt"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Validator checks a generated worksheet.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural", "math-check".
	Name() string

	// Validate returns nil if the worksheet passes.
	Validate(ws *worksheet.Worksheet, input GenerateInput) *ValidationError
}

// ValidationError describes why a worksheet failed validation.
type ValidationError struct {
	Validator  string
	QuestionID string
	Message    string
	Retryable  bool // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("validator %q: %s: %s", e.Validator, e.QuestionID, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
