package problemgen

import "github.com/abhisek/mathsheet/internal/worksheet"

// GenerateInput holds all context needed to generate one worksheet.
type GenerateInput struct {
	// Settings carries per-category counts, topic focus and grade.
	Settings worksheet.Settings

	// Avoid lists question texts generated earlier, oldest first. Only the
	// newest Config.AvoidLimit entries reach the prompt.
	Avoid []string

	// SetIndex is the zero-based position of this worksheet in its batch.
	SetIndex int

	// Lenient drops questions that fail validation instead of rejecting
	// the worksheet. Generation still fails when no question survives or
	// when a failure concerns the worksheet as a whole.
	Lenient bool
}
