package problemgen

import (
	"context"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Generator produces worksheets using an LLM provider.
type Generator interface {
	// Generate produces one worksheet for the given input. All configured
	// validators run before it returns.
	Generate(ctx context.Context, input GenerateInput) (*worksheet.Worksheet, error)
}
