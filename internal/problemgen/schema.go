package problemgen

import (
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

var categoryDescriptions = map[worksheet.Category]string{
	worksheet.Mental:      "口算题, e.g. \"35 + 47 =\"",
	worksheet.Vertical:    "竖式计算题, e.g. \"128 × 6\"",
	worksheet.Mixed:       "脱式计算题, e.g. \"48 + 36 ÷ 4\"",
	worksheet.FillInBlank: "填空题, e.g. \"1米 = ( )分米\"",
	worksheet.Compare:     "比大小, e.g. \"50 + 20 ( ) 80\"",
	worksheet.Word:        "应用题, a short story problem in Simplified Chinese",
}

// WorksheetSchema is the response shape: one string array per category,
// all required, empty when a category is not requested.
var WorksheetSchema = buildWorksheetSchema()

func buildWorksheetSchema() *llm.Schema {
	props := make(map[string]any)
	var required []any
	for _, c := range worksheet.Categories() {
		props[c.ResponseKey()] = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": categoryDescriptions[c],
		}
		required = append(required, c.ResponseKey())
	}
	return &llm.Schema{
		Name:        "worksheet-questions",
		Description: "One set of primary school math practice questions grouped by category",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}
