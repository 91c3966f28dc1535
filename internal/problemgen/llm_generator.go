package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Purpose labels generation requests in the LLM event log.
const Purpose = "worksheet-gen"

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Generate produces one worksheet for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*worksheet.Worksheet, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	settings := input.Settings.Normalize()
	input.Settings = settings
	input.Avoid = recentAvoid(input.Avoid, g.config.AvoidLimit)

	req := llm.Request{
		System: buildSystemPrompt(settings.Grade, input.Avoid),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(settings)},
		},
		Schema:      WorksheetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	ws := buildWorksheet(raw, settings.Counts, input.SetIndex, g.config.Now())

	if err := g.validate(&ws, input); err != nil {
		return nil, err
	}
	return &ws, nil
}

// validate runs the validators until they all pass. In lenient mode each
// failure naming a question removes that question and starts over.
func (g *LLMGenerator) validate(ws *worksheet.Worksheet, input GenerateInput) error {
	for {
		verr := g.firstFailure(ws, input)
		if verr == nil {
			return nil
		}
		if !input.Lenient || verr.QuestionID == "" || !ws.Remove(verr.QuestionID) {
			return verr
		}
		if ws.Len() == 0 {
			return fmt.Errorf("no usable questions left: %w", verr)
		}
	}
}

func (g *LLMGenerator) firstFailure(ws *worksheet.Worksheet, input GenerateInput) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(ws, input); verr != nil {
			return verr
		}
	}
	return nil
}

// buildWorksheet turns the raw category arrays into a worksheet, keeping
// at most the requested count per category.
func buildWorksheet(raw map[string][]string, counts worksheet.Counts, setIndex int, createdAt time.Time) worksheet.Worksheet {
	ws := worksheet.New(setIndex, createdAt)
	for _, c := range worksheet.Categories() {
		texts := raw[c.ResponseKey()]
		if n := counts.For(c); len(texts) > n {
			texts = texts[:n]
		}
		qs := make([]worksheet.Question, 0, len(texts))
		for i, t := range texts {
			qs = append(qs, worksheet.Question{
				ID:       worksheet.QuestionID(c, setIndex, createdAt, i),
				Category: c,
				Text:     CleanQuestion(c, t),
			})
		}
		ws.Questions[c] = qs
	}
	return ws
}

var symbolReplacer = strings.NewReplacer("/", "÷", "*", "×")

// CleanQuestion trims text, swaps ASCII operators for ÷ and ×, and gives
// mental and mixed questions a trailing " =" when they have none.
func CleanQuestion(c worksheet.Category, text string) string {
	text = symbolReplacer.Replace(strings.TrimSpace(text))
	if text == "" {
		return text
	}
	if (c == worksheet.Mental || c == worksheet.Mixed) && !strings.Contains(text, "=") {
		text += " ="
	}
	return text
}
