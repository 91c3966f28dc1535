package problemgen

import (
	"fmt"
	"unicode/utf8"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// MaxQuestionRunes bounds the length of a single question text.
const MaxQuestionRunes = 500

// StructuralValidator checks that every question is non-empty, within the
// length limit, and unique inside its worksheet.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ws *worksheet.Worksheet, _ GenerateInput) *ValidationError {
	seen := make(map[string]bool)
	for _, q := range ws.All() {
		switch {
		case q.Text == "":
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: "question text is empty", Retryable: true}
		case utf8.RuneCountInString(q.Text) > MaxQuestionRunes:
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: fmt.Sprintf("question text exceeds %d characters", MaxQuestionRunes), Retryable: true}
		case seen[q.Text]:
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: fmt.Sprintf("duplicate question %q", q.Text), Retryable: true}
		}
		seen[q.Text] = true
	}
	return nil
}

// HistoryValidator rejects worksheets that repeat a question the model
// was told to avoid.
type HistoryValidator struct{}

func (v *HistoryValidator) Name() string { return "history" }

func (v *HistoryValidator) Validate(ws *worksheet.Worksheet, input GenerateInput) *ValidationError {
	if len(input.Avoid) == 0 {
		return nil
	}
	avoid := history.New(input.Avoid...)
	for _, q := range ws.All() {
		if avoid.Contains(q.Text) {
			return &ValidationError{Validator: v.Name(), QuestionID: q.ID, Message: fmt.Sprintf("repeats earlier question %q", q.Text), Retryable: true}
		}
	}
	return nil
}
