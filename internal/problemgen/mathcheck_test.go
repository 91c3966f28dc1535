package problemgen

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"35 + 47 =", "82"},
		{"72 ÷ 8 =", "9"},
		{"48 + 36 ÷ 4", "57"},
		{"(48 + 36) ÷ 4 =", "21"},
		{"（25 + 15）× 3", "120"},
		{"100 - 36 - 28 =", "36"},
		{"17 ÷ 5 =", "17/5"},
		{"2.5 + 1.5 =", "4"},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.text)
		if err != nil {
			t.Errorf("Evaluate(%q) error: %v", tt.text, err)
			continue
		}
		if got.RatString() != tt.want {
			t.Errorf("Evaluate(%q) = %s, want %s", tt.text, got.RatString(), tt.want)
		}
	}
}

func TestEvaluate_NotComputable(t *testing.T) {
	for _, text := range []string{
		"1米 = ( )分米",
		"50 + 20 ( ) 80",
		"小明有 3 个苹果",
		"35 + 47 = 82",
		"",
		"(3 + 4",
	} {
		if _, err := Evaluate(text); !errors.Is(err, ErrNotComputable) {
			t.Errorf("Evaluate(%q) err = %v, want ErrNotComputable", text, err)
		}
	}
}

func TestEvaluate_Invalid(t *testing.T) {
	for _, text := range []string{
		"5 - 9 =",
		"8 ÷ 0 =",
		"17 ÷ 5 + 1 =",
	} {
		_, err := Evaluate(text)
		if err == nil || errors.Is(err, ErrNotComputable) {
			t.Errorf("Evaluate(%q) err = %v, want an arithmetic error", text, err)
		}
	}
}

func sheetWith(c worksheet.Category, texts ...string) *worksheet.Worksheet {
	ws := worksheet.New(0, time.UnixMilli(1))
	for i, t := range texts {
		ws.Questions[c] = append(ws.Questions[c], worksheet.Question{
			ID:       worksheet.QuestionID(c, 0, ws.CreatedAt, i),
			Category: c,
			Text:     t,
		})
	}
	return &ws
}

func TestMathCheckValidator(t *testing.T) {
	v := &MathCheckValidator{}

	if err := v.Validate(sheetWith(worksheet.Mixed, "48 + 36 ÷ 4 =", "(100 - 64) ÷ 6 ="), GenerateInput{}); err != nil {
		t.Fatalf("valid mixed questions failed: %v", err)
	}

	err := v.Validate(sheetWith(worksheet.Mental, "7 + 8 =", "3 - 5 ="), GenerateInput{})
	if err == nil {
		t.Fatal("negative result should fail")
	}
	if err.QuestionID != "mental-set0-1-1" {
		t.Errorf("QuestionID = %q", err.QuestionID)
	}

	// Compare questions are never evaluated.
	if err := v.Validate(sheetWith(worksheet.Compare, "3 - 5 ( ) 1"), GenerateInput{}); err != nil {
		t.Fatalf("compare question should pass: %v", err)
	}
}
