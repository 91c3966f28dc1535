package problemgen

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// MathCheckValidator evaluates computable arithmetic questions and rejects
// ones a primary school pupil cannot finish: division by zero, negative
// intermediate results, or inexact division inside a longer expression.
// A lone "a ÷ b" may leave a remainder. Text that is not pure arithmetic
// (blanks, units, story problems) passes silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

var checkedCategories = []worksheet.Category{worksheet.Mental, worksheet.Vertical, worksheet.Mixed}

func (v *MathCheckValidator) Validate(ws *worksheet.Worksheet, _ GenerateInput) *ValidationError {
	for _, c := range checkedCategories {
		for _, q := range ws.List(c) {
			_, err := Evaluate(q.Text)
			if err == nil || errors.Is(err, ErrNotComputable) {
				continue
			}
			return &ValidationError{
				Validator:  v.Name(),
				QuestionID: q.ID,
				Message:    fmt.Sprintf("%q: %v", q.Text, err),
				Retryable:  true,
			}
		}
	}
	return nil
}

// ErrNotComputable reports text that is not a plain arithmetic expression.
var ErrNotComputable = errors.New("not computable")

type token struct {
	op  rune // 0 for numbers
	num *big.Rat
}

// Evaluate computes an arithmetic question such as "48 + 36 ÷ 4 =" with
// the usual precedence. It returns ErrNotComputable for anything that is
// not pure arithmetic.
func Evaluate(text string) (*big.Rat, error) {
	expr, rest, found := strings.Cut(text, "=")
	if found && strings.TrimSpace(rest) != "" {
		return nil, ErrNotComputable
	}
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, ErrNotComputable
	}

	p := &parser{toks: toks, allowRemainder: isSimpleDivision(toks)}
	val, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, ErrNotComputable
	}
	return val, nil
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
		case r >= '0' && r <= '9':
			j := i
			for j < len(rs) && (rs[j] >= '0' && rs[j] <= '9' || rs[j] == '.') {
				j++
			}
			n, ok := new(big.Rat).SetString(string(rs[i:j]))
			if !ok {
				return nil, ErrNotComputable
			}
			toks = append(toks, token{num: n})
			i = j - 1
		case strings.ContainsRune("+-×÷()", r):
			toks = append(toks, token{op: r})
		case r == '*':
			toks = append(toks, token{op: '×'})
		case r == '/':
			toks = append(toks, token{op: '÷'})
		case r == '（':
			toks = append(toks, token{op: '('})
		case r == '）':
			toks = append(toks, token{op: ')'})
		default:
			return nil, ErrNotComputable
		}
	}
	return toks, nil
}

func isSimpleDivision(toks []token) bool {
	return len(toks) == 3 && toks[0].op == 0 && toks[1].op == '÷' && toks[2].op == 0
}

type parser struct {
	toks           []token
	pos            int
	allowRemainder bool
}

func (p *parser) peek() rune {
	if p.pos >= len(p.toks) {
		return -1
	}
	return p.toks[p.pos].op
}

func (p *parser) expr() (*big.Rat, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for op := p.peek(); op == '+' || op == '-'; op = p.peek() {
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			left = new(big.Rat).Add(left, right)
		} else {
			left = new(big.Rat).Sub(left, right)
			if left.Sign() < 0 {
				return nil, errors.New("result is negative")
			}
		}
	}
	return left, nil
}

func (p *parser) term() (*big.Rat, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for op := p.peek(); op == '×' || op == '÷'; op = p.peek() {
		p.pos++
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		if op == '×' {
			left = new(big.Rat).Mul(left, right)
			continue
		}
		if right.Sign() == 0 {
			return nil, errors.New("division by zero")
		}
		q := new(big.Rat).Quo(left, right)
		if !q.IsInt() && !p.allowRemainder && left.IsInt() && right.IsInt() {
			return nil, fmt.Errorf("%s ÷ %s does not divide evenly", left.RatString(), right.RatString())
		}
		left = q
	}
	return left, nil
}

func (p *parser) factor() (*big.Rat, error) {
	if p.pos >= len(p.toks) {
		return nil, ErrNotComputable
	}
	t := p.toks[p.pos]
	switch t.op {
	case 0:
		p.pos++
		return t.num, nil
	case '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, ErrNotComputable
		}
		p.pos++
		return v, nil
	}
	return nil, ErrNotComputable
}
