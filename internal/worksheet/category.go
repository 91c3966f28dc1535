// Package worksheet defines the question categories, questions and
// worksheets that flow from generation through pagination to rendering.
package worksheet

import (
	"fmt"
	"strings"
)

// Category is one of the six closed question kinds. Layout parameters are
// attached to each case through exhaustive switches below, so adding a
// category forces every switch to be revisited.
type Category int

const (
	Mental Category = iota
	Vertical
	Mixed
	FillInBlank
	Compare
	Word
)

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Mental, Vertical, Mixed, FillInBlank, Compare, Word}
}

// Numbering describes how items of a category are prefixed when printed.
type Numbering int

const (
	NumberNone Numbering = iota
	NumberOrdinal
	NumberBullet
)

// Key returns the stable identifier used in question ids, JSON payloads
// and storage.
func (c Category) Key() string {
	switch c {
	case Mental:
		return "mental"
	case Vertical:
		return "vertical"
	case Mixed:
		return "mixed"
	case FillInBlank:
		return "fill_in_blank"
	case Compare:
		return "compare"
	case Word:
		return "word"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) String() string { return c.Key() }

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	return c >= Mental && c <= Word
}

// RowHeight is the estimated vertical space, in px, of one row of items.
func (c Category) RowHeight() int {
	switch c {
	case Mental:
		return 32
	case Vertical:
		return 180
	case Mixed:
		return 160
	case FillInBlank:
		return 50
	case Compare:
		return 50
	case Word:
		return 160
	}
	return 0
}

// Columns is the number of items placed side by side in a row.
func (c Category) Columns() int {
	switch c {
	case Mental:
		return 4
	case Vertical:
		return 3
	case Mixed:
		return 2
	case FillInBlank:
		return 2
	case Compare:
		return 3
	case Word:
		return 1
	}
	return 1
}

// Points is the score weight of a single item.
func (c Category) Points() int {
	switch c {
	case Mental, Compare:
		return 1
	case FillInBlank:
		return 2
	case Vertical, Mixed:
		return 3
	case Word:
		return 5
	}
	return 0
}

// Numbering returns the printed prefix style for items.
func (c Category) Numbering() Numbering {
	switch c {
	case FillInBlank, Word:
		return NumberOrdinal
	case Mixed:
		return NumberBullet
	}
	return NumberNone
}

// Multiline reports whether the editor should offer a multi-line field.
func (c Category) Multiline() bool {
	return c == Word
}

// ResponseKey is the JSON array name the generator asks the model for.
func (c Category) ResponseKey() string {
	switch c {
	case Mental:
		return "mentalQuestions"
	case Vertical:
		return "verticalQuestions"
	case Mixed:
		return "mixedQuestions"
	case FillInBlank:
		return "fillInBlankQuestions"
	case Compare:
		return "compareQuestions"
	case Word:
		return "wordQuestions"
	}
	return ""
}

// ParseCategory resolves a category key. Matching is case-insensitive and
// accepts the JSON response key as an alias.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, c.Key()) || strings.EqualFold(s, c.ResponseKey()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown question category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.Key()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
