package paginate

import (
	"encoding/json"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// BlockKind tags the concrete type of a Block.
type BlockKind string

const (
	KindHeader BlockKind = "header"
	KindTitle  BlockKind = "title"
	KindRow    BlockKind = "row"
	KindFooter BlockKind = "footer"
)

// Block is one placed element on a page. The set of implementations is
// closed: Header, SectionTitle, Row and Footer.
type Block interface {
	Kind() BlockKind
	// Height is the estimated vertical space consumed, in px.
	Height() int
	isBlock()
}

// Header opens the first page of a worksheet.
type Header struct {
	Title string `json:"title"`
	// SetNumber is the 1-based worksheet number, or 0 when only one
	// worksheet is being laid out.
	SetNumber int      `json:"set_number,omitempty"`
	Fields    []string `json:"fields"`
	H         int      `json:"height"`
}

// SectionTitle introduces the items of one category.
type SectionTitle struct {
	Number      int                `json:"number"`
	Category    worksheet.Category `json:"category"`
	Title       string             `json:"title"`
	Instruction string             `json:"instruction"`
	Points      int                `json:"points"`
	Count       int                `json:"count"`
	H           int                `json:"height"`
}

// RowItem is one question placed in a row.
type RowItem struct {
	// Number is the 1-based position of the question within its category.
	Number     int    `json:"number"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
}

// Row is a horizontal group of up to Columns items of one category.
type Row struct {
	Category worksheet.Category `json:"category"`
	Columns  int                `json:"columns"`
	Items    []RowItem          `json:"items"`
	H        int                `json:"height"`
}

// Footer closes every page. Its height is reserved below the content
// area and is not counted against PageHeight.
type Footer struct {
	PageNumber int    `json:"page_number"`
	Label      string `json:"label"`
	H          int    `json:"height"`
}

func (Header) Kind() BlockKind       { return KindHeader }
func (SectionTitle) Kind() BlockKind { return KindTitle }
func (Row) Kind() BlockKind          { return KindRow }
func (Footer) Kind() BlockKind       { return KindFooter }

func (h Header) Height() int       { return h.H }
func (s SectionTitle) Height() int { return s.H }
func (r Row) Height() int          { return r.H }
func (f Footer) Height() int       { return f.H }

func (Header) isBlock()       {}
func (SectionTitle) isBlock() {}
func (Row) isBlock()          {}
func (Footer) isBlock()       {}

// Page is one printable A4 sheet.
type Page struct {
	// SetIndex is the position of the source worksheet in the input.
	SetIndex    int     `json:"set_index"`
	WorksheetID string  `json:"worksheet_id"`
	PageNumber  int     `json:"page_number"`
	Blocks      []Block `json:"-"`
}

// Used returns the content height consumed by the page's blocks,
// excluding the footer reserve.
func (p Page) Used() int {
	n := 0
	for _, b := range p.Blocks {
		if b.Kind() == KindFooter {
			continue
		}
		n += b.Height()
	}
	return n
}

// Rows returns the row blocks of the page in order.
func (p Page) Rows() []Row {
	var out []Row
	for _, b := range p.Blocks {
		if r, ok := b.(Row); ok {
			out = append(out, r)
		}
	}
	return out
}

type taggedBlock struct {
	Kind BlockKind `json:"kind"`
	Data Block     `json:"data"`
}

// MarshalJSON writes blocks as {"kind": ..., "data": ...} pairs.
func (p Page) MarshalJSON() ([]byte, error) {
	type plain Page
	blocks := make([]taggedBlock, len(p.Blocks))
	for i, b := range p.Blocks {
		blocks[i] = taggedBlock{Kind: b.Kind(), Data: b}
	}
	return json.Marshal(struct {
		plain
		Blocks []taggedBlock `json:"blocks"`
	}{plain: plain(p), Blocks: blocks})
}
