package worksheet

import (
	"fmt"
	"time"
)

// Question is a single generated item. Only Text changes after creation.
type Question struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// QuestionID builds the id of the index-th question of a category within
// the worksheet set generated at createdAt.
func QuestionID(c Category, setIndex int, createdAt time.Time, index int) string {
	return fmt.Sprintf("%s-set%d-%d-%d", c.Key(), setIndex, createdAt.UnixMilli(), index)
}

// Worksheet is one printable practice set with up to six category lists.
type Worksheet struct {
	ID        string                  `json:"id"`
	SetIndex  int                     `json:"set_index"`
	CreatedAt time.Time               `json:"created_at"`
	Questions map[Category][]Question `json:"questions"`
}

// WorksheetID builds the id of the worksheet set generated at createdAt.
func WorksheetID(createdAt time.Time, setIndex int) string {
	return fmt.Sprintf("worksheet-%d-%d", createdAt.UnixMilli(), setIndex)
}

// New returns an empty worksheet for the given set.
func New(setIndex int, createdAt time.Time) Worksheet {
	return Worksheet{
		ID:        WorksheetID(createdAt, setIndex),
		SetIndex:  setIndex,
		CreatedAt: createdAt,
		Questions: make(map[Category][]Question),
	}
}

// List returns the questions of one category. The slice is shared.
func (w Worksheet) List(c Category) []Question {
	return w.Questions[c]
}

// Len returns the total number of questions across categories.
func (w Worksheet) Len() int {
	n := 0
	for _, qs := range w.Questions {
		n += len(qs)
	}
	return n
}

// All returns every question in category declaration order.
func (w Worksheet) All() []Question {
	out := make([]Question, 0, w.Len())
	for _, c := range Categories() {
		out = append(out, w.Questions[c]...)
	}
	return out
}

// Texts returns every question text in category declaration order.
func (w Worksheet) Texts() []string {
	out := make([]string, 0, w.Len())
	for _, q := range w.All() {
		out = append(out, q.Text)
	}
	return out
}

// Clone returns a deep copy.
func (w Worksheet) Clone() Worksheet {
	cp := w
	cp.Questions = make(map[Category][]Question, len(w.Questions))
	for c, qs := range w.Questions {
		cp.Questions[c] = append([]Question(nil), qs...)
	}
	return cp
}

// Remove deletes the question with the given id, keeping the order of the
// rest. It reports whether a question matched.
func (w *Worksheet) Remove(id string) bool {
	for c, qs := range w.Questions {
		for j := range qs {
			if qs[j].ID == id {
				w.Questions[c] = append(qs[:j:j], qs[j+1:]...)
				return true
			}
		}
	}
	return false
}

// Find returns the question with the given id and the index of its
// worksheet, or false.
func Find(sets []Worksheet, id string) (Question, int, bool) {
	for i, ws := range sets {
		for _, c := range Categories() {
			for _, q := range ws.Questions[c] {
				if q.ID == id {
					return q, i, true
				}
			}
		}
	}
	return Question{}, -1, false
}

// UpdateQuestion replaces the text of the question with the given id in
// the matching category list. Identity, category and position never
// change, no other question is touched, and applying the same edit twice
// leaves the same state. It reports whether a question matched.
func UpdateQuestion(sets []Worksheet, c Category, id, text string) bool {
	for i := range sets {
		qs := sets[i].Questions[c]
		for j := range qs {
			if qs[j].ID == id {
				qs[j].Text = text
				return true
			}
		}
	}
	return false
}

// TextsOf flattens the question texts of several worksheets.
func TextsOf(sets []Worksheet) []string {
	var out []string
	for _, ws := range sets {
		out = append(out, ws.Texts()...)
	}
	return out
}
