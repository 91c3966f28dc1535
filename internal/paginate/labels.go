package paginate

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

// Labels holds the localized strings placed into blocks.
type Labels struct {
	Locale string
	// SheetTitle is the header title shared by every worksheet.
	SheetTitle string
	// SetFormat is appended to SheetTitle when several worksheets are laid
	// out; it receives the 1-based worksheet number.
	SetFormat string
	Fields    []string
	// FooterFormat receives the 1-based page number within a worksheet.
	FooterFormat string
	// CountFormat is the default instruction; it receives the item count.
	CountFormat  string
	Sections     map[worksheet.Category]string
	Instructions map[worksheet.Category]string
}

var chineseGrades = []string{"一", "二", "三", "四", "五", "六"}

// ChineseLabels returns the default simplified Chinese labels.
func ChineseLabels(grade int) Labels {
	g := fmt.Sprint(grade)
	if grade >= 1 && grade <= len(chineseGrades) {
		g = chineseGrades[grade-1]
	}
	return Labels{
		Locale:       "zh",
		SheetTitle:   "小学" + g + "年级数学练习题",
		SetFormat:    " (第 %d 套)",
		Fields:       []string{"班级", "姓名", "用时", "得分"},
		FooterFormat: "第 %d 页",
		CountFormat:  "(共%d题)",
		Sections: map[worksheet.Category]string{
			worksheet.FillInBlank: "填空题",
			worksheet.Compare:     "比大小",
			worksheet.Mental:      "口算题",
			worksheet.Vertical:    "竖式计算",
			worksheet.Mixed:       "脱式计算",
			worksheet.Word:        "应用题",
		},
		Instructions: map[worksheet.Category]string{
			worksheet.Compare: "(在括号里填上“>”、“<”或“=”)",
		},
	}
}

// EnglishLabels returns English labels.
func EnglishLabels(grade int) Labels {
	title := cases.Title(language.English)
	return Labels{
		Locale:       "en",
		SheetTitle:   title.String(fmt.Sprintf("grade %d math practice", grade)),
		SetFormat:    " (Set %d)",
		Fields:       []string{"Class", "Name", "Time", "Score"},
		FooterFormat: "Page %d",
		CountFormat:  "(%d questions)",
		Sections: map[worksheet.Category]string{
			worksheet.FillInBlank: title.String("fill in the blanks"),
			worksheet.Compare:     title.String("compare"),
			worksheet.Mental:      title.String("mental arithmetic"),
			worksheet.Vertical:    title.String("vertical calculation"),
			worksheet.Mixed:       title.String("step-by-step calculation"),
			worksheet.Word:        title.String("word problems"),
		},
		Instructions: map[worksheet.Category]string{
			worksheet.Compare: `(Fill in ">", "<" or "=")`,
		},
	}
}

// LabelsFor picks labels by locale, falling back to Chinese.
func LabelsFor(locale string, grade int) Labels {
	tag, err := language.Parse(locale)
	if err == nil {
		base, _ := tag.Base()
		if base.String() == "en" {
			return EnglishLabels(grade)
		}
	}
	return ChineseLabels(grade)
}

func (l Labels) section(c worksheet.Category) string {
	if s, ok := l.Sections[c]; ok {
		return s
	}
	return c.Key()
}

func (l Labels) instruction(c worksheet.Category, count int) string {
	if s, ok := l.Instructions[c]; ok && s != "" {
		return s
	}
	return fmt.Sprintf(l.CountFormat, count)
}

func (l Labels) headerTitle(setNumber int) string {
	if setNumber == 0 {
		return l.SheetTitle
	}
	return l.SheetTitle + fmt.Sprintf(l.SetFormat, setNumber)
}

// ItemPrefix is the printed marker before a question: "3." for ordinal
// categories, a bullet for bulleted ones, nothing otherwise.
func ItemPrefix(c worksheet.Category, number int) string {
	switch c.Numbering() {
	case worksheet.NumberOrdinal:
		return fmt.Sprintf("%d.", number)
	case worksheet.NumberBullet:
		return "•"
	}
	return ""
}

// FieldBlank renders one header field with its fill-in line.
func FieldBlank(field string) string {
	return field + ": __________"
}
