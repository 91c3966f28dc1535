package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/mathsheet/internal/worksheet"
)

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "zh", LabelsFor("zh-CN", 3).Locale)
	assert.Equal(t, "en", LabelsFor("en-GB", 3).Locale)
	assert.Equal(t, "zh", LabelsFor("not a tag", 3).Locale)

	assert.Equal(t, "小学四年级数学练习题", ChineseLabels(4).SheetTitle)
	assert.Equal(t, "Grade 2 Math Practice", EnglishLabels(2).SheetTitle)
}

func TestHeaderTitle(t *testing.T) {
	l := ChineseLabels(3)
	assert.Equal(t, "小学三年级数学练习题", l.headerTitle(0))
	assert.Equal(t, "小学三年级数学练习题 (第 2 套)", l.headerTitle(2))
}

func TestInstruction(t *testing.T) {
	l := ChineseLabels(3)
	assert.Equal(t, "(共25题)", l.instruction(worksheet.Mental, 25))
	assert.Equal(t, "(在括号里填上“>”、“<”或“=”)", l.instruction(worksheet.Compare, 6))
}

func TestItemPrefix(t *testing.T) {
	assert.Equal(t, "3.", ItemPrefix(worksheet.Word, 3))
	assert.Equal(t, "1.", ItemPrefix(worksheet.FillInBlank, 1))
	assert.Equal(t, "•", ItemPrefix(worksheet.Mixed, 4))
	assert.Equal(t, "", ItemPrefix(worksheet.Mental, 2))
	assert.Equal(t, "姓名: __________", FieldBlank("姓名"))
}
