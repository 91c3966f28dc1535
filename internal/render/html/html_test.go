package html

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

func sheetWithMental(n int) []worksheet.Worksheet {
	ws := worksheet.New(0, time.UnixMilli(1_700_000_000_000))
	for i := range n {
		ws.Questions[worksheet.Mental] = append(ws.Questions[worksheet.Mental], worksheet.Question{
			ID: worksheet.QuestionID(worksheet.Mental, 0, ws.CreatedAt, i), Category: worksheet.Mental, Text: "3 + 4 =",
		})
	}
	ws.Questions[worksheet.Word] = []worksheet.Question{{
		ID: worksheet.QuestionID(worksheet.Word, 0, ws.CreatedAt, 0), Category: worksheet.Word, Text: "<b>小明</b>有 5 个苹果",
	}}
	return []worksheet.Worksheet{ws}
}

func TestViews_ContinuationSection(t *testing.T) {
	// 100 mental questions spill onto a second page without a title.
	pages := paginate.Default().Paginate(sheetWithMental(100))
	require.Len(t, pages, 2)

	views := Views(pages)
	require.NotNil(t, views[0].Header)
	assert.Nil(t, views[1].Header)
	assert.Nil(t, views[1].Sections[0].Title)
	assert.NotEmpty(t, views[1].Sections[0].Rows)
	assert.Equal(t, "第 2 页", views[1].Footer)
}

func TestRender_Editable(t *testing.T) {
	pages := paginate.Default().Paginate(sheetWithMental(5))
	var buf bytes.Buffer
	err := Render(&buf, Document{
		Title:    "练习",
		Pages:    Views(pages),
		Editable: true,
		Form:     NewForm(worksheet.DefaultSettings(), paginate.ChineseLabels(3), 42),
	})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, `data-id="mental-set0-1700000000000-0"`)
	assert.Contains(t, out, `data-category="word"`)
	assert.Contains(t, out, "<textarea")
	assert.Contains(t, out, "&lt;b&gt;小明&lt;/b&gt;", "question text must be escaped")
	assert.Contains(t, out, "已记录 42 道题")
	assert.Contains(t, out, `name="mental" value="25"`)
	assert.Contains(t, out, "/api/questions/")
	assert.Contains(t, out, "班级: __________")
}

func TestRender_ReadOnly(t *testing.T) {
	pages := paginate.Default().Paginate(sheetWithMental(2))
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Document{Title: "练习", Pages: Views(pages)}))
	out := buf.String()

	assert.NotContains(t, out, "<input")
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, 1, strings.Count(out, `<section class="page"`))
}
