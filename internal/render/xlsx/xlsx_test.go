package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

func sets() []worksheet.Worksheet {
	created := time.UnixMilli(1_700_000_000_000)
	var out []worksheet.Worksheet
	for i := range 2 {
		ws := worksheet.New(i, created)
		ws.Questions[worksheet.Mental] = []worksheet.Question{
			{ID: worksheet.QuestionID(worksheet.Mental, i, created, 0), Category: worksheet.Mental, Text: "35 + 47 ="},
			{ID: worksheet.QuestionID(worksheet.Mental, i, created, 1), Category: worksheet.Mental, Text: "72 ÷ 8 ="},
		}
		ws.Questions[worksheet.FillInBlank] = []worksheet.Question{
			{ID: worksheet.QuestionID(worksheet.FillInBlank, i, created, 0), Category: worksheet.FillInBlank, Text: "1米 = ( )分米"},
		}
		out = append(out, ws)
	}
	return out
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sets(), paginate.DefaultLayout(), paginate.ChineseLabels(3)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Set 1", "Set 2"}, f.GetSheetList())

	rows, err := f.GetRows("Set 2")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Question", rows[0][3])

	// Fill-in-the-blank precedes mental arithmetic in the default order.
	assert.Equal(t, "填空题", rows[1][1])
	assert.Equal(t, "1米 = ( )分米", rows[1][3])
	assert.Equal(t, "口算题", rows[2][1])
	assert.Equal(t, "2", rows[3][2])
	assert.Equal(t, "72 ÷ 8 =", rows[3][3])
	assert.Equal(t, "mental-set1-1700000000000-1", rows[3][5])
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, paginate.DefaultLayout(), paginate.ChineseLabels(3)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}
