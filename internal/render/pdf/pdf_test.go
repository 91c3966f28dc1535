package pdf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

func sampleSets() []worksheet.Worksheet {
	ws := worksheet.New(0, time.UnixMilli(1_700_000_000_000))
	add := func(c worksheet.Category, texts ...string) {
		for i, t := range texts {
			ws.Questions[c] = append(ws.Questions[c], worksheet.Question{
				ID: worksheet.QuestionID(c, 0, ws.CreatedAt, i), Category: c, Text: t,
			})
		}
	}
	add(worksheet.Mental, "35 + 47 =", "72 ÷ 8 =", "9 × 6 =", "100 - 45 =", "18 + 27 =")
	add(worksheet.Vertical, "128 × 6", "936 ÷ 4")
	add(worksheet.Mixed, "48 + 36 ÷ 4 =")
	add(worksheet.Word, "A library has 128 books and buys 6 boxes of 24 more. How many books does it have now?")
	return []worksheet.Worksheet{ws}
}

func englishPages() []paginate.Page {
	return paginate.New(paginate.DefaultLayout(), paginate.EnglishLabels(3)).Paginate(sampleSets())
}

func TestRender_CoreFont(t *testing.T) {
	var buf bytes.Buffer
	err := New(Options{Title: "Practice"}).Render(&buf, englishPages())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_ChineseWithoutFont(t *testing.T) {
	pages := paginate.Default().Paginate(sampleSets())
	require.True(t, NeedsUnicodeFont(pages))

	err := New(Options{}).Render(&bytes.Buffer{}, pages)
	assert.True(t, errors.Is(err, ErrFontRequired), "got %v", err)
}

func TestRender_MissingFontFile(t *testing.T) {
	err := New(Options{FontPath: filepath.Join(t.TempDir(), "missing.ttf")}).Render(&bytes.Buffer{}, englishPages())
	assert.Error(t, err)
}

func TestRender_WithUnicodeFont(t *testing.T) {
	font := os.Getenv("MATHSHEET_TEST_PDF_FONT")
	if font == "" {
		t.Skip("MATHSHEET_TEST_PDF_FONT not set")
	}
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	require.NoError(t, New(Options{FontPath: font}).RenderFile(path, paginate.Default().Paginate(sampleSets())))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestNeedsUnicodeFont(t *testing.T) {
	assert.False(t, NeedsUnicodeFont(englishPages()), "bullets and × ÷ are encodable")
	assert.False(t, NeedsUnicodeFont(nil))
}

func TestLabelsNeedUnicodeFont(t *testing.T) {
	assert.True(t, LabelsNeedUnicodeFont(paginate.ChineseLabels(3)))
	assert.False(t, LabelsNeedUnicodeFont(paginate.EnglishLabels(3)))

	assert.True(t, New(Options{}).FontMissing(paginate.ChineseLabels(3)))
	assert.False(t, New(Options{FontPath: "any.ttf"}).FontMissing(paginate.ChineseLabels(3)))
	assert.False(t, New(Options{}).FontMissing(paginate.EnglishLabels(3)))
}

func TestRenderFile_RemovesFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.pdf")
	err := New(Options{}).RenderFile(path, paginate.Default().Paginate(sampleSets()))
	require.ErrorIs(t, err, ErrFontRequired)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "got %v", err)
}
