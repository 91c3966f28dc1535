package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsheet/internal/render/pdf"
	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	t.Setenv("MATHSHEET_CACHE_URL", "")
	t.Setenv("MATHSHEET_SETTINGS", "")
	return filepath.Join(t.TempDir(), "mathsheet.db")
}

func seedBatch(t *testing.T, dbPath string) string {
	t.Helper()
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	at := time.UnixMilli(1_700_000_000_000)
	ws := worksheet.New(0, at)
	ws.Questions[worksheet.Mental] = []worksheet.Question{
		{ID: worksheet.QuestionID(worksheet.Mental, 0, at, 0), Category: worksheet.Mental, Text: "12 + 7 ="},
	}
	b := &store.Batch{ID: "batch-1", CreatedAt: at, Settings: worksheet.DefaultSettings(), Worksheets: []worksheet.Worksheet{ws}}
	require.NoError(t, s.WorksheetRepo().SaveBatch(context.Background(), b))
	require.NoError(t, s.HistoryRepo().Append(context.Background(), []string{"12 + 7 ="}))
	return b.ID
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mathsheet")
}

func TestSettings_FlagsOverridePreset(t *testing.T) {
	tempDB(t)
	out, err := run(t, "settings", "--mental", "10", "--fill-in-blank", "4", "--sets", "2", "--topic", "乘法")
	require.NoError(t, err)

	s, err := worksheet.ParseSettings([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 10, s.Counts.Mental)
	assert.Equal(t, 4, s.Counts.FillInBlank)
	assert.Equal(t, 2, s.BatchSize)
	assert.Equal(t, "乘法", s.Topic)
}

func TestBatchesAndHistory(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, "--db", db, "batches")
	require.NoError(t, err)
	assert.Contains(t, out, "No batches found.")

	id := seedBatch(t, db)

	out, err = run(t, "--db", db, "batches")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = run(t, "--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "1 questions in history")
	assert.Contains(t, out, "12 + 7 =")

	out, err = run(t, "--db", db, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")
}

func TestExport(t *testing.T) {
	db := tempDB(t)

	_, err := run(t, "--db", db, "export", "--json", "-")
	require.Error(t, err)

	seedBatch(t, db)
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "sheets.xlsx")
	htmlPath := filepath.Join(dir, "sheets.html")

	_, err = run(t, "--db", db, "export", "batch-1", "--xlsx", xlsxPath, "--html", htmlPath)
	require.NoError(t, err)
	assert.FileExists(t, xlsxPath)
	assert.FileExists(t, htmlPath)
}

func TestLLMList_Empty(t *testing.T) {
	db := tempDB(t)
	out, err := run(t, "--db", db, "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}

func TestGenerate_PDFWithoutFontFailsEarly(t *testing.T) {
	db := tempDB(t)
	t.Setenv("MATHSHEET_PDF_FONT", "")
	t.Setenv("MATHSHEET_LOCALE", "zh")
	out := filepath.Join(t.TempDir(), "sheets.pdf")

	_, err := run(t, "--db", db, "generate", "--pdf", out)
	require.ErrorIs(t, err, pdf.ErrFontRequired)
	assert.NoFileExists(t, out)
}
