// Package xlsx exports worksheets to an Excel workbook, one sheet per set.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

var columns = []struct {
	title string
	width float64
}{
	{"#", 6},
	{"Category", 16},
	{"No.", 6},
	{"Question", 60},
	{"Points", 8},
	{"ID", 36},
}

// SheetName names the tab of the set at setIndex.
func SheetName(setIndex int) string {
	return fmt.Sprintf("Set %d", setIndex+1)
}

// Write exports sets in layout order using the section names of labels.
func Write(w io.Writer, sets []worksheet.Worksheet, layout paginate.Layout, labels paginate.Labels) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	for i, ws := range sets {
		name := SheetName(i)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, ws, layout, labels, bold, wrap); err != nil {
			return err
		}
	}

	if len(sets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if idx, err := f.GetSheetIndex(SheetName(0)); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, ws worksheet.Worksheet, layout paginate.Layout, labels paginate.Labels, bold, wrap int) error {
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, col.title); err != nil {
			return err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, colName, colName, col.width); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(name, "A1", "F1", bold); err != nil {
		return err
	}

	row := 2
	for _, c := range layout.Sections() {
		section := labels.Sections[c]
		if section == "" {
			section = c.Key()
		}
		for n, q := range ws.Questions[c] {
			values := []any{row - 1, section, n + 1, q.Text, c.Points(), q.ID}
			start, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(name, start, &values); err != nil {
				return fmt.Errorf("xlsx row %d: %w", row, err)
			}
			row++
		}
	}
	if row > 2 {
		end, _ := excelize.CoordinatesToCellName(4, row-1)
		if err := f.SetCellStyle(name, "D2", end, wrap); err != nil {
			return err
		}
	}
	return nil
}
