package reconcile

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelArtifactName is the xlsx counterpart of ArtifactName.
func ExcelArtifactName(kind string, at time.Time) string {
	return fmt.Sprintf("%s-upload-failures-%s.xlsx", kind, at.Format("20060102-150405"))
}

// WriteFailuresXLSX writes the complete failure list as a styled Excel
// sheet for operators who fix rejected rows in a spreadsheet rather
// than a text editor.
func (rp Report) WriteFailuresXLSX(w io.Writer, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := []string{"Row Number", "Status", "Error", "Data"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, failure := range rp.Failures {
		values := []string{failure.RowNumber, failure.Status, failure.Error, failure.Data}
		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", string(rune('A'+colIdx)), rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col := string(rune('A' + i))
		f.SetColWidth(sheetName, col, col, 20)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	return f.Write(w)
}
