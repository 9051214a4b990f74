package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Attendance"

// XLSXExporter renders datasets as a single sheet spreadsheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title, the table and the footer lines into one sheet.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(xlsxSheet, cellName(1, row), data.Title); err != nil {
			return nil, err
		}
		row++
	}
	if data.Subtitle != "" {
		if err := f.SetCellValue(xlsxSheet, cellName(1, row), data.Subtitle); err != nil {
			return nil, err
		}
		row++
	}
	if row > 1 {
		row++
	}

	headerRow := row
	if err := f.SetSheetRow(xlsxSheet, cellName(1, row), &data.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, cellName(1, row), cellName(len(data.Columns), row), bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	row++

	record := make([]interface{}, len(data.Columns))
	for _, r := range data.Rows {
		for i := range data.Columns {
			record[i] = data.cell(r, i)
		}
		if err := f.SetSheetRow(xlsxSheet, cellName(1, row), &record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
		row++
	}

	if len(data.Footer) > 0 {
		row++
		for _, line := range data.Footer {
			if err := f.SetCellValue(xlsxSheet, cellName(1, row), line); err != nil {
				return nil, err
			}
			row++
		}
	}

	if err := f.SetColWidth(xlsxSheet, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      headerRow,
		TopLeftCell: cellName(2, headerRow+1),
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "A1"
	}
	return name
}
