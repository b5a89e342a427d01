// Package export renders attendance rows as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/zaqqye/attendance_backend_v1/internal/models"
)

const (
	SheetName   = "Attendance Records"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FileName    = "attendance_records.xlsx"
	TimeLayout  = "2006-01-02 15:04:05"
)

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"Teacher", 25},
	{"Level", 20},
	{"Section", 20},
	{"Check-In Time", 25},
	{"Check-Out Time", 25},
}

// Workbook writes one row per period under a bold header row.
func Workbook(rows []models.AttendanceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, name+"1", col.header); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		checkOut := ""
		if row.CheckOutTime != nil {
			checkOut = row.CheckOutTime.UTC().Format(TimeLayout)
		}
		values := []any{row.Teacher, row.Level, row.Section, row.CheckInTime.UTC().Format(TimeLayout), checkOut}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
