package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/katto-1204/upd-CROSSCERT/internal/events"
)

var attendanceColumns = []string{
	"Registration ID", "Name", "Email", "Affiliation", "Code",
	"Checked In", "Checked Out", "Evaluated", "Certificate No.", "Certificate Status",
}

// buildAttendanceWorkbook renders attendance rows into a styled .xlsx
// workbook.
func buildAttendanceWorkbook(event *events.Event, rows []AttendanceRow) ([]byte, error) {
	file := excelize.NewFile()
	sheetName := "Attendance"
	file.SetSheetName("Sheet1", sheetName)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	titleStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	file.SetCellValue(sheetName, "A1", event.Title)
	file.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	file.SetCellValue(sheetName, "A2", fmt.Sprintf("Date: %s  Location: %s", event.Date.Format("January 02, 2006"), event.Location))

	headerRow := 4
	for i, column := range attendanceColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		file.SetCellValue(sheetName, cell, column)
		file.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range rows {
		values := []interface{}{
			row.RegistrationID,
			row.Name,
			row.Email,
			row.Affiliation,
			row.CodeValue,
			formatTimestamp(row.CheckedInAt),
			formatTimestamp(row.CheckedOutAt),
			formatBool(row.Evaluated),
			row.CertificateNumber,
			row.CertificateStatus,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			if err != nil {
				return nil, err
			}
			file.SetCellValue(sheetName, cell, value)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(attendanceColumns), headerRow)
	file.AutoFilter(sheetName, fmt.Sprintf("A%d:%s", headerRow, lastCell), nil)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
