// Package export renders exam lists as spreadsheets for offline review.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/stemsi/exstem-console/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName  = "Exams"
	timeLayout = "2006-01-02 15:04"
)

var headers = []string{"ID", "Title", "Description", "Start", "End", "Duration (min)", "Passing score (%)", "Active", "Status"}

// ExamsXLSX writes one row per exam, times rendered in loc.
func ExamsXLSX(exams []model.ExamView, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for r, e := range exams {
		row := []interface{}{
			e.ID,
			e.Title,
			deref(e.Description),
			formatTime(e.StartTime, loc),
			formatTime(e.EndTime, loc),
			e.DurationMinutes,
			e.PassingScore,
			yesNo(e.IsActive),
			e.Status,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "B", "C", 32); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "D", "E", 18); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
