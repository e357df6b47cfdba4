package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stemsi/exstem-console/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestExamsXLSX(t *testing.T) {
	ist := time.FixedZone("+05:30", 19800)
	start := time.Date(2026, 10, 19, 3, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	desc := "Chapter 4"

	raw, err := ExamsXLSX([]model.ExamView{
		{Exam: model.Exam{ID: 1, Title: "Optics", Description: &desc, StartTime: &start, DurationMinutes: 60, PassingScore: 40, IsActive: true}, EndTime: &end, Status: "live"},
		{Exam: model.Exam{ID: 2, Title: "Draft", DurationMinutes: 30}, Status: "unscheduled"},
	}, ist)
	if err != nil {
		t.Fatalf("ExamsXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "Title" {
		t.Errorf("header = %v", rows[0])
	}

	want := []string{"1", "Optics", "Chapter 4", "2026-10-19 09:00", "2026-10-19 10:00", "60", "40", "yes", "live"}
	for i, w := range want {
		if rows[1][i] != w {
			t.Errorf("row 1 col %d = %q, want %q", i, rows[1][i], w)
		}
	}
	if rows[2][3] != "" || rows[2][8] != "unscheduled" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestExamsXLSX_Empty(t *testing.T) {
	raw, err := ExamsXLSX(nil, time.UTC)
	if err != nil {
		t.Fatalf("ExamsXLSX() error = %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty workbook bytes")
	}
}
