package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/database"

	"github.com/xuri/excelize/v2"
)

// ReportWriter renders booking reports as xlsx files.
type ReportWriter struct {
	db   *database.DB
	path string
}

func NewReportWriter(db *database.DB, path string) *ReportWriter {
	return &ReportWriter{db: db, path: path}
}

// WriteBookingsReport writes every booking starting in [start, end]
// into a timestamped xlsx file and returns its path.
func (r *ReportWriter) WriteBookingsReport(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %w", err)
	}

	bookings, err := r.db.ListBookingsInRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format("2006-01-02"), end.Format("2006-01-02")))

	headers := []string{"ID", "Item", "Owner ID", "Booker", "Booker Email", "Start", "End", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, b := range bookings {
		values := []interface{}{
			b.ID,
			b.Item.Name,
			b.Item.OwnerID,
			b.Booker.Name,
			b.Booker.Email,
			b.Start.Format("2006-01-02 15:04"),
			b.End.Format("2006-01-02 15:04"),
			b.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "E", 24)
	_ = f.SetColWidth(sheetName, "F", "H", 18)

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405"))
	fullPath := filepath.Join(r.path, fileName)
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("error saving report: %w", err)
	}

	return fullPath, nil
}
