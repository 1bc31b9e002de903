package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/example/kanjigate/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in xlsx exports
const (
	ProgressSheet = "Progress"
	OutcomesSheet = "Outcomes"
)

var (
	progressHeader = []string{"Day", "Completed", "Updated"}
	outcomesHeader = []string{"Time", "Session", "Subject", "Incorrect meaning", "Incorrect reading", "Reported", "Error"}
)

// Export writes the review history to an Excel or CSV file, picked by the
// file extension. CSV files only hold the daily progress table.
func Export(path string, days []models.DailyProgress, outcomes []models.OutcomeRecord) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		return exportToCSV(path, days)
	case ".xlsx":
		return exportToExcel(path, days, outcomes)
	default:
		return fmt.Errorf("unsupported export format %q, use .xlsx or .csv", ext)
	}
}

// exportToExcel writes the progress and outcome sheets
func exportToExcel(path string, days []models.DailyProgress, outcomes []models.OutcomeRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProgressSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(OutcomesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, ProgressSheet, 1, toCells(progressHeader)); err != nil {
		return err
	}
	for i, d := range days {
		row := []interface{}{d.Day, d.Completed, formatTime(d.UpdatedAt)}
		if err := writeRow(f, ProgressSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, OutcomesSheet, 1, toCells(outcomesHeader)); err != nil {
		return err
	}
	for i, o := range outcomes {
		row := []interface{}{
			formatTime(o.CreatedAt), o.SessionID, o.SubjectID,
			o.IncorrectMeaning, o.IncorrectReading, o.Reported, o.Error,
		}
		if err := writeRow(f, OutcomesSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// exportToCSV writes the daily progress table
func exportToCSV(path string, days []models.DailyProgress) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(progressHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, d := range days {
		if err := w.Write([]string{d.Day, strconv.Itoa(d.Completed), formatTime(d.UpdatedAt)}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	return file.Close()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(header []string) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
