package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// RegistryHeader is the header row of a standard registry workbook
var RegistryHeader = []interface{}{"Entity Name", "Contact Email"}

// ScenarioRows is a registry body that exercises trimming, case-insensitive
// duplicates and incomplete rows. It reduces to a single Acme Corp record.
func ScenarioRows() [][]interface{} {
	return [][]interface{}{
		RegistryHeader,
		{"Acme Corp", " a@x.com "},
		{"acme corp", "b@x.com"},
		{"", "c@x.com"},
		{"Beta LLC", ""},
	}
}

// WriteWorkbook saves rows to dir/name as an xlsx workbook with a single
// sheet and returns the file path
func WriteWorkbook(t testing.TB, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	writeRows(t, f, "Sheet1", rows)

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook %s: %v", path, err)
	}
	return path
}

// WriteWorkbookWithActive saves a workbook with a decoy first sheet and the
// rows on a second sheet that is marked active
func WriteWorkbookWithActive(t testing.TB, dir, name string, decoy, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	writeRows(t, f, "Sheet1", decoy)

	idx, err := f.NewSheet("Registry")
	if err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}
	writeRows(t, f, "Registry", rows)
	f.SetActiveSheet(idx)

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook %s: %v", path, err)
	}
	return path
}

// WriteCSV saves rows to dir/name as CSV and returns the file path
func WriteCSV(t testing.TB, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func writeRows(t testing.TB, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("bad coordinates: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
}
