// Package registry turns the rows of a registry workbook into a deduplicated
// list of entity contact records.
package registry

import (
	"registrymail/internal/errors"
	"registrymail/models"
	"registrymail/ports"
)

const (
	DefaultNameColumn  = "Entity Name"
	DefaultEmailColumn = "Contact Email"
)

// Columns names the header labels the extractor looks for
type Columns struct {
	Name  string
	Email string
}

// DefaultColumns returns the standard registry header labels
func DefaultColumns() Columns {
	return Columns{Name: DefaultNameColumn, Email: DefaultEmailColumn}
}

// Stats describes one extraction pass
type Stats struct {
	RowsScanned    int
	RowsIncomplete int
	RowsDuplicate  int
	Records        int
}

// Extractor reads registry records out of a row stream
type Extractor struct {
	columns Columns
}

// NewExtractor creates an extractor for the given header labels
func NewExtractor(columns Columns) *Extractor {
	return &Extractor{columns: columns}
}

// Extract consumes rows and returns one record per distinct case-insensitive
// name, in first-occurrence order. The first row is the header row. It does
// not close rows.
func (e *Extractor) Extract(rows ports.RowIterator) ([]models.RegistryRecord, error) {
	records, _, err := e.ExtractWithStats(rows)
	return records, err
}

// ExtractWithStats is Extract plus counters for the rows it dropped
func (e *Extractor) ExtractWithStats(rows ports.RowIterator) ([]models.RegistryRecord, Stats, error) {
	var stats Stats

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, stats, errors.Wrap(err, "failed to read header row")
		}
		return nil, stats, missingColumnsError(e.columns.Name, e.columns.Email)
	}
	headerRow, err := rows.Columns()
	if err != nil {
		return nil, stats, errors.Wrap(err, "failed to read header row")
	}

	nameIdx, emailIdx, err := BuildHeaderMap(headerRow).Resolve(e.columns.Name, e.columns.Email)
	if err != nil {
		return nil, stats, err
	}

	records := make([]models.RegistryRecord, 0)
	seen := make(map[string]struct{})

	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return nil, stats, errors.Wrapf(err, "failed to read row %d", stats.RowsScanned+2)
		}
		stats.RowsScanned++

		name, nameOK := NormalizeName(cellAt(row, nameIdx))
		email, emailOK := NormalizeEmail(cellAt(row, emailIdx))
		if !nameOK || !emailOK {
			stats.RowsIncomplete++
			continue
		}

		key := DedupKey(name)
		if _, dup := seen[key]; dup {
			stats.RowsDuplicate++
			continue
		}
		seen[key] = struct{}{}
		records = append(records, models.RegistryRecord{Name: name, Email: email})
	}
	if err := rows.Err(); err != nil {
		return nil, stats, errors.Wrap(err, "failed to iterate registry rows")
	}

	stats.Records = len(records)
	return records, stats, nil
}

// cellAt returns "" for cells past the end of a ragged row
func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
