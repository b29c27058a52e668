package registry

import (
	"fmt"

	"registrymail/internal/errors"
)

// HeaderMap maps a header label to its zero-based column position
type HeaderMap map[string]int

// BuildHeaderMap indexes the non-empty cells of a header row. A label that
// appears more than once maps to its last column.
func BuildHeaderMap(row []string) HeaderMap {
	headers := make(HeaderMap, len(row))
	for idx, label := range row {
		if label == "" {
			continue
		}
		headers[label] = idx
	}
	return headers
}

// Resolve returns the positions of the name and email columns
func (h HeaderMap) Resolve(nameLabel, emailLabel string) (nameIdx, emailIdx int, err error) {
	nameIdx, nameOK := h[nameLabel]
	emailIdx, emailOK := h[emailLabel]
	if !nameOK || !emailOK {
		return 0, 0, missingColumnsError(nameLabel, emailLabel)
	}
	return nameIdx, emailIdx, nil
}

func missingColumnsError(nameLabel, emailLabel string) error {
	return errors.SchemaError(fmt.Sprintf("expected columns '%s' and '%s' in registry workbook", nameLabel, emailLabel))
}
