package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/techchoose/backend/internal/domain"
)

// ParseCSV reads a header row followed by data rows. Headers are trimmed and
// lower-cased; blank cells are left out of the row so they read as missing.
// Ragged rows are accepted; cells past the header width are ignored.
func ParseCSV(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", domain.ErrMalformedCatalog)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = normalizeHeader(h)
	}

	var rows []domain.RawRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedCatalog, line, err)
		}

		row := make(domain.RawRow, len(columns))
		for i, cell := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				row[columns[i]] = v
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}
