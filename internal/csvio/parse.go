package csvio

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Parse reads CSV text into records with lenient quote handling, matching the
// relaxed parsing the append job needs for externally produced files. Records
// may have varying field counts.
func Parse(csvText string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}
