package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ParseCSV parses a delimiter-separated file. The first row is the
// header; the delimiter is sniffed from a sample of the file. Values
// are trimmed and rows where every value is empty are skipped.
func ParseCSV(path string) ([]map[string]any, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("file not found: %s", path)
	}
	if !utf8.Valid(raw) {
		return nil, nil, fmt.Errorf("could not read file as text (encoding issue): %s", path)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1
	reader.Comma = sniffDelimiter(string(raw))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV file format: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty: %s", path)
	}

	columns := make([]string, 0, len(records[0]))
	for _, c := range records[0] {
		columns = append(columns, strings.TrimSpace(c))
	}

	var rows []map[string]any
	for _, record := range records[1:] {
		row := make(map[string]any, len(columns))
		empty := true
		for i, column := range columns {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value != "" {
				empty = false
			}
			row[column] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}
	return rows, columns, nil
}

// sniffDelimiter picks the delimiter with the most occurrences in the
// first kilobyte, defaulting to comma.
func sniffDelimiter(content string) rune {
	sample := content
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	if i := strings.IndexByte(sample, '\n'); i > 0 {
		sample = sample[:i]
	}

	best := ','
	bestCount := strings.Count(sample, ",")
	for _, d := range []rune{'\t', ';', '|'} {
		if count := strings.Count(sample, string(d)); count > bestCount {
			best = d
			bestCount = count
		}
	}
	return best
}
