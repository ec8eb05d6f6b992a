package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported data file format")

// ParseFile parses a tabular data file into ordered rows of named
// fields plus the header columns. Format is chosen by extension:
// .csv/.tsv/.txt are delimiter-separated text, .xlsx is a workbook.
func ParseFile(path string) ([]map[string]any, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return ParseCSV(path)
	case ".xlsx":
		return ParseExcel(path)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
