package tabular

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseExcel parses the first sheet of an XLSX workbook. The first row
// is the header; rows where every value is empty are skipped.
func ParseExcel(path string) ([]map[string]any, []string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	records, err := wb.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("workbook has no header row: %s", path)
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
