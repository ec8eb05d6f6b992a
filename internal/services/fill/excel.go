package fill

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// identifierColumns are tried in order when naming separate output
// workbooks; the first non-empty value found becomes the filename
// identifier, otherwise the row's 1-based ordinal is used.
var identifierColumns = []string{"订单号", "单号", "order_no", "order_id"}

// NamedOutput is one generated workbook with its filename.
type NamedOutput struct {
	Filename string
	Content  []byte
}

// ExcelFiller fills XLSX templates in cell-mapping mode: instead of
// scanning for {{...}} tokens, the caller supplies an explicit
// placeholder -> cell reference map and values are written straight
// into those cells. Cells the mapping does not touch keep their
// existing values and formulas.
type ExcelFiller struct{}

func NewExcelFiller() *ExcelFiller {
	return &ExcelFiller{}
}

// FillTemplate fills one data row into the template workbook. Invalid
// cell references are skipped, not errored; a placeholder with no value
// leaves its cell untouched. sheetName selects the target sheet, the
// active sheet when empty.
func (ef *ExcelFiller) FillTemplate(templatePath string, dataRow map[string]any, cellMapping map[string]string, sheetName string) ([]byte, error) {
	wb, err := ef.open(templatePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet := sheetName
	if sheet == "" {
		sheet = wb.GetSheetName(wb.GetActiveSheetIndex())
	} else {
		idx, err := wb.GetSheetIndex(sheet)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("sheet not found: %s", sheet)
		}
	}

	if err := fillSheet(wb, sheet, dataRow, cellMapping); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FillBatch fills many rows into one workbook, cloning the active sheet
// once per extra row (<sheet>_2, <sheet>_3, ...).
func (ef *ExcelFiller) FillBatch(templatePath string, dataRows []map[string]any, cellMapping map[string]string) ([]byte, error) {
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("no data rows provided")
	}

	wb, err := ef.open(templatePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	originalIndex := wb.GetActiveSheetIndex()
	originalName := wb.GetSheetName(originalIndex)

	if err := fillSheet(wb, originalName, dataRows[0], cellMapping); err != nil {
		return nil, err
	}

	for i, dataRow := range dataRows[1:] {
		cloneName := fmt.Sprintf("%s_%d", originalName, i+2)
		cloneIndex, err := wb.NewSheet(cloneName)
		if err != nil {
			return nil, fmt.Errorf("failed to clone sheet: %w", err)
		}
		if err := wb.CopySheet(originalIndex, cloneIndex); err != nil {
			return nil, fmt.Errorf("failed to clone sheet: %w", err)
		}
		if err := fillSheet(wb, cloneName, dataRow, cellMapping); err != nil {
			return nil, err
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FillBatchSeparate produces one standalone workbook per row, named
// from outputPrefix plus an identifier drawn from the row.
func (ef *ExcelFiller) FillBatchSeparate(templatePath string, dataRows []map[string]any, cellMapping map[string]string, outputPrefix string) ([]NamedOutput, error) {
	if outputPrefix == "" {
		outputPrefix = "output"
	}

	outputs := make([]NamedOutput, 0, len(dataRows))
	for i, dataRow := range dataRows {
		content, err := ef.FillTemplate(templatePath, dataRow, cellMapping, "")
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, NamedOutput{
			Filename: fmt.Sprintf("%s_%s.xlsx", outputPrefix, rowIdentifier(dataRow, i+1)),
			Content:  content,
		})
	}
	return outputs, nil
}

// open validates the extension before checking existence, then loads
// the workbook.
func (ef *ExcelFiller) open(templatePath string) (*excelize.File, error) {
	if strings.ToLower(filepath.Ext(templatePath)) != ".xlsx" {
		return nil, fmt.Errorf("%w: %s, only .xlsx templates are supported", ErrUnsupportedFormat, filepath.Ext(templatePath))
	}
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
	}

	wb, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTemplate, err)
	}
	return wb, nil
}

func fillSheet(wb *excelize.File, sheet string, dataRow map[string]any, cellMapping map[string]string) error {
	for ph, cellRef := range cellMapping {
		if !IsValidCellRef(cellRef) {
			continue
		}
		value, ok := cellValue(dataRow, ph)
		if !ok || value == nil {
			continue
		}
		if err := wb.SetCellValue(sheet, strings.ToUpper(strings.TrimSpace(cellRef)), value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cellRef, err)
		}
	}
	return nil
}

// valueSuffixes generate placeholder name variations when no column
// matches directly: a name ending in one of these is retried without
// it, any other name is retried with each suffix appended.
var valueSuffixes = []string{"名称", "编号", "号", "日期", "时间"}

// cellValue resolves a placeholder against the data row, trying common
// name variations before giving up.
func cellValue(dataRow map[string]any, ph string) (any, bool) {
	if value, ok := dataRow[ph]; ok {
		return value, true
	}
	for _, variant := range placeholderVariations(ph) {
		if value, ok := dataRow[variant]; ok {
			return value, true
		}
	}
	return nil, false
}

func placeholderVariations(ph string) []string {
	variations := make([]string, 0, len(valueSuffixes))
	for _, suffix := range valueSuffixes {
		if strings.HasSuffix(ph, suffix) {
			variations = append(variations, strings.TrimSuffix(ph, suffix))
		} else {
			variations = append(variations, ph+suffix)
		}
	}
	return variations
}

func rowIdentifier(dataRow map[string]any, ordinal int) string {
	for _, column := range identifierColumns {
		if value, ok := dataRow[column]; ok && value != nil {
			if s := Stringify(value); s != "" {
				return s
			}
		}
	}
	return strconv.Itoa(ordinal)
}

// IsValidCellRef reports whether ref is a well-formed cell reference:
// one or more letters followed by one or more digits forming a positive
// integer (A1, AA100; not 1A, A, A1B). Lowercase letters are accepted
// and normalized.
func IsValidCellRef(ref string) bool {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return false
	}

	var col, row string
	for _, c := range ref {
		switch {
		case c >= 'A' && c <= 'Z':
			if row != "" {
				return false
			}
			col += string(c)
		case c >= '0' && c <= '9':
			row += string(c)
		default:
			return false
		}
	}
	if col == "" || row == "" {
		return false
	}

	n, err := strconv.Atoi(row)
	return err == nil && n >= 1
}

// ParseCellMapping parses the "placeholder:CELL,placeholder:CELL"
// configuration format. Pairs with invalid cell references are dropped,
// not errored.
func ParseCellMapping(s string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		ph, cell, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		ph = strings.TrimSpace(ph)
		cell = strings.ToUpper(strings.TrimSpace(cell))
		if ph == "" || !IsValidCellRef(cell) {
			continue
		}
		result[ph] = cell
	}
	return result
}
