package fill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an xlsx template with a label, a formula, and
// empty target cells, and returns its path.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())
	require.NoError(t, wb.SetCellValue(sheet, "A1", "Order form"))
	require.NoError(t, wb.SetCellFormula(sheet, "C1", "B1*2"))

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func openOutput(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func TestFillTemplateWritesMappedCells(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	row := map[string]any{"name": "Alice", "qty": 3}
	mapping := map[string]string{"name": "B1", "qty": "B2"}

	content, err := ef.FillTemplate(path, row, mapping, "")
	require.NoError(t, err)

	wb := openOutput(t, content)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	got, err := wb.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	got, err = wb.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	label, err := wb.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order form", label)
}

func TestFillTemplatePreservesFormulas(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	content, err := ef.FillTemplate(path, map[string]any{"name": "Bob"}, map[string]string{"name": "B1"}, "")
	require.NoError(t, err)

	wb := openOutput(t, content)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	formula, err := wb.GetCellFormula(sheet, "C1")
	require.NoError(t, err)
	assert.Equal(t, "B1*2", formula)
}

func TestFillTemplateSkipsMissingValuesAndBadRefs(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	row := map[string]any{"name": "Carol", "absent": nil}
	mapping := map[string]string{
		"name":    "b1", // lowercase refs are normalized
		"absent":  "B2",
		"missing": "B3",
		"broken":  "1A",
	}

	content, err := ef.FillTemplate(path, row, mapping, "")
	require.NoError(t, err)

	wb := openOutput(t, content)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	got, err := wb.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Carol", got)

	for _, ref := range []string{"B2", "B3"} {
		got, err := wb.GetCellValue(sheet, ref)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestFillTemplateResolvesNameVariations(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	// Row columns carry suffixed or bare variants of the mapped names.
	row := map[string]any{"客户名称": "Acme", "订单": "SO-7"}
	mapping := map[string]string{"客户": "B1", "订单号": "B2"}

	content, err := ef.FillTemplate(path, row, mapping, "")
	require.NoError(t, err)

	wb := openOutput(t, content)
	sheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	got, err := wb.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)

	got, err = wb.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "SO-7", got)
}

func TestCellValuePrefersDirectMatch(t *testing.T) {
	row := map[string]any{"客户": "direct", "客户名称": "variant"}

	value, ok := cellValue(row, "客户")
	require.True(t, ok)
	assert.Equal(t, "direct", value)

	_, ok = cellValue(map[string]any{"qty": 1}, "name")
	assert.False(t, ok)
}

func TestFillTemplateUnknownSheet(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	_, err := ef.FillTemplate(path, map[string]any{"name": "x"}, map[string]string{"name": "A1"}, "NoSuchSheet")
	assert.ErrorContains(t, err, "sheet not found")
}

func TestFillTemplateRejectsNonXlsx(t *testing.T) {
	ef := NewExcelFiller()
	_, err := ef.FillTemplate("template.docx", nil, nil, "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFillTemplateMissingFile(t *testing.T) {
	ef := NewExcelFiller()
	_, err := ef.FillTemplate("/nonexistent/template.xlsx", nil, nil, "")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestFillTemplateCorruptFile(t *testing.T) {
	ef := NewExcelFiller()
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := ef.FillTemplate(path, nil, nil, "")
	assert.ErrorIs(t, err, ErrCorruptTemplate)
}

func TestFillBatchClonesSheetPerRow(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	rows := []map[string]any{
		{"name": "row1"},
		{"name": "row2"},
		{"name": "row3"},
	}
	content, err := ef.FillBatch(path, rows, map[string]string{"name": "B1"})
	require.NoError(t, err)

	wb := openOutput(t, content)
	original := wb.GetSheetName(0)

	for i, want := range []string{"row1", "row2", "row3"} {
		sheet := original
		if i > 0 {
			sheet = fmt.Sprintf("%s_%d", original, i+1)
		}
		got, err := wb.GetCellValue(sheet, "B1")
		require.NoError(t, err)
		assert.Equal(t, want, got, "sheet %s", sheet)

		// Clones carry the template content too.
		label, err := wb.GetCellValue(sheet, "A1")
		require.NoError(t, err)
		assert.Equal(t, "Order form", label)
	}
}

func TestFillBatchNoRows(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	_, err := ef.FillBatch(path, nil, map[string]string{"name": "B1"})
	assert.Error(t, err)
}

func TestFillBatchSeparateNaming(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	rows := []map[string]any{
		{"name": "a", "order_no": "SO-100"},
		{"name": "b"},
	}
	outputs, err := ef.FillBatchSeparate(path, rows, map[string]string{"name": "B1"}, "")
	require.NoError(t, err)

	require.Len(t, outputs, 2)
	assert.Equal(t, "output_SO-100.xlsx", outputs[0].Filename)
	assert.Equal(t, "output_2.xlsx", outputs[1].Filename)

	wb := openOutput(t, outputs[0].Content)
	got, err := wb.GetCellValue(wb.GetSheetName(wb.GetActiveSheetIndex()), "B1")
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestFillBatchSeparateCustomPrefix(t *testing.T) {
	ef := NewExcelFiller()
	path := writeWorkbook(t)

	outputs, err := ef.FillBatchSeparate(path, []map[string]any{{"name": "x"}}, map[string]string{"name": "B1"}, "invoice")
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "invoice_1.xlsx", outputs[0].Filename)
}

func TestIsValidCellRef(t *testing.T) {
	valid := []string{"A1", "AA100", "b2", " C3 ", "ZZ999"}
	for _, ref := range valid {
		assert.True(t, IsValidCellRef(ref), ref)
	}

	invalid := []string{"", "A", "1", "1A", "A1B", "A0", "A-1", "A 1", "A1.5"}
	for _, ref := range invalid {
		assert.False(t, IsValidCellRef(ref), ref)
	}
}

func TestParseCellMapping(t *testing.T) {
	got := ParseCellMapping("name:B1, qty : c2 ,broken:1A,:D4,nocolon")
	assert.Equal(t, map[string]string{"name": "B1", "qty": "C2"}, got)
}

func TestParseCellMappingEmpty(t *testing.T) {
	assert.Empty(t, ParseCellMapping(""))
}
