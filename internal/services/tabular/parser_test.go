package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeDataFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	path := writeDataFile(t, "orders.csv", "Name,OrderID\nAlice,1\nBob,2\n")

	rows, columns, err := ParseCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "OrderID"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"Name": "Alice", "OrderID": "1"}, rows[0])
	assert.Equal(t, map[string]any{"Name": "Bob", "OrderID": "2"}, rows[1])
}

func TestParseCSVSniffsDelimiter(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"semicolon.csv", "Name;OrderID\nAlice;1\n"},
		{"pipe.csv", "Name|OrderID\nAlice|1\n"},
		{"tab.tsv", "Name\tOrderID\nAlice\t1\n"},
	}
	for _, tc := range cases {
		path := writeDataFile(t, tc.name, tc.content)

		rows, columns, err := ParseCSV(path)
		require.NoError(t, err, tc.name)
		assert.Equal(t, []string{"Name", "OrderID"}, columns, tc.name)
		require.Len(t, rows, 1, tc.name)
		assert.Equal(t, "Alice", rows[0]["Name"], tc.name)
	}
}

func TestParseCSVTrimsAndPadsValues(t *testing.T) {
	path := writeDataFile(t, "ragged.csv", " Name , OrderID \n Alice \n")

	rows, columns, err := ParseCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "OrderID"}, columns)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{"Name": "Alice", "OrderID": ""}, rows[0])
}

func TestParseCSVSkipsEmptyRows(t *testing.T) {
	path := writeDataFile(t, "gaps.csv", "Name,OrderID\nAlice,1\n,\nBob,2\n")

	rows, _, err := ParseCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1]["Name"])
}

func TestParseCSVHeaderOnly(t *testing.T) {
	path := writeDataFile(t, "header.csv", "Name,OrderID\n")

	rows, columns, err := ParseCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "OrderID"}, columns)
	assert.Empty(t, rows)
}

func TestParseCSVInvalidEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, []byte{'N', 'a', 'm', 'e', '\n', 0xe9, 0xff, '\n'}, 0o644))

	_, _, err := ParseCSV(path)
	assert.ErrorContains(t, err, "encoding issue")
}

func TestParseCSVMissingFile(t *testing.T) {
	_, _, err := ParseCSV("/nonexistent/data.csv")
	assert.ErrorContains(t, err, "file not found")
}

func TestParseExcel(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"Name", "OrderID"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"Alice", 1}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]any{"Bob", 2}))

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	rows, columns, err := ParseExcel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "OrderID"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0]["Name"])
	assert.Equal(t, "1", rows[0]["OrderID"])
}

func TestParseFileDispatch(t *testing.T) {
	path := writeDataFile(t, "orders.csv", "Name\nAlice\n")

	rows, _, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, _, err = ParseFile("data.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
