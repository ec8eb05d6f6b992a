package fill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-fill-backend/internal/models"
)

var orderEntries = []models.MappingEntry{
	{Column: "Name", Placeholder: "name"},
	{Column: "OrderID", Placeholder: "order_id"},
}

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseStrategy(t *testing.T) {
	for _, raw := range []string{"keep", "empty", "default"} {
		got, err := ParseStrategy(raw)
		require.NoError(t, err)
		assert.Equal(t, MissingValueStrategy(raw), got)
	}

	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyKeep, got)

	_, err = ParseStrategy("explode")
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestNewFillerRejectsInvalidStrategy(t *testing.T) {
	_, err := NewFiller(MissingValueStrategy("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestFillTextRoundTrip(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	row := map[string]any{"Name": "Alice", "OrderID": 7}
	got, err := f.FillText("Hello {{name}}, order {{order_id}}", row, orderEntries)
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice, order 7", got)
}

func TestFillTextMissingValueStrategies(t *testing.T) {
	row := map[string]any{"Name": "Bob"}
	template := "Hello {{name}}, order {{order_id}}"

	cases := []struct {
		strategy MissingValueStrategy
		want     string
	}{
		{StrategyKeep, "Hello Bob, order {{order_id}}"},
		{StrategyEmpty, "Hello Bob, order "},
		{StrategyDefault, "Hello Bob, order N/A"},
	}
	for _, tc := range cases {
		f, err := NewFiller(tc.strategy)
		require.NoError(t, err)

		got, err := f.FillText(template, row, orderEntries)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "strategy %s", tc.strategy)
	}
}

func TestFillTextNilValueTreatedAsMissing(t *testing.T) {
	f, err := NewFiller(StrategyDefault)
	require.NoError(t, err)

	row := map[string]any{"Name": nil, "OrderID": 1}
	got, err := f.FillText("{{name}}/{{order_id}}", row, orderEntries)
	require.NoError(t, err)
	assert.Equal(t, "N/A/1", got)
}

func TestFillTextLastEntryWins(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	entries := []models.MappingEntry{
		{Column: "First", Placeholder: "name"},
		{Column: "Second", Placeholder: "name"},
	}
	row := map[string]any{"First": "one", "Second": "two"}

	got, err := f.FillText("{{name}}", row, entries)
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestFillTextRepeatedPlaceholder(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	row := map[string]any{"Name": "Ada"}
	got, err := f.FillText("{{name}} and {{name}} again", row, orderEntries)
	require.NoError(t, err)
	assert.Equal(t, "Ada and Ada again", got)
}

func TestFillTextInvalidUTF8(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	_, err = f.FillText(string([]byte{0xff, 0xfe}), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFillDispatchText(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)
	path := writeTemplate(t, "letter.txt", "Dear {{name}}")

	got, err := f.Fill(path, map[string]any{"Name": "Eve"}, orderEntries)
	require.NoError(t, err)
	assert.Equal(t, "Dear Eve", string(got))
}

func TestFillDispatchMissingTemplate(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	_, err = f.Fill("/nonexistent/letter.txt", nil, nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestFillDispatchUnsupportedExtension(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)
	path := writeTemplate(t, "template.pdf", "%PDF-1.4")

	_, err = f.Fill(path, nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFillDocxCorrupt(t *testing.T) {
	f, err := NewFiller(StrategyKeep)
	require.NoError(t, err)

	_, err = f.FillDocx([]byte("not a zip archive"), nil, nil)
	assert.ErrorIs(t, err, ErrCorruptTemplate)
}

func TestResolveValues(t *testing.T) {
	row := map[string]any{"Name": "Zoe"}
	values := ResolveValues(row, orderEntries)

	assert.Equal(t, "Zoe", values["name"])
	value, ok := values["order_id"]
	assert.True(t, ok)
	assert.Nil(t, value)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "hello", Stringify("hello"))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "42", Stringify(int64(42)))
	assert.Equal(t, "3.14", Stringify(3.14))
	assert.Equal(t, "1234567.89", Stringify(1234567.89))
	assert.Equal(t, "1.5", Stringify(float32(1.5)))
	assert.Equal(t, "[1 2]", Stringify([]int{1, 2}))
}
