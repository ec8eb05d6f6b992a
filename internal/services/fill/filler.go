package fill

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/services/placeholder"
)

var (
	ErrTemplateNotFound  = errors.New("template file not found")
	ErrUnsupportedFormat = errors.New("unsupported template format")
	ErrCorruptTemplate   = errors.New("failed to load template")
	ErrInvalidInput      = errors.New("template content is not valid text")
)

// textExtensions are the template formats filled by whole-string
// substitution. DOCX and XLSX have their own back-ends.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".csv":  true,
}

// Filler substitutes {{placeholder}} tokens with data values. It reuses
// the extractor's grammar, so whatever extraction found is exactly what
// gets substituted.
type Filler struct {
	strategy MissingValueStrategy
}

// NewFiller builds a filler with the given missing-value strategy. An
// unrecognized strategy fails here, at construction.
func NewFiller(strategy MissingValueStrategy) (*Filler, error) {
	parsed, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}
	return &Filler{strategy: parsed}, nil
}

// Fill renders one data row into the template at templatePath,
// dispatching on the file extension. XLSX templates are cell-addressed
// and go through ExcelFiller instead.
func (f *Filler) Fill(templatePath string, dataRow map[string]any, entries []models.MappingEntry) ([]byte, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
	}

	ext := strings.ToLower(filepath.Ext(templatePath))
	switch {
	case ext == ".docx":
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptTemplate, err)
		}
		return f.FillDocx(raw, dataRow, entries)
	case textExtensions[ext]:
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptTemplate, err)
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, templatePath)
		}
		filled, err := f.FillText(string(raw), dataRow, entries)
		if err != nil {
			return nil, err
		}
		return []byte(filled), nil
	default:
		return nil, fmt.Errorf("%w: %s, supported formats: .txt, .md, .html, .csv, .docx", ErrUnsupportedFormat, ext)
	}
}

// FillText substitutes placeholders over the whole template string.
func (f *Filler) FillText(content string, dataRow map[string]any, entries []models.MappingEntry) (string, error) {
	if !utf8.ValidString(content) {
		return "", ErrInvalidInput
	}
	values := ResolveValues(dataRow, entries)
	return f.substitute(content, values), nil
}

// FillDocx substitutes placeholders in a DOCX document, run by run, in
// paragraph and table-cell text alike, then reserializes the document.
func (f *Filler) FillDocx(raw []byte, dataRow map[string]any, entries []models.MappingEntry) ([]byte, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptTemplate, err)
	}
	defer doc.Close()

	values := ResolveValues(dataRow, entries)

	editable := doc.Editable()
	editable.SetContent(placeholder.ReplaceRunTexts(editable.GetContent(), func(text string) string {
		return f.substitute(text, values)
	}))

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// ResolveValues builds the placeholder -> value map from one data row.
// Entries are applied in order, so when several columns map to the same
// placeholder the last entry wins. A column absent from the row leaves
// the placeholder with a nil value, which the missing-value strategy
// handles at substitution time.
func ResolveValues(dataRow map[string]any, entries []models.MappingEntry) map[string]any {
	values := make(map[string]any, len(entries))
	for _, e := range entries {
		values[e.Placeholder] = dataRow[e.Column]
	}
	return values
}

func (f *Filler) substitute(content string, values map[string]any) string {
	return placeholder.Pattern.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSpace(placeholder.Pattern.FindStringSubmatch(match)[1])
		if value, ok := values[name]; ok && value != nil {
			return Stringify(value)
		}
		return f.missingValue(name)
	})
}

func (f *Filler) missingValue(name string) string {
	switch f.strategy {
	case StrategyEmpty:
		return ""
	case StrategyDefault:
		return defaultValue
	default:
		return "{{" + name + "}}"
	}
}

// Stringify renders a data value in its canonical textual form, with no
// locale formatting.
func Stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
