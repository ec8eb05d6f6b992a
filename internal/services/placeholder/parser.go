package placeholder

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nguyenthenguyen/docx"
)

var (
	ErrInvalidInput      = errors.New("content is not valid text")
	ErrUnsupportedFormat = errors.New("unsupported template format")
	ErrCorruptDocument   = errors.New("document cannot be opened")
)

// Pattern matches {{field_name}} placeholders. Field names may contain
// letters, digits, underscores, hyphens and whitespace, so a placeholder
// can span lines; matching is non-greedy and the captured name is
// trimmed before use. The filler reuses this exact pattern so extraction
// and substitution never drift apart.
var Pattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_\-\s]+?)\}\}`)

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-\s]+$`)

// wtPattern captures the text of a single <w:t> run inside document.xml.
var wtPattern = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Extract returns every placeholder name found in content, in
// left-to-right order, duplicates included.
func (p *Parser) Extract(content string) ([]string, error) {
	if !utf8.ValidString(content) {
		return nil, ErrInvalidInput
	}

	matches := Pattern.FindAllStringSubmatch(content, -1)
	placeholders := make([]string, 0, len(matches))
	for _, m := range matches {
		placeholders = append(placeholders, strings.TrimSpace(m[1]))
	}
	return placeholders, nil
}

// ExtractUnique is Extract deduplicated by first occurrence.
func (p *Parser) ExtractUnique(content string) ([]string, error) {
	placeholders, err := p.Extract(content)
	if err != nil {
		return nil, err
	}
	return dedupe(placeholders), nil
}

// ExtractFromFile reads a template file and extracts its placeholders.
// DOCX templates are parsed as documents; anything else is treated as
// UTF-8 text.
func (p *Parser) ExtractFromFile(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is not a file: %s", path)
	}

	if strings.ToLower(filepath.Ext(path)) == ".docx" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return p.ExtractFromDocx(raw)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, path)
	}
	return p.Extract(string(raw))
}

// ExtractUniqueFromFile is ExtractFromFile deduplicated by first occurrence.
func (p *Parser) ExtractUniqueFromFile(path string) ([]string, error) {
	placeholders, err := p.ExtractFromFile(path)
	if err != nil {
		return nil, err
	}
	return dedupe(placeholders), nil
}

// ExtractFromDocx extracts placeholders from a document's paragraph
// text (table cells hold paragraphs too, so this covers them). Runs
// within a paragraph are concatenated with no separator, so a
// placeholder an editor split across runs is still found here even
// though run-local substitution cannot fill it.
func (p *Parser) ExtractFromDocx(raw []byte) ([]string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return p.Extract(strings.Join(ParagraphTexts(content), "\n"))
}

// ParagraphTexts returns the combined run text of each paragraph in the
// raw document XML, in document order.
func ParagraphTexts(documentXML string) []string {
	var texts []string
	for _, block := range strings.Split(documentXML, "</w:p>") {
		runs := RunTexts(block)
		if len(runs) == 0 {
			continue
		}
		texts = append(texts, strings.Join(runs, ""))
	}
	return texts
}

// RunTexts returns the unescaped text of every <w:t> run in the raw
// document XML, in document order.
func RunTexts(documentXML string) []string {
	matches := wtPattern.FindAllStringSubmatch(documentXML, -1)
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, UnescapeXML(m[1]))
	}
	return texts
}

// ReplaceRunTexts rewrites every <w:t> run in the raw document XML
// through fn, run by run. A placeholder split across runs by an editor
// is invisible here; that matches how these documents have always been
// filled, so templates keep rendering the same way.
func ReplaceRunTexts(documentXML string, fn func(text string) string) string {
	return wtPattern.ReplaceAllStringFunc(documentXML, func(match string) string {
		sub := wtPattern.FindStringSubmatch(match)
		inner := sub[1]
		if inner == "" {
			return match
		}
		text := UnescapeXML(inner)
		replaced := fn(text)
		if replaced == text {
			return match
		}
		return strings.Replace(match, inner, EscapeXML(replaced), 1)
	})
}

// ValidateName reports whether name is a valid placeholder field name:
// non-empty, only letters, digits, underscores, hyphens and spaces.
func (p *Parser) ValidateName(name string) bool {
	return name != "" && fieldNamePattern.MatchString(name)
}

func dedupe(placeholders []string) []string {
	seen := make(map[string]bool, len(placeholders))
	unique := make([]string, 0, len(placeholders))
	for _, ph := range placeholders {
		if !seen[ph] {
			seen[ph] = true
			unique = append(unique, ph)
		}
	}
	return unique
}

var (
	xmlUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
	xmlEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
)

// UnescapeXML decodes the predefined XML entities in run text.
func UnescapeXML(s string) string {
	return xmlUnescaper.Replace(s)
}

// EscapeXML encodes text for embedding back into run XML.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
