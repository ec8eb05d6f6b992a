package mapping

import (
	"encoding/json"
	"fmt"
	"sort"

	"document-fill-backend/internal/models"
)

// ValidationError aggregates every problem found in one pass; callers
// always get the complete list, never just the first failure.
type ValidationError struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a mapping against the template's placeholders and the
// data file's actual columns. template may be nil when it could not be
// resolved. Columns mapped to placeholders the template does not use
// are not errors; they are ignored at render time so one mapping can be
// reused across near-identical templates.
func (v *Validator) Validate(m *models.Mapping, template *models.Template, dataColumns []string) error {
	var errs []string

	entries, err := m.Entries()
	if err != nil {
		errs = append(errs, fmt.Sprintf("Invalid column mappings: %v", err))
		entries = nil
	}

	if template == nil {
		errs = append(errs, fmt.Sprintf("Template not found: %s", m.TemplateID))
	} else {
		errs = append(errs, unmappedPlaceholders(template, entries)...)
	}

	errs = append(errs, missingColumns(entries, dataColumns)...)

	if len(errs) > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("Mapping validation failed with %d error(s)", len(errs)),
			Errors:  errs,
		}
	}
	return nil
}

// unmappedPlaceholders reports template placeholders no column maps to,
// sorted for determinism.
func unmappedPlaceholders(template *models.Template, entries []models.MappingEntry) []string {
	var placeholders []string
	if len(template.Placeholders) > 0 {
		if err := json.Unmarshal(template.Placeholders, &placeholders); err != nil {
			return []string{fmt.Sprintf("Invalid template placeholders: %v", err)}
		}
	}

	mapped := make(map[string]bool, len(entries))
	for _, e := range entries {
		mapped[e.Placeholder] = true
	}

	var unmapped []string
	for _, ph := range placeholders {
		if !mapped[ph] {
			unmapped = append(unmapped, ph)
		}
	}
	sort.Strings(unmapped)

	errs := make([]string, 0, len(unmapped))
	for _, ph := range unmapped {
		errs = append(errs, fmt.Sprintf("Template placeholder '%s' is not mapped to any data column", ph))
	}
	return errs
}

// missingColumns reports mapped columns absent from the source data,
// sorted for determinism.
func missingColumns(entries []models.MappingEntry, dataColumns []string) []string {
	existing := make(map[string]bool, len(dataColumns))
	for _, c := range dataColumns {
		existing[c] = true
	}

	seen := make(map[string]bool, len(entries))
	var missing []string
	for _, e := range entries {
		if !existing[e.Column] && !seen[e.Column] {
			seen[e.Column] = true
			missing = append(missing, e.Column)
		}
	}
	sort.Strings(missing)

	errs := make([]string, 0, len(missing))
	for _, c := range missing {
		errs = append(errs, fmt.Sprintf("Mapped column '%s' does not exist in source data", c))
	}
	return errs
}
