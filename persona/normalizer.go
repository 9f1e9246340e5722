package persona

import (
	"fmt"
)

// NormalizationWarning is a non-fatal issue found during normalization.
type NormalizationWarning struct {
	Field   string
	Message string
}

// Normalize validates and fills defaults for a PersonaSpec.
func Normalize(spec *PersonaSpec) (*PersonaSpec, []NormalizationWarning, error) {
	var warnings []NormalizationWarning

	if spec == nil || spec.Name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}

	// Copy to avoid mutating input
	normalized := *spec
	normalized.Defaults()

	if normalized.Locale != "id-ID" {
		warnings = append(warnings, NormalizationWarning{
			Field:   "locale",
			Message: fmt.Sprintf("only id-ID lexicons ship by default, got %q", normalized.Locale),
		})
	}

	if len(normalized.Hobbies) > 5 {
		warnings = append(warnings, NormalizationWarning{
			Field:   "hobbies",
			Message: fmt.Sprintf("hobbies capped at 5, got %d", len(normalized.Hobbies)),
		})
		normalized.Hobbies = normalized.Hobbies[:5]
	}

	if _, ok := templates[normalized.Style]; !ok {
		warnings = append(warnings, NormalizationWarning{
			Field:   "style",
			Message: fmt.Sprintf("unknown style %q, defaulting to friend", normalized.Style),
		})
		normalized.Style = "friend"
	}

	if normalized.Age < 0 {
		normalized.Age = 0
	}

	return &normalized, warnings, nil
}
