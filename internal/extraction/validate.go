package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports why an extracted data object was rejected.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("extracted data rejected:\n")
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, v))
	}
	return sb.String()
}

var missionDatePattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)

// Forbidden-content patterns. Anonymization is mandatory: an object still
// carrying an email address, phone number or personal link is invalid.
var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+33|0033|0)[1-9]([ .\-]?\d{2}){4}|\+\d{8,14}`)
	linkPattern  = regexp.MustCompile(`(?i)(https?://|www\.|linkedin\.com/|github\.com/)\S*`)
)

// NewValidator builds the struct validator with the domain's custom rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("trigram", func(fl validator.FieldLevel) bool {
		return TrigramPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("missiondate", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == CurrentMissionMarker || missionDatePattern.MatchString(value)
	})
	return v
}

// Validate checks an extracted data object: struct-level rules first, then a
// forbidden-content scan over every string field. A non-nil error is always
// a *ValidationError and is fatal for the enclosing CV-processing operation.
func Validate(v *validator.Validate, cv *ExtractedCV) error {
	var violations []string

	if err := v.Struct(cv); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				violations = append(violations, fmt.Sprintf("%s: failed %q rule", fe.Namespace(), fe.Tag()))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	violations = append(violations, scanForbidden(cv)...)

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrs
	}
	return ok
}

// scanForbidden flattens the object to JSON and scans the text for PII
// markers. Scanning the serialized form covers every string field without
// per-field bookkeeping.
func scanForbidden(cv *ExtractedCV) []string {
	data, err := json.Marshal(cv)
	if err != nil {
		return []string{fmt.Sprintf("failed to serialize for PII scan: %v", err)}
	}
	text := string(data)

	var violations []string
	if m := emailPattern.FindString(text); m != "" {
		violations = append(violations, fmt.Sprintf("contains email address %q", m))
	}
	if m := phonePattern.FindString(text); m != "" {
		violations = append(violations, fmt.Sprintf("contains phone number %q", m))
	}
	if m := linkPattern.FindString(text); m != "" {
		violations = append(violations, fmt.Sprintf("contains personal link %q", m))
	}
	return violations
}
