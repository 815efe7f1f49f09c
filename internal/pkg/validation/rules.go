package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`

	// Name validation min/max length (company and role names)
	NameMinLength = 2
	NameMaxLength = 50

	// Difficulty rating bounds
	RatingMin = 1
	RatingMax = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation checks a single string field. Lengths are counted in characters.
type StringValidation struct {
	Field    string
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
	OneOf    []string
}

// NewStringValidation creates a new required string validation for field
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// WithOneOf restricts the value to the given set
func (v *StringValidation) WithOneOf(values ...string) *StringValidation {
	v.OneOf = values
	return v
}

// Check returns a message describing the first failed rule, or "" if valid
func (v *StringValidation) Check() string {
	if v.Value == "" {
		if v.Required {
			return v.Field + " is required"
		}
		return ""
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return fmt.Sprintf("%s must be at least %d characters", v.Field, v.MinLen)
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", v.Field, v.MaxLen)
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return v.Field + " has an invalid format"
	}
	if len(v.OneOf) > 0 {
		for _, allowed := range v.OneOf {
			if v.Value == allowed {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %v", v.Field, v.OneOf)
	}
	return ""
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	return v.Check() == ""
}

// NumericValidation checks an integer field against an inclusive range
type NumericValidation struct {
	Field string
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(field string, value int) *NumericValidation {
	return &NumericValidation{Field: field, Value: value}
}

// WithRange sets the inclusive bounds
func (v *NumericValidation) WithRange(min, max int) *NumericValidation {
	v.Min = min
	v.Max = max
	return v
}

// Check returns a message when Value lies outside [Min, Max]
func (v *NumericValidation) Check() string {
	if v.Value < v.Min || v.Value > v.Max {
		return fmt.Sprintf("%s must be between %d and %d", v.Field, v.Min, v.Max)
	}
	return ""
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	return v.Check() == ""
}

// Collector accumulates field failures into a ValidationError
type Collector struct {
	errs *apperrors.ValidationError
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{errs: apperrors.NewValidationError()}
}

// String runs a string rule and records its failure under key
func (c *Collector) String(key string, v *StringValidation) {
	if msg := v.Check(); msg != "" {
		c.errs.Add(key, msg)
	}
}

// Number runs a numeric rule and records its failure under key
func (c *Collector) Number(key string, v *NumericValidation) {
	if msg := v.Check(); msg != "" {
		c.errs.Add(key, msg)
	}
}

// Fail records msg under key unconditionally
func (c *Collector) Fail(key, msg string) {
	c.errs.Add(key, msg)
}

// Err returns the collected ValidationError, or nil when nothing failed
func (c *Collector) Err() error {
	return c.errs.OrNil()
}
