package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts binding errors into a VAL_001 detail whose
// details hold a field -> message map. Non-validator errors (malformed JSON)
// become a single "body" entry.
func HandleValidationError(err error) *ErrorDetail {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[jsonFieldName(fe)] = FormatFieldError(fe)
		}
	} else {
		fields["body"] = "request body is malformed"
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
	if len(fields) == 1 {
		for f := range fields {
			detail.WithField(f)
		}
	}
	return detail
}

// FormatFieldError renders one validator error as a sentence
func FormatFieldError(e validator.FieldError) string {
	name := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return name + " must be at least " + e.Param()
	case "max":
		return name + " must be at most " + e.Param()
	case "email":
		return name + " must be a valid email address"
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "uuid":
		return name + " must be a valid id"
	default:
		return name + " validation failed: " + e.Tag()
	}
}

// jsonFieldName lowercases the first letter of the struct field, which is how
// request DTO json tags are spelled.
func jsonFieldName(e validator.FieldError) string {
	f := e.Field()
	if f == "" {
		return f
	}
	return strings.ToLower(f[:1]) + f[1:]
}
