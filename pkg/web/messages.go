package web

import "github.com/go-playground/validator/v10"

// GetErrorMsg maps the first binding validation error to a short
// user-facing message.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " is required"
	case "email":
		return field.Field() + " must be a valid email address"
	case "alphanum":
		return field.Field() + " must contain only letters and numbers"
	case "min":
		return field.Field() + " must be at least " + field.Param()
	case "max":
		return field.Field() + " must be at most " + field.Param()
	case "accnumber":
		return field.Field() + " must be a 16-digit account number"
	case "oneof":
		return field.Field() + " must be one of: " + field.Param()
	}

	return field.Field() + " is invalid"
}
