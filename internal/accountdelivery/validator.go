package accountdelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-vault/vault-bank/pkg/accnumpkg"
)

// ValidAccountNumber validates whether the value is a 16-digit account number.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	if number, ok := fl.Field().Interface().(string); ok {
		return accnumpkg.IsValidAccountNumber(number)
	}
	return false
}
