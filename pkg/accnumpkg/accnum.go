// Package accnumpkg provides common account number functionality for apps.
package accnumpkg

// Length is the fixed length of an account number.
const Length = 16

// IsValidAccountNumber returns true if the number is exactly 16 decimal digits.
func IsValidAccountNumber(number string) bool {
	if len(number) != Length {
		return false
	}

	for i := 0; i < len(number); i++ {
		if number[i] < '0' || number[i] > '9' {
			return false
		}
	}

	return true
}

// Format groups the number for display: XXXX-XXXX-XXXX-XXXX.
func Format(number string) string {
	if !IsValidAccountNumber(number) {
		return number
	}

	return number[0:4] + "-" + number[4:8] + "-" + number[8:12] + "-" + number[12:16]
}

// Mask hides the middle digits: XXXX-****-****-XXXX.
func Mask(number string) string {
	if !IsValidAccountNumber(number) {
		return number
	}

	return number[0:4] + "-****-****-" + number[12:16]
}
