package auth

import (
	"github.com/bobinette/inkwell/errors"
)

// Username rules: han characters, latin letters, digits, underscore,
// dot and dash; width between 4 and 30 where a han character counts
// for two.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username cannot be empty", errors.BadRequest())
	}

	width := 0
	for _, r := range username {
		switch {
		case isHan(r):
			width += 2
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			width++
		default:
			return errors.New(
				"username may only contain han characters, letters, digits, underscores, dots and dashes",
				errors.BadRequest(),
			)
		}
	}

	if width < 4 || width > 30 {
		return errors.New("username must be 4 to 30 characters wide (a han character counts for two)", errors.BadRequest())
	}

	return nil
}

// Password rules: 7 to 16 characters, not all digits.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password cannot be empty", errors.BadRequest())
	}

	if len(password) < 7 || len(password) > 16 {
		return errors.New("password must be 7 to 16 characters long", errors.BadRequest())
	}

	allDigits := true
	for _, r := range password {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return errors.New("password cannot be all digits", errors.BadRequest())
	}

	return nil
}

func isHan(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fa5
}
