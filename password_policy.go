package accounts

import (
	"errors"
	"strings"
)

// MinPasswordLength is the minimum accepted password length
var MinPasswordLength = 8

// commonPasswords is a short denylist of passwords seen in every breach
// corpus. Entries are matched case insensitively.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"letmein1":    {},
	"iloveyou1":   {},
	"sunshine1":   {},
	"welcome1":    {},
	"admin123":    {},
	"abc12345":    {},
	"trustno1":    {},
}

// ValidatePasswordStrength applies the password policy rules in order:
// similarity to the username/email, minimum length, common password
// denylist, and all-numeric. The first failing rule is returned; callers
// surface at most one strength message.
func ValidatePasswordStrength(password, username, email string) error {
	lowered := strings.ToLower(password)

	if attr := similarAttribute(lowered, username, email); attr != "" {
		return errors.New("The password is too similar to the " + attr + ".")
	}

	if len(password) < MinPasswordLength {
		return errors.New("This password is too short. It must contain at least 8 characters.")
	}

	if _, ok := commonPasswords[lowered]; ok {
		return errors.New("This password is too common.")
	}

	if isEntirelyNumeric(password) {
		return errors.New("This password is entirely numeric.")
	}

	return nil
}

// similarAttribute returns the name of the first user attribute the password
// is too close to, or the empty string. The check is containment either way,
// using the email's local part as well as the full address. Strings shorter
// than three characters never trigger it.
func similarAttribute(lowered, username, email string) string {
	if overlaps(lowered, strings.ToLower(username)) {
		return "username"
	}

	e := strings.ToLower(email)
	local := e
	if at := strings.IndexByte(e, '@'); at > 0 {
		local = e[:at]
	}

	if overlaps(lowered, e) || overlaps(lowered, local) {
		return "email address"
	}

	return ""
}

func overlaps(password, attr string) bool {
	if len(password) < 3 || len(attr) < 3 {
		return false
	}
	return strings.Contains(password, attr) || strings.Contains(attr, password)
}

func isEntirelyNumeric(password string) bool {
	if password == "" {
		return false
	}
	for _, r := range password {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
