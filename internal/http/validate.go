package http

import (
	"strings"
	"unicode"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

func validateUserName(userName string) (string, bool) {
	if len(userName) < 5 {
		return "User Name must be atleast 5 characters long", false
	}
	return "", true
}

func validatePassword(password string) (string, bool) {
	if len(password) < 8 || !strings.ContainsAny(password, specialChars) {
		return "Password must be atleast 8 characters long with atleast one special character", false
	}
	return "", true
}

func validateFullName(fullName string) (string, bool) {
	if len(fullName) < 3 || len(fullName) > 30 || strings.ContainsAny(fullName, specialChars) {
		return "Full Name should be less than 30 characters without special characters", false
	}
	return "", true
}

// validatePhone acepta vacío; el campo es opcional.
func validatePhone(phone string) (string, bool) {
	if phone == "" {
		return "", true
	}
	if len(phone) != 10 || !allDigits(phone) {
		return "Phone Number must be 10 digits", false
	}
	return "", true
}

func isFourDigits(s string) bool {
	return len(s) == 4 && allDigits(s)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
