package model

import "strings"

const (
	CPFLength      = 11
	MaxPhoneLength = 11
)

// DigitsOnly strips everything but ASCII digits. Callers use it to
// normalise typed CPF and phone values before handing them to the ledger.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidCPF reports whether cpf is exactly 11 digits. Check digits are not verified.
func ValidCPF(cpf string) bool {
	return len(cpf) == CPFLength && IsDigits(cpf)
}

// ValidPhone reports whether phone is empty or at most 11 digits.
func ValidPhone(phone string) bool {
	return phone == "" || (len(phone) <= MaxPhoneLength && IsDigits(phone))
}
