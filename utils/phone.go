package utils

import "strings"

// NormalizePhone strips everything but digits from a phone number.
// "+91 98765-43210" becomes "919876543210".
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
