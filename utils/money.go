package utils

import (
	"strconv"
	"strings"
)

// FormatINR formats an amount in rupees as a string like "₹12,34,567".
// Uses Indian digit grouping: the last three digits, then groups of two.
// Fractions are dropped (prices are whole rupees).
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatInt(int64(amount+0.5), 10)
	if len(s) <= 3 {
		if neg {
			return "-₹" + s
		}
		return "₹" + s
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + symbol
	b.Grow(len(s) + len(s)/2 + 4)
	if neg {
		b.WriteString("-₹")
	} else {
		b.WriteString("₹")
	}

	// Head digits before the trailing "NN,NNN" tail.
	head := s[:len(s)-3]
	rem := len(head) % 2
	if rem == 0 {
		rem = 2
	}
	b.WriteString(head[:rem])
	for i := rem; i < len(head); i += 2 {
		b.WriteByte(',')
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(s[len(s)-3:])

	return b.String()
}
