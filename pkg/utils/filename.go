package utils

import (
	"fmt"
	"strings"
)

// illegalChars are replaced in file name components. They cover the path
// separators and every character Windows rejects in a file name.
const illegalChars = `:/\*?"<>|`

// SanitizeFilename builds the base name of a batch document:
//
//	{customer}_{date}_batch{seq}
//
// Illegal characters become "-" and spaces become "_". The extension is
// added by the sink.
func SanitizeFilename(customer, orderDate string, seq int) string {
	return fmt.Sprintf("%s_%s_batch%d", sanitizeComponent(customer), sanitizeComponent(orderDate), seq)
}

func sanitizeComponent(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(illegalChars, r):
			return '-'
		case r == ' ':
			return '_'
		case r < 0x20 || r == 0x7f:
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
}
