package notify

import "strings"

// SanitizePhone keeps digits only and rewrites Argentine trunk-prefixed
// numbers (0xxxx) to the mobile international form (549xxxx). The result
// is E.164 with a leading '+', or "" when nothing usable is left.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) > 1 && digits[0] == '0' {
		digits = "549" + digits[1:]
	}
	if digits == "" {
		return ""
	}
	return "+" + digits
}
