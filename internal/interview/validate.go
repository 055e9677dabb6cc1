package interview

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// IsValidEmail reports whether s looks like localpart@domain.tld. This is a
// syntax check only, no MX lookups.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s contains 10 to 15 digits once all other
// characters are stripped.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(StripNonDigits(s))
}

// StripNonDigits removes everything but ASCII digits from s.
func StripNonDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
