package utils

// MaskSecret keeps the first four characters of s for log correlation.
// Short secrets are fully masked; an empty secret stays empty.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "*****"
	default:
		return s[:4] + "*****"
	}
}
