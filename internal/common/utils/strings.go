package utils

import "unicode/utf8"

// TruncateBytes は文字の途中で切らないようにして、s を n バイト以内に収めます
func TruncateBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
