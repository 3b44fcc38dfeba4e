package render

import (
	"fmt"
	"strings"
)

// EscapeCSSString escapes text for use inside a single-quoted CSS string.
// Quotes and backslashes are backslash-escaped; control characters and
// angle brackets become hex escapes so the value cannot end the string or
// an enclosing <style> element.
func EscapeCSSString(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\\' || r == '\'' || r == '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f || r == '<' || r == '>':
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fontStack builds a font-family value: every family quoted, followed by
// the generic sans-serif fallback.
func fontStack(families ...string) string {
	parts := make([]string, 0, len(families)+1)
	for _, f := range families {
		parts = append(parts, "'"+EscapeCSSString(f)+"'")
	}
	parts = append(parts, "sans-serif")
	return strings.Join(parts, ", ")
}
