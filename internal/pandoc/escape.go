// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import "strings"

// EscapeLaTeX makes text safe to embed in a LaTeX argument. The characters
// & % $ # _ { } ~ ^ \ get a leading backslash, newlines become a \\ line
// break, and < > are wrapped in braces. The input is scanned once, so
// backslashes inserted here are never escaped again.
func EscapeLaTeX(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch r {
		case '&', '%', '$', '#', '_', '{', '}', '~', '^', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\\`)
		case '<', '>':
			b.WriteByte('{')
			b.WriteRune(r)
			b.WriteByte('}')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// shellQuote wraps s in double quotes for a POSIX shell, escaping the four
// characters that stay special inside double quotes.
func shellQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
