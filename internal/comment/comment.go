// Package comment classifies source lines with respect to line comments.
// Recognized markers are "//" and "#"; there is no support for block
// comments. A marker only starts a comment when it is at the start of the
// line or immediately preceded by whitespace, so things like "x=1//y" or a
// bare URL are not mistaken for comments.
package comment

import "strings"

// IsCommentOrBlank reports whether a line carries no code at all: it is
// empty, whitespace-only, or a full-line comment.
func IsCommentOrBlank(line string) bool {
	s := strings.TrimLeft(line, " \t")
	if s == "" {
		return true
	}
	return strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#")
}

// StripInline removes a trailing inline comment from a line of code,
// together with the whitespace that precedes it. Comment markers inside
// single-, double-, or backtick-quoted strings are ignored, which keeps
// URLs ("https://...") and color literals ("#ff0000") intact. A quote
// preceded by an unescaped backslash toggles nothing, opening or closing.
// If the line has no comment it is returned unchanged. An unterminated
// string runs to the end of the line, so no comment can start after it.
func StripInline(line string) string {
	inString := false
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			if c == quote && !escaped(line, i) {
				inString = false
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			if !escaped(line, i) {
				inString = true
				quote = c
			}
		case '/':
			if i+1 < len(line) && line[i+1] == '/' && startsComment(line, i) {
				return strings.TrimRight(line[:i], " \t")
			}
		case '#':
			if startsComment(line, i) {
				return strings.TrimRight(line[:i], " \t")
			}
		}
	}
	return line
}

// EqualIgnoringComments reports whether two lines carry the same code,
// allowing their comments and trailing whitespace to differ. When neither
// line carries any code, the comparison falls back to the original lines
// (minus trailing whitespace), so that two different comment lines never
// compare equal.
func EqualIgnoringComments(a, b string) bool {
	sa := strings.TrimRight(StripInline(a), " \t")
	sb := strings.TrimRight(StripInline(b), " \t")
	if sa == "" && sb == "" {
		return strings.TrimRight(a, " \t") == strings.TrimRight(b, " \t")
	}
	return sa == sb
}

// A marker at index i starts a comment only at the start of the line or
// right after whitespace.
func startsComment(line string, i int) bool {
	return i == 0 || line[i-1] == ' ' || line[i-1] == '\t'
}

// A quote at index i is escaped if preceded by an odd number of
// backslashes.
func escaped(line string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
