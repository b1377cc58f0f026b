package merge

import (
	"strings"

	"codecarve/internal/align"
	"codecarve/internal/comment"
)

// Policy selects what happens to inserted blank lines, both inside hunks
// and when filtering a brand-new file. Full-line comments are dropped
// either way; the two policies only disagree about blanks.
type Policy int

const (
	// PreserveBlanks keeps inserted blank lines, so the spacing structure
	// of new code survives filtering.
	PreserveBlanks Policy = iota
	// DropBlanks drops every inserted comment-or-blank line, blanks
	// included.
	DropBlanks
)

// Merger merges file revisions under a fixed Policy. The zero value uses
// PreserveBlanks.
type Merger struct {
	Policy Policy
}

// KeepCode merges leftText (prior revision, may be empty for a file that
// did not exist) with rightText (working copy) and returns the text that
// keeps the right side's code changes only. The trailing-newline
// convention of the left text wins when the left text is non-empty. A
// non-empty input that reduces to no lines at all yields the empty string.
// KeepCode is a pure function of its inputs.
func (m Merger) KeepCode(leftText, rightText string) string {
	leftLines, leftNL := splitLines(leftText)
	rightLines, rightNL := splitLines(rightText)
	edits := align.Lines(leftLines, rightLines, comment.EqualIgnoringComments)
	out := m.reconcile(edits, leftLines, rightLines)
	if len(out) == 0 {
		return ""
	}
	trailingNL := rightNL
	if leftText != "" {
		trailingNL = leftNL
	}
	text := strings.Join(out, "\n")
	if trailingNL {
		text += "\n"
	}
	return text
}

// FilterNew applies the single-sequence filtering policy to the content of
// a file that exists only in the working copy: comment lines are dropped,
// blanks follow the Policy, code lines keep only their code. A file with
// no code at all filters to the empty string, the same judgment the hunk
// path passes on a comment-only insertion. The input's own
// trailing-newline convention is preserved.
func (m Merger) FilterNew(rightText string) string {
	lines, trailingNL := splitLines(rightText)
	if !anyCode(lines) {
		return ""
	}
	out := m.filterInserted(lines)
	if len(out) == 0 {
		return ""
	}
	text := strings.Join(out, "\n")
	if trailingNL {
		text += "\n"
	}
	return text
}

// splitLines breaks text into lines without their newlines and records
// whether the text ended with a newline. Joining the lines with "\n" and
// appending one iff trailingNL reproduces text exactly.
func splitLines(text string) (lines []string, trailingNL bool) {
	if text == "" {
		return nil, false
	}
	trailingNL = strings.HasSuffix(text, "\n")
	if trailingNL {
		text = text[:len(text)-1]
	}
	return strings.Split(text, "\n"), trailingNL
}
