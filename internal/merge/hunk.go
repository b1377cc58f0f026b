package merge

import (
	"strings"

	"codecarve/internal/align"
	"codecarve/internal/comment"
)

// A hunk is a maximal run of non-equal alignment edits, split into the
// lines deleted from the left and the lines inserted from the right.
// Deletions are always considered before insertions, whatever order the
// aligner produced them in.
type hunk struct {
	deleted  []string
	inserted []string
}

func (h *hunk) empty() bool {
	return len(h.deleted) == 0 && len(h.inserted) == 0
}

// reconcile folds the edit sequence into output lines: equal edits pick a
// surviving form of the matched pair, runs of delete/insert edits are
// gathered into hunks and emitted through the hunk policy.
func (m Merger) reconcile(edits []align.Edit, left, right []string) []string {
	var out []string
	var h hunk
	flush := func() {
		if !h.empty() {
			out = append(out, m.emit(h)...)
			h = hunk{}
		}
	}
	for _, e := range edits {
		switch e.Op {
		case align.Equal:
			flush()
			out = append(out, survivor(left[e.Left], right[e.Right]))
		case align.Delete:
			h.deleted = append(h.deleted, left[e.Left])
		case align.Insert:
			h.inserted = append(h.inserted, right[e.Right])
		}
	}
	flush()
	return out
}

// survivor picks the text for a pair of lines matched as equal. When the
// two lines are identical up to trailing whitespace the left one survives
// verbatim, keeping a pre-existing comment exactly as it was. Otherwise
// the lines match only through their code, so the code survives and the
// comment, old or new, goes.
func survivor(left, right string) string {
	if strings.TrimRight(left, " \t") == strings.TrimRight(right, " \t") {
		return left
	}
	return comment.StripInline(left)
}

// emit applies the hunk policy. A hunk whose insertions contain no code is
// a comment-only edit: it is undone, restoring every deleted line and
// dropping every inserted one. A hunk that inserts code is a real change:
// deleted code stays deleted, deleted comments and blanks are restored,
// and the inserted lines are filtered down to their code.
func (m Merger) emit(h hunk) []string {
	if !anyCode(h.inserted) {
		return h.deleted
	}
	var out []string
	for _, line := range h.deleted {
		if comment.IsCommentOrBlank(line) {
			out = append(out, line)
		}
	}
	return append(out, m.filterInserted(h.inserted)...)
}

// filterInserted keeps the code in a run of inserted lines: full-line
// comments vanish without leaving a placeholder, blanks follow the Policy,
// code loses any inline comment. Shared between the in-hunk path and
// FilterNew so the two cannot drift apart.
func (m Merger) filterInserted(lines []string) []string {
	var out []string
	for _, line := range lines {
		if comment.IsCommentOrBlank(line) {
			if m.Policy == PreserveBlanks && strings.TrimRight(line, " \t") == "" {
				out = append(out, line)
			}
			continue
		}
		out = append(out, comment.StripInline(line))
	}
	return out
}

func anyCode(lines []string) bool {
	for _, line := range lines {
		if !comment.IsCommentOrBlank(line) {
			return true
		}
	}
	return false
}
