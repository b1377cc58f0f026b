package merge_test

import (
	"strings"
	"testing"
	"testing/quick"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"

	"codecarve/internal/merge"
)

func assertText(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("text mismatch (want vs got):\n%s", diff.LineDiff(want, got))
	}
}

func TestKeepCodeNoOp(t *testing.T) {
	// Merging any text with itself must reproduce it exactly, comments,
	// whitespace and trailing-newline convention included.
	texts := []string{
		"",
		"code1\ncode2\n",
		"code1\ncode2",
		"// comment\ncode // inline\n\ncode2\n",
		"\n",
		"# only a comment\n",
	}
	for _, text := range texts {
		assertText(t, merge.Merger{}.KeepCode(text, text), text)
	}
	f := func(text string) bool {
		return merge.Merger{}.KeepCode(text, text) == text
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestKeepCodeRestoresDeletedComment(t *testing.T) {
	left := "code1\n// comment\ncode2\n"
	right := "code1\ncode2\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), left)
}

func TestKeepCodeRestoresDeletedCodeWithoutCodeInsertion(t *testing.T) {
	// Deletions are only honored when the same hunk inserts code, so a
	// deletion accompanied by nothing, or only by comments, is undone.
	left := "code1\ncode2\ncode3\n"
	right := "code1\ncode3\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), left)

	right = "code1\n// replacement note\ncode3\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), left)
}

func TestKeepCodeHonorsCodeReplacement(t *testing.T) {
	left := "code1\n// comment\ncode2\n"
	right := "code1\ncode3\n"
	// code3 replaces code2; the comment deletion in the same hunk is not
	// honored, the comment survives.
	assertText(t, merge.Merger{}.KeepCode(left, right), "code1\n// comment\ncode3\n")
}

func TestKeepCodeSuppressesNewComments(t *testing.T) {
	left := "a\n"
	right := "a\n// comment\ncode\n# note\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), "a\ncode\n")
}

func TestKeepCodeStripsNewInlineComment(t *testing.T) {
	left := "const x = 1\n"
	right := "const x = 1 // now documented\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), left)

	// Without preceding whitespace the marker is part of the code, so the
	// line is a real change.
	right = "const x = 1// not a comment\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), right)
}

func TestKeepCodeKeepsExistingInlineComment(t *testing.T) {
	left := "const x = 1 // why\ncode\n"
	right := "const x = 1 // why\ncode\nmore\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), "const x = 1 // why\ncode\nmore\n")
}

func TestKeepCodeDropsChangedInlineComment(t *testing.T) {
	left := "const x = 1 // old\ncode\n"
	right := "const x = 1 // new\ncode\n"
	// The code matches, the comments disagree: the code survives bare.
	assertText(t, merge.Merger{}.KeepCode(left, right), "const x = 1\ncode\n")
}

func TestKeepCodeQuoteAwareness(t *testing.T) {
	left := "a\n"
	right := "a\nu := \"https://example.com\"\nc := \"#ff0000\"\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), right)
}

func TestKeepCodeTrailingNewline(t *testing.T) {
	t.Run("left convention wins", func(t *testing.T) {
		left := "a\nb"
		right := "a\nb\n// new comment\n"
		assertText(t, merge.Merger{}.KeepCode(left, right), "a\nb")
	})
	t.Run("right convention when left is absent", func(t *testing.T) {
		assertText(t, merge.Merger{}.KeepCode("", "code"), "code")
		assertText(t, merge.Merger{}.KeepCode("", "code\n"), "code\n")
	})
	t.Run("reduced to nothing means empty string", func(t *testing.T) {
		left := "code\n"
		right := ""
		// The deletion is undone (no code inserted), so this does not
		// actually reduce to nothing...
		assertText(t, merge.Merger{}.KeepCode(left, right), left)
		// ...but an absent left with an all-comment right does.
		assertText(t, merge.Merger{}.KeepCode("", "// only\n# comments\n"), "")
	})
}

func TestKeepCodePreservesBlankInsertions(t *testing.T) {
	left := "a\n"
	right := "a\n\n// about f\nf()\n"
	assertText(t, merge.Merger{}.KeepCode(left, right), "a\n\nf()\n")

	strict := merge.Merger{Policy: merge.DropBlanks}
	assertText(t, strict.KeepCode(left, right), "a\nf()\n")
}

func TestFilterNew(t *testing.T) {
	text := "// header\npackage x\n\nfunc f() {} // inline\n# trailer\n"
	assert.Equal(t, "package x\n\nfunc f() {}\n", merge.Merger{}.FilterNew(text))
	strict := merge.Merger{Policy: merge.DropBlanks}
	assert.Equal(t, "package x\nfunc f() {}\n", strict.FilterNew(text))

	// A file with no code at all filters to nothing, blanks included,
	// under either policy.
	assert.Equal(t, "", merge.Merger{}.FilterNew("// nothing\n\n# here\n"))
	assert.Equal(t, "", merge.Merger{Policy: merge.DropBlanks}.FilterNew("// nothing\n\n# here\n"))
	assert.Equal(t, "", merge.Merger{}.FilterNew("\t\n\n"))
	assert.Equal(t, "code", merge.Merger{}.FilterNew("code"))
}

// The filter applied to a brand-new file and the insertion filter inside a
// hunk are the same policy: merging with an absent left must agree with
// FilterNew on any input, a file with no code reducing to nothing either
// way.
func TestFilterMatchesAbsentLeftMerge(t *testing.T) {
	for _, m := range []merge.Merger{{}, {Policy: merge.DropBlanks}} {
		f := func(picks []uint8) bool {
			text := vocabText(picks)
			return m.KeepCode("", text) == m.FilterNew(text)
		}
		if err := quick.Check(f, nil); err != nil {
			t.Error(err)
		}
	}
}

func TestKeepCodeIdempotentOnRealisticEdits(t *testing.T) {
	cases := []struct{ left, right string }{
		{"code1\n// comment\ncode2\n", "code1\ncode2\n"},
		{"code1\n// comment\ncode2\n", "code1\ncode3\n"},
		{"code1\ncode2\ncode3\n", "code1\n// replacement note\ncode3\n"},
		{"a\n", "a\n// comment\ncode\n# note\n"},
		{"a\n", "a\n\n// about f\nf()\n"},
		{"const x = 1 // old\ncode\n", "const x = 1 // new\ncode\n"},
		{"", "// header\ncode\n"},
	}
	for _, c := range cases {
		m := merge.Merger{}
		once := m.KeepCode(c.left, c.right)
		assertText(t, m.KeepCode(c.left, once), once)
	}
}

func TestKeepCodeConvergence(t *testing.T) {
	// A hunk that both drops code and restores a blank does not settle in
	// a single pass: the restored blank anchors the next alignment as an
	// equal line, splitting the old hunk, and the code deletion, now in a
	// hunk of its own with no insertion to justify it, is undone. One more
	// pass reaches the fixed point.
	m := merge.Merger{}
	left := "x := f() // inline\n\n"
	once := m.KeepCode(left, "code1\n")
	assertText(t, once, "\ncode1\n")
	twice := m.KeepCode(left, once)
	assertText(t, twice, "x := f() // inline\n\ncode1\n")
	assertText(t, m.KeepCode(left, twice), twice)
}

// Repeated merging with the same left always reaches a fixed point: each
// pass only restores more left lines or leaves the text alone, so a pass
// per line is a safe bound.
func TestKeepCodeConverges(t *testing.T) {
	f := func(leftPicks, rightPicks []uint8) bool {
		m := merge.Merger{}
		left := vocabText(leftPicks)
		text := vocabText(rightPicks)
		for i := 0; i < len(leftPicks)+len(rightPicks)+2; i++ {
			next := m.KeepCode(left, text)
			if next == text {
				return true
			}
			text = next
		}
		return false
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// vocabText builds a text from a fixed vocabulary of realistic lines, so
// property tests explore merges of plausible files rather than line noise.
func vocabText(picks []uint8) string {
	vocab := []string{
		"code1",
		"code2",
		"x := f() // inline",
		"",
		"// a comment",
		"# a note",
		"\t",
		"u := \"https://example.com\"",
	}
	if len(picks) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range picks {
		b.WriteString(vocab[int(p)%len(vocab)])
		b.WriteString("\n")
	}
	return b.String()
}
