// Package merge reconciles two revisions of a text file so that only
// substantive code changes survive. The left text is the prior revision,
// the right text is the working copy; the result keeps the right side's
// code edits while suppressing comment-only and whitespace-only edits,
// restoring comments the right side deleted.
//
// The pipeline is: normalize both texts into line slices, align them under
// the comment-tolerant equality of the comment package, fold the alignment
// into hunks, then apply a fixed policy per hunk. Deletions inside a hunk
// are only honored when the same hunk also inserts at least one line of
// code; a hunk whose insertions are all comments or blanks is judged
// comment-only and is undone wholesale.
package merge
