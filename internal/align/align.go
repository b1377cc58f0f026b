// Package align computes line alignments between two sequences using a
// longest-common-subsequence table. The equality relation is a parameter,
// which lets callers align under a relation looser than string identity.
package align

// Op is the kind of a single alignment edit.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (op Op) String() string {
	switch op {
	case Equal:
		return "equal"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Edit is one step of an alignment. Left and Right index into the two input
// slices; the side an op does not consume is -1.
type Edit struct {
	Op    Op
	Left  int
	Right int
}

// Lines aligns left and right under eq and returns the edit sequence. Read
// in order, the edits consume every index of both slices exactly once:
// Equal and Delete advance through left, Equal and Insert advance through
// right. Ties in the table are broken toward Delete, so the left side
// drains first wherever the subsequence length does not force a choice.
// Time and space are O(len(left)*len(right)).
func Lines(left, right []string, eq func(a, b string) bool) []Edit {
	n, m := len(left), len(right)

	// lcs[i][j] holds the subsequence length of left[i:] vs right[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if eq(left[i], right[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	edits := make([]Edit, 0, n+m)
	var i, j int
	for i < n && j < m {
		switch {
		case eq(left[i], right[j]):
			edits = append(edits, Edit{Op: Equal, Left: i, Right: j})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, Edit{Op: Delete, Left: i, Right: -1})
			i++
		default:
			edits = append(edits, Edit{Op: Insert, Left: -1, Right: j})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, Edit{Op: Delete, Left: i, Right: -1})
	}
	for ; j < m; j++ {
		edits = append(edits, Edit{Op: Insert, Left: -1, Right: j})
	}
	return edits
}
