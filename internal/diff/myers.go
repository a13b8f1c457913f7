// Package diff computes line-based edit scripts and unified diffs.
//
// The edit script is the shortest one found by Myers' O((N+M)·D) algorithm.
// Among equally short scripts it picks the one the reference Myers
// formulation picks, which is not always the one GNU diff prints.
package diff

import "strings"

// OpKind tags a single edit operation.
type OpKind int

const (
	Keep OpKind = iota
	Insert
	Delete
)

func (k OpKind) String() string {
	switch k {
	case Keep:
		return "keep"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// prefix is the marker used for the kind in unified output.
func (k OpKind) prefix() string {
	switch k {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Op is one step of an edit script.
type Op struct {
	Kind OpKind
	Line string
}

// SplitLines splits text on "\n". A trailing separator produces a final
// empty element, which is kept.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Script returns the shortest edit script turning a into b.
func Script(a, b []string) []Op {
	trace := frontiers(a, b)
	return backtrack(a, b, trace)
}

// frontiers runs the forward pass and returns a snapshot of the furthest
// reaching x per diagonal, taken at the start of every edit distance d.
func frontiers(a, b []string) [][]int {
	n, m := len(a), len(b)
	max := n + m
	offset := max + 1
	v := make([]int, 2*max+3)

	var trace [][]int
	for d := 0; d <= max; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				return trace
			}
		}
	}
	return trace
}

func backtrack(a, b []string, trace [][]int) []Op {
	x, y := len(a), len(b)
	offset := len(a) + len(b) + 1
	ops := make([]Op, 0, x+y)

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			ops = append(ops, Op{Kind: Keep, Line: a[x-1]})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				ops = append(ops, Op{Kind: Insert, Line: b[y-1]})
			} else {
				ops = append(ops, Op{Kind: Delete, Line: a[x-1]})
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// Stats counts the inserted and deleted lines of a script.
func Stats(script []Op) (inserted, deleted int) {
	for _, op := range script {
		switch op.Kind {
		case Insert:
			inserted++
		case Delete:
			deleted++
		}
	}
	return inserted, deleted
}
