package diff

import "fmt"

// Hunk is a contiguous window over an edit script.
//
// OldStart and NewStart are 1-based line numbers of the first line of the
// window on each side. Lines carry their " ", "+" or "-" prefix.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []string
}

// Header renders the "@@ -a,b +c,d @@" line. A side with no lines reports
// the line before the window, which is what patch(1) expects.
func (h Hunk) Header() string {
	oldStart, newStart := h.OldStart, h.NewStart
	if h.OldCount == 0 {
		oldStart--
	}
	if h.NewCount == 0 {
		newStart--
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, h.OldCount, newStart, h.NewCount)
}

// Diff computes the hunks between two line sequences.
func Diff(a, b []string, contextLines int) []Hunk {
	return Hunks(Script(a, b), contextLines)
}

// Hunks groups an edit script into hunks with contextLines of unchanged
// lines around each change. Change regions separated by at most
// 2*contextLines unchanged lines are merged.
func Hunks(script []Op, contextLines int) []Hunk {
	if contextLines < 0 {
		contextLines = 0
	}

	var changes []int
	for i, op := range script {
		if op.Kind != Keep {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return nil
	}

	type region struct{ first, last int }
	regions := []region{{changes[0], changes[0]}}
	for _, idx := range changes[1:] {
		cur := &regions[len(regions)-1]
		if idx-cur.last-1 <= 2*contextLines {
			cur.last = idx
			continue
		}
		regions = append(regions, region{idx, idx})
	}

	hunks := make([]Hunk, 0, len(regions))
	for _, r := range regions {
		start := r.first - contextLines
		if start < 0 {
			start = 0
		}
		end := r.last + contextLines
		if end > len(script)-1 {
			end = len(script) - 1
		}
		hunks = append(hunks, buildHunk(script, start, end))
	}
	return hunks
}

func buildHunk(script []Op, start, end int) Hunk {
	oldLine, newLine := 1, 1
	for _, op := range script[:start] {
		if op.Kind != Insert {
			oldLine++
		}
		if op.Kind != Delete {
			newLine++
		}
	}

	h := Hunk{OldStart: oldLine, NewStart: newLine}
	for _, op := range script[start : end+1] {
		switch op.Kind {
		case Keep:
			h.OldCount++
			h.NewCount++
		case Delete:
			h.OldCount++
		case Insert:
			h.NewCount++
		}
		h.Lines = append(h.Lines, op.Kind.prefix()+op.Line)
	}
	return h
}
