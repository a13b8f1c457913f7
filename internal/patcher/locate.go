package patcher

import (
	"fmt"
	"strings"
)

// hunk is one parsed hunk whose position in the source has been located.
type hunk struct {
	oldStart int // 1-based
	lines    []string
}

// normalize collapses all whitespace runs to a single space and trims the
// ends, so indentation and spacing differences do not affect matching.
func normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// anchor returns the old-side lines of a hunk that must exist in the source,
// skipping blank ones.
func anchor(lines []string) []string {
	var block []string
	for _, line := range lines {
		if strings.HasPrefix(line, "+") || isBlank(line[1:]) {
			continue
		}
		block = append(block, line[1:])
	}
	return block
}

// find returns the 1-based source line at which block starts, or -1. Blank
// source lines are ignored and lines are compared after normalize.
func find(source, block []string) int {
	if len(block) == 0 {
		return -1
	}

	var text []string
	var numbers []int
	for i, line := range source {
		if isBlank(line) {
			continue
		}
		text = append(text, normalize(line))
		numbers = append(numbers, i+1)
	}

next:
	for i := 0; i+len(block) <= len(text); i++ {
		for j, want := range block {
			if text[i+j] != normalize(want) {
				continue next
			}
		}
		return numbers[i]
	}
	return -1
}

// splitHunks groups the body lines of a diff by "@@" header. File headers
// and anything that is not a hunk line are dropped.
func splitHunks(diffLines []string) [][]string {
	var hunks [][]string
	var current []string
	for _, line := range diffLines {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "@@"):
			if len(current) > 0 {
				hunks = append(hunks, current)
			}
			current = nil
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"), strings.HasPrefix(line, " "):
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		hunks = append(hunks, current)
	}
	return hunks
}

// locateHunks finds where each hunk of rawDiff applies in source, ignoring
// the line numbers the diff claims. Hunks are searched in order, each after
// the previous match. A hunk with nothing to match (pure additions) is
// placed where the previous one ended.
func locateHunks(source []string, rawDiff string) ([]hunk, error) {
	var hunks []hunk
	cursor := 0
	for i, lines := range splitHunks(strings.Split(rawDiff, "\n")) {
		oldStart := cursor + 1
		if block := anchor(lines); len(block) > 0 {
			found := find(source[cursor:], block)
			if found == -1 {
				return nil, fmt.Errorf("could not find the context of hunk %d", i+1)
			}
			oldStart = cursor + found
			cursor = oldStart
		}
		hunks = append(hunks, hunk{oldStart: oldStart, lines: lines})
	}
	return hunks, nil
}
