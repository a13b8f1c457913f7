// Package patcher applies loosely formed unified diffs, such as the ones a
// language model writes, to file content. Hunk positions are recovered by
// searching for each hunk's context rather than trusting its header.
package patcher

import (
	"fmt"
	"regexp"
	"strings"
)

// filePathRegex extracts the file path from a '+++ b/...' line.
var filePathRegex = regexp.MustCompile(`(?m)^\+\+\+ b/(?P<path>.*?)(\s|$)`)

// ExtractPathFromDiff finds the file path in a raw diff string.
func ExtractPathFromDiff(content string) string {
	match := filePathRegex.FindStringSubmatch(content)
	if len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return ""
}

// Apply applies rawDiff to source and returns the patched text. Context
// and removed lines are matched with whitespace normalized, and the
// unchanged lines in the result are always the source's own.
func Apply(source, rawDiff string) (string, error) {
	src := strings.Split(source, "\n")
	hunks, err := locateHunks(src, rawDiff)
	if err != nil {
		return "", err
	}
	if len(hunks) == 0 {
		return "", fmt.Errorf("no hunks found in diff")
	}

	var out []string
	cursor := 0
	for i, h := range hunks {
		start := max(h.oldStart-1, cursor)
		for n := leadingBlankOld(h.lines); n > 0 && start > cursor && isBlank(src[start-1]); n-- {
			start--
		}
		if start > len(src) {
			return "", fmt.Errorf("hunk %d starts past the end of the file", i+1)
		}
		patched, end, err := applyHunk(src, start, h.lines)
		if err != nil {
			return "", fmt.Errorf("hunk %d does not apply: %w", i+1, err)
		}

		out = append(out, src[cursor:start]...)
		out = append(out, patched...)
		cursor = end
	}
	out = append(out, src[cursor:]...)
	return strings.Join(out, "\n"), nil
}

// leadingBlankOld counts the blank old-side lines before the first line
// find anchors on.
func leadingBlankOld(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "+") {
			continue
		}
		if !isBlank(line[1:]) {
			break
		}
		n++
	}
	return n
}

// applyHunk walks one hunk over src from start. It returns the lines that
// replace the covered region and the index just past it. Context lines are
// copied from src, and blank source lines the hunk does not mention are
// kept. A blank line present only in the hunk is ignored.
func applyHunk(src []string, start int, lines []string) ([]string, int, error) {
	var out []string
	pos := start
	for _, line := range lines {
		if strings.HasPrefix(line, "+") {
			out = append(out, line[1:])
			continue
		}
		keep := strings.HasPrefix(line, " ")
		want := normalize(line[1:])
		if want != "" {
			for pos < len(src) && isBlank(src[pos]) {
				out = append(out, src[pos])
				pos++
			}
		}
		if pos < len(src) && normalize(src[pos]) == want {
			if keep {
				out = append(out, src[pos])
			}
			pos++
			continue
		}
		if want == "" {
			continue
		}
		return nil, 0, fmt.Errorf("expected %q at line %d", line[1:], pos+1)
	}
	return out, pos, nil
}
