package diff

import "strings"

// Unified renders the unified diff between a and b for path. The header uses
// the git-style "a/" and "b/" prefixes. It returns "" when a and b are equal.
func Unified(path string, a, b []string, contextLines int) string {
	return Format(path, Diff(a, b, contextLines))
}

// Format renders already computed hunks as unified diff text.
func Format(path string, hunks []Hunk) string {
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- a/" + path + "\n")
	sb.WriteString("+++ b/" + path + "\n")
	for _, h := range hunks {
		sb.WriteString(h.Header())
		sb.WriteByte('\n')
		for _, line := range h.Lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// UnifiedText is Unified over raw text split with SplitLines.
func UnifiedText(path, oldText, newText string, contextLines int) string {
	return Unified(path, SplitLines(oldText), SplitLines(newText), contextLines)
}
