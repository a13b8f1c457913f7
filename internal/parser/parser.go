package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rytswd/slow/internal/patcher"
)

// SelectContent picks the code block holding the proposed content for
// target out of a markdown answer. A block whose hint names target in
// backticks wins; otherwise the first block that is not a diff is used.
func SelectContent(markdown, target string) (string, error) {
	blocks, err := Blocks([]byte(markdown))
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown: %w", err)
	}

	var fallback *Block
	for i := range blocks {
		b := &blocks[i]
		if b.Lang == "diff" {
			continue
		}
		if samePath(b.Path, target) {
			return b.Content, nil
		}
		if fallback == nil {
			fallback = b
		}
	}
	if fallback == nil {
		return "", fmt.Errorf("no code block found for %s", target)
	}
	return fallback.Content, nil
}

// SelectDiff picks the diff block for target out of a markdown answer. A
// diff whose "+++ b/" header names target wins; otherwise the first diff
// block is used.
func SelectDiff(markdown, target string) (string, error) {
	blocks, err := Blocks([]byte(markdown))
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown: %w", err)
	}

	var fallback string
	for _, b := range blocks {
		if b.Lang != "diff" {
			continue
		}
		if samePath(patcher.ExtractPathFromDiff(b.Content), target) {
			return b.Content, nil
		}
		if fallback == "" {
			fallback = b.Content
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("no diff block found for %s", target)
	}
	return fallback, nil
}

// samePath reports whether hint refers to target. Either may be relative,
// so the shorter one only has to match the tail of the longer one.
func samePath(hint, target string) bool {
	if hint == "" || target == "" {
		return false
	}
	hint = filepath.ToSlash(filepath.Clean(hint))
	target = filepath.ToSlash(filepath.Clean(target))
	if hint == target {
		return true
	}
	return strings.HasSuffix(target, "/"+hint) || strings.HasSuffix(hint, "/"+target)
}
