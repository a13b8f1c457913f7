package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var backtickPath = regexp.MustCompile("`([^`\n]+)`")

// Block is one fenced code block of a markdown answer.
type Block struct {
	Lang string
	// Path is the file the paragraph right before the block names in
	// backticks, if any.
	Path    string
	Content string
}

// Blocks returns the fenced code blocks of markdown in document order.
func Blocks(markdown []byte) ([]Block, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(markdown))

	var out []Block
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		out = append(out, Block{
			Lang:    string(fence.Language(markdown)),
			Path:    pathBefore(fence, markdown),
			Content: string(raw(fence.Lines(), markdown)),
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func raw(lines *text.Segments, src []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

// pathBefore reads the path hint of the paragraph preceding n. The raw
// source is used because paragraph text drops code span backticks.
func pathBefore(n ast.Node, src []byte) string {
	p, ok := n.PreviousSibling().(*ast.Paragraph)
	if !ok {
		return ""
	}
	return pathFromHint(string(raw(p.Lines(), src)))
}

// pathFromHint returns the first backticked word of hint. Spans with
// spaces are commands, not paths.
func pathFromHint(hint string) string {
	match := backtickPath.FindStringSubmatch(hint)
	if len(match) < 2 {
		return ""
	}
	path := strings.TrimSpace(match[1])
	if strings.Contains(path, " ") {
		return ""
	}
	return path
}
