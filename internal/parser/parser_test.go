package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answer = "Here is the helper.\n\n" +
	"`internal/util/strings.go`\n" +
	"```go\npackage util\n```\n\n" +
	"And the handler:\n\n" +
	"`src/handler.ts`\n" +
	"```ts\nexport const handler = () => 1;\n```\n\n" +
	"```diff\n--- a/src/other.ts\n+++ b/src/other.ts\n@@ -1 +1 @@\n-a\n+b\n```\n\n" +
	"```diff\n--- a/src/handler.ts\n+++ b/src/handler.ts\n@@ -1 +1 @@\n-x\n+y\n```\n"

func TestBlocks(t *testing.T) {
	blocks, err := Blocks([]byte(answer))
	require.NoError(t, err)
	require.Len(t, blocks, 4)

	assert.Equal(t, "go", blocks[0].Lang)
	assert.Equal(t, "internal/util/strings.go", blocks[0].Path)
	assert.Equal(t, "src/handler.ts", blocks[1].Path)
	assert.Empty(t, blocks[2].Path)
	assert.Equal(t, "package util\n", blocks[0].Content)
	assert.Equal(t, "diff", blocks[2].Lang)
}

func TestSelectContent(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "exact hint", target: "src/handler.ts", want: "export const handler = () => 1;\n"},
		{name: "absolute target", target: "/home/me/proj/src/handler.ts", want: "export const handler = () => 1;\n"},
		{name: "no hint falls back to first block", target: "README.md", want: "package util\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectContent(answer, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SelectContent("no code here", "a.go")
	assert.Error(t, err)
}

func TestSelectDiff(t *testing.T) {
	got, err := SelectDiff(answer, "src/handler.ts")
	require.NoError(t, err)
	assert.Contains(t, got, "+y")

	got, err = SelectDiff(answer, "unknown.go")
	require.NoError(t, err)
	assert.Contains(t, got, "+b")

	_, err = SelectDiff("```go\nx\n```\n", "a.go")
	assert.Error(t, err)
}

func TestPathFromHint(t *testing.T) {
	assert.Equal(t, "a/b.go", pathFromHint("Update `a/b.go` like so:"))
	assert.Equal(t, "", pathFromHint("Run `go test ./...` first"))
	assert.Equal(t, "", pathFromHint("plain text"))
}
