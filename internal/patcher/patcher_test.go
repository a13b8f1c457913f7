package patcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rytswd/slow/internal/diff"
)

const mainGo = "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"

func TestApply_UnifiedRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{
			name: "replace and insert",
			old:  mainGo,
			new:  strings.Replace(mainGo, "\tfmt.Println(\"hi\")\n", "\tfmt.Println(\"hello\")\n\tfmt.Println(\"bye\")\n", 1),
		},
		{
			name: "delete first lines",
			old:  "one\ntwo\nthree\nfour",
			new:  "three\nfour",
		},
		{
			name: "two hunks",
			old:  "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\nl11\nl12\nl13\nl14\nl15",
			new:  "l1\nL2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\nl11\nl12\nl13\nL14\nl15\nl16",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := diff.UnifiedText("f.txt", tt.old, tt.new, 3)
			require.NotEmpty(t, patch)

			got, err := Apply(tt.old, patch)
			require.NoError(t, err)
			assert.Equal(t, tt.new, got)
		})
	}
}

const sloppy = "--- a/main.go\n+++ b/main.go\n@@ -99,3 +99,3 @@\n func main() {\n-    fmt.Println(\"hi\")\n+\tfmt.Println(\"hello\")\n }\n"

func TestApply_IgnoresWrongHeadersAndWhitespace(t *testing.T) {
	got, err := Apply(mainGo, sloppy)
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n", got)
}

func TestApply_Errors(t *testing.T) {
	_, err := Apply(mainGo, "--- a/x\n+++ b/x\n@@ -1,1 +1,1 @@\n-not in the file\n+x\n")
	assert.Error(t, err)

	_, err = Apply(mainGo, "just some prose")
	assert.Error(t, err)
}

func TestApply_NewFile(t *testing.T) {
	got, err := Apply("", "--- a/new.txt\n+++ b/new.txt\n@@ -0,0 +1,2 @@\n+a\n+b\n")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)
}

func TestApply_KeepsSourceLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		patch  string
		want   string
	}{
		{
			name:   "blank line inside the hunk",
			source: "a\n\nb\nc",
			patch:  "@@ -1,3 +1,4 @@\n a\n b\n+x\n c\n",
			want:   "a\n\nb\nx\nc",
		},
		{
			name:   "blank lines before a removed line",
			source: "a\n\n\nb\nc",
			patch:  "@@ -1,3 +1,2 @@\n a\n-b\n c\n",
			want:   "a\n\n\nc",
		},
		{
			name:   "source indentation wins over context",
			source: "func f() int {\n\treturn 1\n}\n",
			patch:  "@@ -1,3 +1,4 @@\n func f() int {\n+\t// one\n   return 1\n }\n",
			want:   "func f() int {\n\t// one\n\treturn 1\n}\n",
		},
		{
			name:   "blank context missing from the source",
			source: "x\ny\nz",
			patch:  "@@ -1,3 +1,3 @@\n x\n \n-y\n+Y\n z\n",
			want:   "x\nY\nz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.source, tt.patch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPathFromDiff(t *testing.T) {
	assert.Equal(t, "main.go", ExtractPathFromDiff(sloppy))
	assert.Equal(t, "", ExtractPathFromDiff("@@ -1 +1 @@\n-a\n+b"))
}

func TestFind(t *testing.T) {
	source := []string{"a", "", "  b  c", "d"}
	assert.Equal(t, 3, find(source, []string{"b c", "d"}))
	assert.Equal(t, 3, find(source, []string{"\tb c"}))
	assert.Equal(t, -1, find(source, []string{"x"}))
	assert.Equal(t, -1, find(source, nil))
}
