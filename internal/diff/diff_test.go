package diff

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay rebuilds both sides from a script.
func replay(script []Op) (a, b []string) {
	a, b = []string{}, []string{}
	for _, op := range script {
		switch op.Kind {
		case Keep:
			a = append(a, op.Line)
			b = append(b, op.Line)
		case Delete:
			a = append(a, op.Line)
		case Insert:
			b = append(b, op.Line)
		}
	}
	return a, b
}

// lcsDistance is an independent O(N*M) reference for the edit distance.
func lcsDistance(a, b []string) int {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}
	return len(a) + len(b) - 2*table[0][0]
}

func randomLines(r *rand.Rand, n int) []string {
	alphabet := []string{"a", "b", "c", "d", ""}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = alphabet[r.Intn(len(alphabet))]
	}
	return lines
}

func TestScript_Replay(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"both empty", []string{}, []string{}},
		{"old empty", []string{}, []string{"x", "y"}},
		{"new empty", []string{"x", "y"}, []string{}},
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"disjoint", []string{"a", "b"}, []string{"c", "d", "e"}},
		{"trailing empty", SplitLines("a\nb\n"), SplitLines("a\nc\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := Script(tt.a, tt.b)
			gotA, gotB := replay(script)
			assert.Equal(t, tt.a, gotA)
			assert.Equal(t, tt.b, gotB)
		})
	}
}

func TestScript_RandomReplayAndMinimality(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		a := randomLines(r, r.Intn(12))
		b := randomLines(r, r.Intn(12))

		script := Script(a, b)
		gotA, gotB := replay(script)
		require.Equal(t, a, gotA, "old side mismatch for %q -> %q", a, b)
		require.Equal(t, b, gotB, "new side mismatch for %q -> %q", a, b)

		ins, del := Stats(script)
		require.Equal(t, lcsDistance(a, b), ins+del, "not minimal for %q -> %q", a, b)
	}
}

func TestScript_CanonicalTieBreak(t *testing.T) {
	tests := []struct {
		a, b string
		want []string
	}{
		{"ABCABBA", "CBABAC", []string{"-A", "-B", " C", "+B", " A", " B", "-B", " A", "+C"}},
		// GNU diff prints a different, equally short script for this one.
		{"bbcca", "bc", []string{" b", "-b", " c", "-c", "-a"}},
	}
	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			var got []string
			for _, op := range Script(strings.Split(tt.a, ""), strings.Split(tt.b, "")) {
				got = append(got, op.Kind.prefix()+op.Line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_RoundTripScenario(t *testing.T) {
	hunks := Diff([]string{"a", "b", "c"}, []string{"a", "x", "c"}, 3)
	require.Len(t, hunks, 1)
	assert.Equal(t, "@@ -1,3 +1,3 @@", hunks[0].Header())
	assert.Equal(t, []string{" a", "-b", "+x", " c"}, hunks[0].Lines)
}

func TestDiff_Identical(t *testing.T) {
	lines := []string{"one", "two", "three"}
	assert.Empty(t, Diff(lines, lines, 3))
	assert.Empty(t, Diff(nil, nil, 3))
	assert.Equal(t, "", Unified("f.go", lines, lines, 3))
}

func TestHunks_Merging(t *testing.T) {
	const ctx = 3

	build := func(gap int) ([]string, []string) {
		var a, b []string
		a = append(a, "old1")
		b = append(b, "new1")
		for i := 0; i < gap; i++ {
			line := "same" + string(rune('a'+i))
			a = append(a, line)
			b = append(b, line)
		}
		a = append(a, "old2")
		b = append(b, "new2")
		return a, b
	}

	t.Run("gap of 2*ctx+1 splits", func(t *testing.T) {
		a, b := build(2*ctx + 1)
		hunks := Diff(a, b, ctx)
		require.Len(t, hunks, 2)
		assert.Equal(t, 1, hunks[0].OldStart)
		assert.Equal(t, 4, hunks[0].OldCount)
		assert.Equal(t, 6, hunks[1].OldStart)
	})

	t.Run("gap of 2*ctx merges", func(t *testing.T) {
		a, b := build(2 * ctx)
		hunks := Diff(a, b, ctx)
		require.Len(t, hunks, 1)
		assert.Equal(t, len(a), hunks[0].OldCount)
		assert.Equal(t, len(b), hunks[0].NewCount)
	})

	t.Run("small gap merges", func(t *testing.T) {
		a, b := build(1)
		assert.Len(t, Diff(a, b, ctx), 1)
	})
}

func TestHunks_StartNumbers(t *testing.T) {
	var a []string
	for i := 0; i < 20; i++ {
		a = append(a, string(rune('a'+i)))
	}
	b := append([]string{"new0", "new1"}, a...)
	b[2+15] = "changed"

	hunks := Diff(a, b, 2)
	require.Len(t, hunks, 2)

	assert.Equal(t, "@@ -1,2 +1,4 @@", hunks[0].Header())
	assert.Equal(t, []string{"+new0", "+new1", " a", " b"}, hunks[0].Lines)

	assert.Equal(t, 14, hunks[1].OldStart)
	assert.Equal(t, 16, hunks[1].NewStart)
	assert.Equal(t, []string{" n", " o", "-p", "+changed", " q", " r"}, hunks[1].Lines)
}

func TestHunks_ZeroContext(t *testing.T) {
	hunks := Diff([]string{"a", "b", "c"}, []string{"a", "c"}, 0)
	require.Len(t, hunks, 1)
	assert.Equal(t, "@@ -2,1 +1,0 @@", hunks[0].Header())
	assert.Equal(t, []string{"-b"}, hunks[0].Lines)
}

func TestHunks_EmptySide(t *testing.T) {
	hunks := Diff(nil, []string{"x", "y"}, 3)
	require.Len(t, hunks, 1)
	assert.Equal(t, 1, hunks[0].OldStart)
	assert.Equal(t, "@@ -0,0 +1,2 @@", hunks[0].Header())
}

func TestUnified_Format(t *testing.T) {
	got := UnifiedText("src/main.go", "a\nb\nc", "a\nx\nc", 3)
	want := "--- a/src/main.go\n" +
		"+++ b/src/main.go\n" +
		"@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+x\n" +
		" c\n"
	assert.Equal(t, want, got)
}

func TestSplitLines_KeepsTrailingEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{""}, SplitLines(""))
}
