package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rytswd/slow/model"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Output, color.NoColor
	Output, color.NoColor = &buf, true
	t.Cleanup(func() { Output, color.NoColor = prevOut, prevNoColor })
	return &buf
}

func TestStatusAndNotify(t *testing.T) {
	buf := capture(t)
	Status("slow mode: on")
	Notify("reviewing %s", "a.go")
	assert.Equal(t, "[slow mode: on]\n» reviewing a.go\n", buf.String())
}

func TestPrintOutcome(t *testing.T) {
	tests := []struct {
		name string
		out  model.Outcome
		want string
	}{
		{"blocked", model.Outcome{Action: model.Block, Reason: "rejected"}, "Blocked: rejected"},
		{"replaced", model.Outcome{Action: model.Proceed, Replaced: true}, "Approved with edits"},
		{"approved", model.Outcome{Action: model.Proceed}, "Approved:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t)
			PrintOutcome("src/a.go", tt.out)
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "  src/a.go\n")
		})
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := Table(&buf, []string{"Tool", "Path"})
	table.Append([]string{"delta", "/usr/bin/delta"})
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Contains(t, out, "delta")
	assert.Contains(t, out, "/usr/bin/delta")
	assert.True(t, strings.Contains(strings.ToUpper(out), "TOOL"))
}
