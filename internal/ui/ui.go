package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rytswd/slow/model"
)

// Output receives every message. Tests swap it out.
var Output io.Writer = os.Stderr

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	StatusColor  = color.New(color.FgHiBlack)
	NotifyColor  = color.New(color.FgMagenta, color.Bold)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Output, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Output, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Output, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Output, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Output, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Output, "  "+format+"\n", a...)
}

// Status shows status-bar text such as the current slow mode state.
func Status(text string) {
	StatusColor.Fprintf(Output, "[%s]\n", text)
}

// Notify shows a one-shot notification.
func Notify(format string, a ...interface{}) {
	NotifyColor.Fprintf(Output, "» "+format+"\n", a...)
}

// --- Summaries ---

// PrintOutcome reports what happened to a reviewed mutation.
func PrintOutcome(path string, out model.Outcome) {
	Header("\n--- Review Summary ---")
	switch {
	case out.Action == model.Block:
		Error("Blocked: %s", out.Reason)
		Path("%s", path)
	case out.Replaced:
		Success("Approved with edits made during review:")
		Path("%s", path)
	default:
		Success("Approved:")
		Path("%s", path)
	}
}

// Table creates a new tablewriter configured with consistent styling.
func Table(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
