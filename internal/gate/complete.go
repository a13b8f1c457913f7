package gate

import (
	"fmt"

	"github.com/rytswd/slow/internal/diff"
	"github.com/rytswd/slow/model"
)

func (c *Controller) record(id, path, original, edited string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = model.Substitution{Path: path, Original: original, Edited: edited}
}

// Complete is called once the host has carried out a mutation. When the
// reviewer changed the content for requestID, a note describing the change
// is appended to result and the record is discarded. Otherwise result is
// returned as is.
func (c *Controller) Complete(requestID, result string) string {
	c.mu.Lock()
	sub, ok := c.pending[requestID]
	delete(c.pending, requestID)
	c.mu.Unlock()

	if !ok {
		return result
	}
	note := Note(sub)
	if result == "" {
		return note
	}
	return result + "\n\n" + note
}

// Note describes how much a substitution changed the content.
func Note(sub model.Substitution) string {
	oldLines := len(diff.SplitLines(sub.Original))
	newLines := len(diff.SplitLines(sub.Edited))
	oldBytes, newBytes := len(sub.Original), len(sub.Edited)
	return fmt.Sprintf("slow mode: content was edited during review (%d→%d lines, %+d; %d→%d bytes, %+d)",
		oldLines, newLines, newLines-oldLines, oldBytes, newBytes, newBytes-oldBytes)
}
