package core

import (
	"strings"
	"time"
)

// occurredLayouts are the timestamp shapes the incident feed has used.
var occurredLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
}

// formatOccurred normalises an incident date to 2006-01-02, or returns the
// raw text when it matches none of the known layouts.
func formatOccurred(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range occurredLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
