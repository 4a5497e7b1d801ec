// Package render turns item payloads into display text for the
// dashboard. Items carry free-form JSON; this package picks the
// best text field and converts HTML bodies to markdown.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/user/lookout/internal/types"
)

const maxItemChars = 50000

// textKeys is checked in order; the first non-empty string wins.
var textKeys = []string{"text", "content", "markdown", "message", "output"}

// ItemText extracts display text from an item payload. An "html"
// field is converted to markdown; plain text fields pass through.
// Output longer than 50k characters is truncated with a marker.
func ItemText(item types.Item) string {
	if len(item.Content) == 0 {
		return fallbackLabel(item)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item.Content, &fields); err != nil {
		return fallbackLabel(item)
	}

	for _, key := range textKeys {
		if s := stringField(fields, key); s != "" {
			return truncate(s)
		}
	}
	if html := stringField(fields, "html"); html != "" {
		md, err := htmltomarkdown.ConvertString(html)
		if err != nil || strings.TrimSpace(md) == "" {
			return truncate(html)
		}
		return truncate(strings.TrimSpace(md))
	}
	return fallbackLabel(item)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func fallbackLabel(item types.Item) string {
	if item.Kind != "" {
		return fmt.Sprintf("[%s]", item.Kind)
	}
	return "[item]"
}

func truncate(s string) string {
	if len(s) > maxItemChars {
		return s[:maxItemChars] + "\n\n[Content truncated]"
	}
	return s
}
