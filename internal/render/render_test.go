package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/lookout/internal/types"
)

func item(kind string, content string) types.Item {
	return types.Item{ID: "item-1", Kind: kind, Content: json.RawMessage(content)}
}

func TestItemTextPrefersTextField(t *testing.T) {
	got := ItemText(item("message", `{"text":"hello there","html":"<p>ignored</p>"}`))
	if got != "hello there" {
		t.Fatalf("text = %q", got)
	}
}

func TestItemTextFieldPriority(t *testing.T) {
	got := ItemText(item("message", `{"output":"from output","content":"from content"}`))
	if got != "from content" {
		t.Fatalf("text = %q, want content field first", got)
	}
}

func TestItemTextConvertsHTML(t *testing.T) {
	got := ItemText(item("message", `{"html":"<h1>Title</h1><p>Body <strong>bold</strong></p>"}`))
	if !strings.Contains(got, "# Title") {
		t.Fatalf("markdown heading missing: %q", got)
	}
	if !strings.Contains(got, "**bold**") {
		t.Fatalf("markdown emphasis missing: %q", got)
	}
}

func TestItemTextFallsBackToKind(t *testing.T) {
	if got := ItemText(item("tool_call", "")); got != "[tool_call]" {
		t.Fatalf("empty content = %q", got)
	}
	if got := ItemText(item("tool_call", `{"count":3}`)); got != "[tool_call]" {
		t.Fatalf("no text fields = %q", got)
	}
	if got := ItemText(item("", "not json")); got != "[item]" {
		t.Fatalf("bad json = %q", got)
	}
}

func TestItemTextTruncates(t *testing.T) {
	long := strings.Repeat("x", maxItemChars+100)
	payload, _ := json.Marshal(map[string]string{"text": long})
	got := ItemText(item("message", string(payload)))
	if !strings.HasSuffix(got, "[Content truncated]") {
		t.Fatal("missing truncation marker")
	}
	if len(got) >= len(long) {
		t.Fatalf("not truncated: %d chars", len(got))
	}
}
