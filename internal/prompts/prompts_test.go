package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptReq(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func messageText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if len(res.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(res.Messages))
	}
	tc, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Messages[0].Content)
	}
	return tc.Text
}

func TestDraftPrompt(t *testing.T) {
	p := NewDraftPrompt()
	if p.Definition().Name != "sow-draft" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	res, err := p.Handle(context.Background(), promptReq(map[string]string{"customer": "Acme", "title": "Q3 rebuild"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res.Description != "Draft SOW for Acme" {
		t.Errorf("Description = %q", res.Description)
	}
	text := messageText(t, res)
	for _, want := range []string{"sow_select_priority", "sow_preview", "customer='Acme'", "title='Q3 rebuild'"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestDraftPrompt_NoArguments(t *testing.T) {
	res, err := NewDraftPrompt().Handle(context.Background(), promptReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(messageText(t, res), "default title") {
		t.Error("expected default title hint")
	}
}

func TestStatusPrompt(t *testing.T) {
	p := NewStatusPrompt()
	if p.Definition().Name != "sow-status" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	res, err := p.Handle(context.Background(), promptReq(map[string]string{"customer": "Acme"}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := messageText(t, res)
	if !strings.Contains(text, "sow_list` with customer='Acme'") {
		t.Errorf("message = %q", text)
	}

	res, _ = p.Handle(context.Background(), promptReq(nil))
	if strings.Contains(messageText(t, res), "customer=") {
		t.Error("unexpected customer filter")
	}
}
