// Package prompts implements MCP prompt handlers for the SOW workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DraftPrompt handles the sow-draft MCP prompt.
// It walks the AI from a diagnostic result to a stored draft SOW.
type DraftPrompt struct{}

// NewDraftPrompt creates a DraftPrompt.
func NewDraftPrompt() *DraftPrompt {
	return &DraftPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DraftPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sow-draft",
		mcp.WithPromptDescription(
			"Turn a GTM diagnostic into a draft statement of work. "+
				"Selects the items that need attention, prices them against the service catalog "+
				"and stores the result as a draft SOW.",
		),
		mcp.WithArgument("customer",
			mcp.ArgumentDescription("Customer the SOW is for"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("title",
			mcp.ArgumentDescription("Optional SOW title. Default: '<customer> engagement'"),
		),
	)
}

// Handle processes the sow-draft prompt request.
func (p *DraftPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	customer := "the customer"
	title := ""
	if args := req.Params.Arguments; args != nil {
		if c, ok := args["customer"]; ok && c != "" {
			customer = c
		}
		title = args["title"]
	}

	titleLine := "use the default title"
	if title != "" {
		titleLine = fmt.Sprintf("title='%s'", title)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Draft SOW for %s", customer),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to draft a statement of work for %s from their GTM diagnostic.\n\n"+
						"Please:\n"+
						"1. Ask me for the diagnostic items if I haven't pasted them yet\n"+
						"2. Run `sow_select_priority` and show me which items need attention\n"+
						"3. Run `sow_preview` and walk me through the sections, hours, investment and recommended tier\n"+
						"4. Once I confirm, run `sow_create` with customer='%s' and %s\n"+
						"5. Show me the stored SOW and remind me it stays a draft until I submit it with `sow_transition`",
					customer, customer, titleLine,
				)),
			},
		},
	}, nil
}
