package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the sow-status MCP prompt.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sow-status",
		mcp.WithPromptDescription("Review the statements of work on file and what each one is waiting on."),
		mcp.WithArgument("customer",
			mcp.ArgumentDescription("Only show SOWs for this customer"),
		),
	)
}

// Handle processes the sow-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	filter := ""
	if args := req.Params.Arguments; args != nil {
		if c, ok := args["customer"]; ok && c != "" {
			filter = fmt.Sprintf(" with customer='%s'", c)
		}
	}

	return &mcp.GetPromptResult{
		Description: "SOW status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Run `sow_list`%s and summarize where each SOW stands.\n\n"+
						"For drafts, tell me what is left before they can be submitted. "+
						"For SOWs in review, use `sow_get` to show me the totals and recommended tier so I can approve them. "+
						"Suggest the next `sow_transition` action for each one.",
					filter,
				)),
			},
		},
	}, nil
}
