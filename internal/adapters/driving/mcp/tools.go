package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the student question to answer from course and forum content"`
	Image    string `json:"image,omitempty" jsonschema:"optional base64-encoded image attachment, e.g. a screenshot"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string       `json:"answer"`
	Links  []LinkOutput `json:"links"`
}

// LinkOutput is a single cited source.
type LinkOutput struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using indexed course material and forum discussions, with source links",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.query.Ask(ctx, input.Question, input.Image)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer: answer.Text,
		Links:  make([]LinkOutput, len(answer.Citations)),
	}
	for i, c := range answer.Citations {
		output.Links[i] = LinkOutput{URL: c.URL, Text: c.Text}
	}

	return nil, output, nil
}
