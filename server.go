package main

import (
	"context"

	"github.com/hnthap/kb-mcp/kb"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const toolName = "kb_answer"

type answerer interface {
	Answer(question string) kb.Result
}

func NewKBServer(ans answerer) *server.MCPServer {
	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Answers user questions from the Excel knowledge base"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The user's question"),
		))

	srv := server.NewMCPServer("kb-excel-server", "1.0.0", server.WithToolCapabilities(false))
	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(ans.Answer(q).Message()), nil
	})

	return srv
}
