package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/devricklin/tg-relay-bridge/internal/biz/usecase"
)

// Bridge is the subset of the admin API the tools call
type Bridge interface {
	GetCorrespondent(ctx context.Context, id string) (*usecase.CorrespondentView, error)
	FindByThread(ctx context.Context, threadID string) (*usecase.CorrespondentView, error)
	Block(ctx context.Context, id string) (*usecase.CorrespondentView, error)
	Unblock(ctx context.Context, id string) (*usecase.CorrespondentView, error)
}

// Tools holds the relay MCP tool handlers
type Tools struct {
	bridge Bridge
}

// NewTools creates the tool handlers
func NewTools(bridge Bridge) *Tools {
	return &Tools{bridge: bridge}
}

// NewServer creates an MCP server with every relay tool registered
func NewServer(bridge Bridge, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "relay-tools",
		Version: version,
	}, nil)
	NewTools(bridge).Register(server)
	return server
}

// Register registers all relay tools on server
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "relay_get_correspondent",
		Description: "Look up a correspondent by Telegram user id. Returns verification state, block flag, violation count and bound thread.",
	}, t.GetCorrespondent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relay_find_by_thread",
		Description: "Find which correspondent owns a staffed-group forum thread.",
	}, t.FindByThread)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relay_block",
		Description: "Block a correspondent. Their messages are dropped silently until unblocked.",
	}, t.Block)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relay_unblock",
		Description: "Unblock a correspondent and reset their violation counter.",
	}, t.Unblock)
}

// CorrespondentInput identifies a correspondent
type CorrespondentInput struct {
	ID string `json:"id" jsonschema:"The Telegram user id of the correspondent"`
}

// ThreadInput identifies a forum thread
type ThreadInput struct {
	ThreadID string `json:"thread_id" jsonschema:"The forum thread id in the staffed group"`
}

// CorrespondentOutput is the result of every relay tool
type CorrespondentOutput struct {
	Found         bool                       `json:"found"`
	Correspondent *usecase.CorrespondentView `json:"correspondent,omitempty"`
	Error         string                     `json:"error,omitempty"`
}

// GetCorrespondent handles relay_get_correspondent
func (t *Tools) GetCorrespondent(ctx context.Context, req *mcp.CallToolRequest, input CorrespondentInput) (*mcp.CallToolResult, CorrespondentOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, CorrespondentOutput{Error: "id is required"}, nil
	}
	return nil, output(t.bridge.GetCorrespondent(ctx, id)), nil
}

// FindByThread handles relay_find_by_thread
func (t *Tools) FindByThread(ctx context.Context, req *mcp.CallToolRequest, input ThreadInput) (*mcp.CallToolResult, CorrespondentOutput, error) {
	threadID := strings.TrimSpace(input.ThreadID)
	if threadID == "" {
		return nil, CorrespondentOutput{Error: "thread_id is required"}, nil
	}
	return nil, output(t.bridge.FindByThread(ctx, threadID)), nil
}

// Block handles relay_block
func (t *Tools) Block(ctx context.Context, req *mcp.CallToolRequest, input CorrespondentInput) (*mcp.CallToolResult, CorrespondentOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, CorrespondentOutput{Error: "id is required"}, nil
	}
	return nil, output(t.bridge.Block(ctx, id)), nil
}

// Unblock handles relay_unblock
func (t *Tools) Unblock(ctx context.Context, req *mcp.CallToolRequest, input CorrespondentInput) (*mcp.CallToolResult, CorrespondentOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, CorrespondentOutput{Error: "id is required"}, nil
	}
	return nil, output(t.bridge.Unblock(ctx, id)), nil
}

// output folds bridge errors into the tool result so the agent sees them
func output(view *usecase.CorrespondentView, err error) CorrespondentOutput {
	switch {
	case errors.Is(err, ErrNotFound):
		return CorrespondentOutput{Found: false}
	case err != nil:
		return CorrespondentOutput{Error: err.Error()}
	default:
		return CorrespondentOutput{Found: true, Correspondent: view}
	}
}
