// Package tool exposes the memory service to agents as MCP tools.
package tool

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ToolSaveMemory     = "save_memory"
	ToolSearchMemories = "search_memories"
	ToolDeleteMemory   = "delete_memory"

	defaultSearchLimit = 5
)

type handlers struct {
	svc    *memory.Service
	logger *slog.Logger
}

// NewMCPServer registers the memory tools. Every tool acts on the default
// owner of svc.
func NewMCPServer(svc *memory.Service, version string, logger *slog.Logger) *server.MCPServer {
	h := &handlers{svc: svc, logger: mylog.OrDefault(logger)}

	s := server.NewMCPServer(
		"recallhub",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool(ToolSaveMemory,
		mcp.WithDescription("Save content to long-term memory. It is classified, enriched with metadata and made searchable."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text of the content to remember")),
		mcp.WithString("url", mcp.Description("Where the content comes from")),
		mcp.WithString("title", mcp.Description("Title, generated from the content when left out")),
		mcp.WithString("raw_html", mcp.Description("Markup of the page, used to collect images and videos")),
	), h.saveMemory)

	s.AddTool(mcp.NewTool(ToolSearchMemories,
		mcp.WithDescription("Search saved memories. With natural set, filters such as content type, date, price ceiling or author are read from the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("What to look for")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results, 5 by default")),
		mcp.WithBoolean("natural", mcp.Description("Read structured filters from the query")),
	), h.searchMemories)

	s.AddTool(mcp.NewTool(ToolDeleteMemory,
		mcp.WithDescription("Delete a saved memory by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the memory")),
	), h.deleteMemory)

	return s
}

func (h *handlers) saveMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	saved, err := h.svc.Save(ctx, entity.MemoryCreate{
		Content: content,
		URL:     req.GetString("url", ""),
		Title:   req.GetString("title", ""),
		RawHTML: req.GetString("raw_html", ""),
	})
	if err != nil {
		return h.fail(ToolSaveMemory, err), nil
	}

	return jsonResult(saved)
}

func (h *handlers) searchMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultSearchLimit)

	var results []entity.SearchResult
	if req.GetBool("natural", false) {
		results, err = h.svc.SearchNL(ctx, query, "", limit)
	} else {
		results, err = h.svc.Search(ctx, query, "", limit, nil)
	}
	if err != nil {
		return h.fail(ToolSearchMemories, err), nil
	}

	return jsonResult(results)
}

func (h *handlers) deleteMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.svc.Delete(ctx, id, ""); err != nil {
		return h.fail(ToolDeleteMemory, err), nil
	}

	return mcp.NewToolResultText("deleted " + id), nil
}

// fail reports err to the calling agent as a tool error rather than a
// protocol error.
func (h *handlers) fail(tool string, err error) *mcp.CallToolResult {
	h.logger.Warn("tool call failed", "tool", tool, "error", err.Error())
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
