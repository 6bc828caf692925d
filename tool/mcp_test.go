package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/ingest"
	"github.com/habiliai/recallhub/intent"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/memory"
	"github.com/habiliai/recallhub/search"
	"github.com/habiliai/recallhub/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlers(t *testing.T) *handlers {
	s := store.NewInMemoryStore()
	embedder := llm.NewHashEmbedder(64)
	pipeline := ingest.NewPipeline(classifier.New(nil, nil), embedder, s, nil)
	engine := search.NewEngine(intent.NewAnalyzer(nil, nil), embedder, s, &config.SearchConfig{DefaultLimit: 10, OverFetchFactor: 1}, nil)

	return &handlers{svc: memory.NewService(pipeline, engine, s, nil, "tester", nil), logger: mylog.OrDefault(nil)}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", res.Content[0])
	return text.Text
}

func TestMemoryTools(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)

	res, err := h.saveMemory(ctx, callRequest(ToolSaveMemory, map[string]any{
		"content": "Wireless Bluetooth Headphones\nPrice: $49.99",
		"url":     "https://www.amazon.com/dp/B0001",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var saved entity.SaveResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &saved))
	assert.Equal(t, "product", saved.Metadata["content_type"])
	assert.Equal(t, "tester", saved.Metadata["user_id"])

	res, err = h.searchMemories(ctx, callRequest(ToolSearchMemories, map[string]any{
		"query":   "bluetooth headphones",
		"limit":   float64(3),
		"natural": true,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var results []entity.SearchResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, saved.ID, results[0].ID)

	res, err = h.deleteMemory(ctx, callRequest(ToolDeleteMemory, map[string]any{"id": saved.ID}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "deleted "+saved.ID, resultText(t, res))

	res, err = h.deleteMemory(ctx, callRequest(ToolDeleteMemory, map[string]any{"id": saved.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")
}

func TestMemoryTools_MissingArguments(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)

	for name, call := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		ToolSaveMemory:     h.saveMemory,
		ToolSearchMemories: h.searchMemories,
		ToolDeleteMemory:   h.deleteMemory,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := call(ctx, callRequest(name, map[string]any{}))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}

	res, err := h.saveMemory(ctx, callRequest(ToolSaveMemory, map[string]any{"content": "   "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewMCPServer(t *testing.T) {
	h := newHandlers(t)
	assert.NotNil(t, NewMCPServer(h.svc, "test", nil))
}
