package cmd

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/ingest"
	"github.com/habiliai/recallhub/intent"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/memory"
	"github.com/habiliai/recallhub/search"
	"github.com/habiliai/recallhub/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	s := store.NewInMemoryStore()
	t.Cleanup(func() { _ = s.Close() })

	embedder := llm.NewHashEmbedder(64)
	pipeline := ingest.NewPipeline(classifier.New(nil, nil), embedder, s, nil)
	engine := search.NewEngine(intent.NewAnalyzer(nil, nil), embedder, s, &config.SearchConfig{DefaultLimit: 10, OverFetchFactor: 1}, nil)
	svc := memory.NewService(pipeline, engine, s, nil, "demo", nil)

	return newServerHandler(svc, config.StoreDriverMemory, slog.Default())
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestServer_MemoryLifecycle(t *testing.T) {
	h := newTestHandler(t)

	code, saved := do(t, h, "POST", "/api/memory", map[string]any{
		"content":  "Wireless Bluetooth Headphones\nPrice: $49.99",
		"url":      "https://www.amazon.com/dp/B0001",
		"raw_html": `<img src="https://cdn.example.com/p.jpg"><img src="/relative.jpg">`,
		"user_id":  "alice",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", saved["status"])
	meta := saved["metadata"].(map[string]any)
	assert.Equal(t, "product", meta["content_type"])
	assert.Equal(t, "Amazon", meta["brand"])
	assert.Contains(t, meta["price"], "49.99")
	assert.Len(t, meta["media"], 1)
	id := saved["id"].(string)

	code, stats := do(t, h, "GET", "/api/stats?user_id=alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, stats["total"])
	assert.Equal(t, map[string]any{"product": float64(1)}, stats["by_type"])

	code, body := do(t, h, "DELETE", "/api/delete/"+id+"?user_id=bob", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body["detail"], "not found")

	code, all := do(t, h, "GET", "/get_all?user_id=alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, all["count"])

	code, _ = do(t, h, "DELETE", "/delete_context/"+id+"?user_id=alice", nil)
	assert.Equal(t, http.StatusOK, code)

	code, all = do(t, h, "GET", "/get_all?user_id=alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, all["count"])
}

func TestServer_Search(t *testing.T) {
	h := newTestHandler(t)

	for _, content := range []string{"black leather shoes for the office", "notes about vector databases"} {
		code, _ := do(t, h, "POST", "/store", map[string]any{"content": content})
		require.Equal(t, http.StatusOK, code)
	}

	for _, path := range []string{"/api/search", "/api/search/nl"} {
		t.Run(path, func(t *testing.T) {
			b, err := json.Marshal(map[string]any{"query": "black leather shoes under $300", "limit": 1})
			require.NoError(t, err)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("POST", path, bytes.NewReader(b)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var results []map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
			require.Len(t, results, 1)
			assert.Equal(t, "black leather shoes for the office", results[0]["content"])
		})
	}

	code, body := do(t, h, "POST", "/api/search", map[string]any{"query": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.NotEmpty(t, body["detail"])
}

func TestServer_SaveTyped(t *testing.T) {
	h := newTestHandler(t)

	code, body := do(t, h, "POST", "/api/save", map[string]any{
		"text":         "Buy oat milk",
		"content_type": "todo",
		"metadata":     `{"tasks": [{"text": "oat milk", "completed": false}]}`,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "todo saved successfully", body["message"])
	assert.Equal(t, "todo", body["content_type"])

	code, body = do(t, h, "POST", "/api/save", map[string]any{"text": "Lasagne", "content_type": "recipe"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unknown", body["content_type"])

	code, stats := do(t, h, "GET", "/api/stats", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"todo": float64(1), "unknown": float64(1)}, stats["by_type"])

	code, _ = do(t, h, "POST", "/api/save", map[string]any{"text": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestServer_Clear(t *testing.T) {
	h := newTestHandler(t)

	for _, owner := range []string{"alice", "bob"} {
		code, _ := do(t, h, "POST", "/api/memory", map[string]any{"content": "note of " + owner, "user_id": owner})
		require.Equal(t, http.StatusOK, code)
	}

	code, body := do(t, h, "DELETE", "/clear/alice", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["deleted"])

	code, body = do(t, h, "DELETE", "/clear", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["deleted"])
}

func TestServer_InfoAndErrors(t *testing.T) {
	h := newTestHandler(t)

	code, body := do(t, h, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["store"])

	code, body = do(t, h, "GET", "/", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["endpoints"], "POST /api/search/nl")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/memory", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	code, _ = do(t, h, "GET", "/generate_context/missing?user_id=alice", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, h, "GET", "/generate_context/missing?max_length=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestParseLooseMetadata(t *testing.T) {
	assert.Equal(t, map[string]any{"a": "b"}, parseLooseMetadata(json.RawMessage(`{"a": "b"}`)))
	assert.Equal(t, map[string]any{"a": "b"}, parseLooseMetadata(json.RawMessage(`"{\"a\": \"b\"}"`)))
	assert.Nil(t, parseLooseMetadata(json.RawMessage(`"not json"`)))
	assert.Nil(t, parseLooseMetadata(json.RawMessage(`[1, 2]`)))
	assert.Nil(t, parseLooseMetadata(nil))
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, outputYAML, map[string]int{"total": 2}))
	assert.Equal(t, "total: 2\n", buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, outputJSON, map[string]int{"total": 2}))
	assert.JSONEq(t, `{"total": 2}`, buf.String())

	assert.Error(t, writeOutput(&buf, "xml", nil))
}
