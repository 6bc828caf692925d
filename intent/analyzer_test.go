package intent_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/intent"
	llmtest "github.com/habiliai/recallhub/llm/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "model error", err: errors.New("timeout")},
		{name: "not json", reply: "I think you want shoes"},
		{name: "json array", reply: `["shoes"]`},
		{name: "empty", reply: ""},
		{name: "wrong shape", reply: `{"semantic_query": {"nested": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &llmtest.GeneratorMock{}
			generator.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err)

			got := intent.NewAnalyzer(generator, nil).Analyze(context.Background(), "black leather shoes under $300")
			assert.Equal(t, entity.QueryIntent{SemanticQuery: "black leather shoes under $300"}, got)
			assert.False(t, got.HasPostFilter())
		})
	}
}

func TestAnalyze_NoGenerator(t *testing.T) {
	got := intent.NewAnalyzer(nil, nil).Analyze(context.Background(), "articles about go")
	assert.Equal(t, entity.QueryIntent{SemanticQuery: "articles about go"}, got)
}

func TestAnalyze_Filters(t *testing.T) {
	generator := &llmtest.GeneratorMock{}
	generator.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Query: black leather shoes under $300") &&
			strings.Contains(prompt, "semantic_query")
	})).Return("```json\n{\"semantic_query\": \"black leather shoes\", \"content_type\": \"Product\", \"price_max\": \"$1,300\", \"author\": \" \", \"date_filter\": \"2024-05-01\"}\n```", nil)

	got := intent.NewAnalyzer(generator, nil).Analyze(context.Background(), "black leather shoes under $300")
	generator.AssertExpectations(t)

	assert.Equal(t, "black leather shoes", got.SemanticQuery)
	require.NotNil(t, got.ContentType)
	assert.Equal(t, entity.ContentTypeProduct, *got.ContentType)
	require.NotNil(t, got.PriceMax)
	assert.InDelta(t, 1300, *got.PriceMax, 1e-9)
	assert.Empty(t, got.Author)
	assert.Equal(t, "2024-05-01T00:00:00.000000Z", got.DateFilter)
}

func TestAnalyze_Normalisation(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		check func(t *testing.T, got entity.QueryIntent)
	}{
		{
			name:  "empty semantic query falls back to the literal query",
			reply: `{"semantic_query": "", "author": "Karpathy"}`,
			check: func(t *testing.T, got entity.QueryIntent) {
				assert.Equal(t, "what did Karpathy say", got.SemanticQuery)
				assert.Equal(t, "Karpathy", got.Author)
				assert.True(t, got.HasPostFilter())
			},
		},
		{
			name:  "unknown content type is dropped",
			reply: `{"semantic_query": "x", "content_type": "podcast"}`,
			check: func(t *testing.T, got entity.QueryIntent) {
				assert.Nil(t, got.ContentType)
			},
		},
		{
			name:  "numeric price",
			reply: `{"semantic_query": "x", "price_max": 100}`,
			check: func(t *testing.T, got entity.QueryIntent) {
				require.NotNil(t, got.PriceMax)
				assert.InDelta(t, 100, *got.PriceMax, 1e-9)
			},
		},
		{
			name:  "null and non positive prices are absent",
			reply: `{"semantic_query": "x", "price_max": 0, "date_filter": null}`,
			check: func(t *testing.T, got entity.QueryIntent) {
				assert.Nil(t, got.PriceMax)
				assert.Empty(t, got.DateFilter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &llmtest.GeneratorMock{}
			generator.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, nil)

			tt.check(t, intent.NewAnalyzer(generator, nil).Analyze(context.Background(), "what did Karpathy say"))
		})
	}
}

func TestParseDateFilter(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"null", ""},
		{"2024-05-01", "2024-05-01T00:00:00.000000Z"},
		{"2024-05-01T08:30:00+02:00", "2024-05-01T06:30:00.000000Z"},
		{"2024-05-01T08:30:00.123456", "2024-05-01T08:30:00.123456Z"},
		{"yesterday", "2024-05-30T12:00:00.000000Z"},
		{"saved last week", "2024-05-24T12:00:00.000000Z"},
		{"Last Month", "2024-05-01T12:00:00.000000Z"},
		{"last year", "2023-06-01T12:00:00.000000Z"},
		{"a while ago", "2024-05-01T12:00:00.000000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, intent.ParseDateFilter(tt.in, now))
		})
	}
}

func TestAnalyze_FallbackLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	generator := &llmtest.GeneratorMock{}
	generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	got := intent.NewAnalyzer(generator, logger).Analyze(context.Background(), "shoes")
	assert.Equal(t, "shoes", got.SemanticQuery)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "timeout", record["error"])

	buf.Reset()
	intent.NewAnalyzer(nil, logger).Analyze(context.Background(), "shoes")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
}
