// Package search answers semantic and natural language queries over the
// stored memories of one owner.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/intent"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/metadata"
	"github.com/habiliai/recallhub/store"
	"github.com/samber/lo"
)

var pricePattern = regexp.MustCompile(`[\d,]+\.?\d*`)

type Engine struct {
	analyzer *intent.Analyzer
	embedder llm.Embedder
	store    store.VectorStore
	conf     config.SearchConfig
	logger   *slog.Logger
}

func NewEngine(
	analyzer *intent.Analyzer,
	embedder llm.Embedder,
	store store.VectorStore,
	conf *config.SearchConfig,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		analyzer: analyzer,
		embedder: embedder,
		store:    store,
		conf:     *conf,
		logger:   mylog.OrDefault(logger),
	}
}

// SemanticSearch ranks the owner's records by similarity to query. extra
// adds equality predicates to the owner scope; it cannot widen the scope to
// another owner.
func (e *Engine) SemanticSearch(ctx context.Context, query, owner string, limit int, extra map[string]any) ([]entity.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "query is required")
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "failed to embed query")
	}

	filter := store.Where(store.Eq(entity.KeyOwner, owner))
	keys := lo.Keys(extra)
	slices.Sort(keys)
	for _, k := range keys {
		if k == entity.KeyOwner {
			continue
		}
		filter = filter.And(store.Eq(k, extra[k]))
	}

	matches, err := e.store.QueryByVector(ctx, vector, e.limit(limit), filter)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("semantic search", "query", query, "owner", owner, "results", len(matches))
	return lo.Map(matches, func(m store.Match, _ int) entity.SearchResult {
		return toResult(m)
	}), nil
}

// NaturalLanguageSearch analyses query into a semantic query and filters.
// Owner, content type and date are evaluated by the store; price and author
// are applied to the retrieved candidates, so fewer than limit results may
// come back even when more matching records exist. SEARCH_OVERFETCH_FACTOR
// widens the candidate window while such a post-filter is active.
func (e *Engine) NaturalLanguageSearch(ctx context.Context, query, owner string, limit int) ([]entity.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "query is required")
	}

	qi := e.analyzer.Analyze(ctx, query)

	vector, err := e.embedder.Embed(ctx, qi.SemanticQuery)
	if err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "failed to embed query")
	}

	filter := store.Where(store.Eq(entity.KeyOwner, owner))
	if qi.ContentType != nil {
		filter = filter.And(store.Eq(entity.KeyContentType, qi.ContentType.String()))
	}
	if qi.DateFilter != "" {
		filter = filter.And(store.Gte(entity.KeyTimestamp, qi.DateFilter))
	}

	limit = e.limit(limit)
	k := limit
	if qi.HasPostFilter() {
		k = limit * e.conf.OverFetchFactor
	}

	matches, err := e.store.QueryByVector(ctx, vector, k, filter)
	if err != nil {
		return nil, err
	}

	results := make([]entity.SearchResult, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(results) == limit {
			break
		}
		if !matchesPrice(m.Metadata, qi.PriceMax) || !matchesAuthor(m.Metadata, qi.Author) {
			continue
		}
		results = append(results, toResult(m))
	}

	e.logger.Debug("natural language search",
		"query", query,
		"semantic_query", qi.SemanticQuery,
		"owner", owner,
		"candidates", len(matches),
		"results", len(results),
	)
	return results, nil
}

func (e *Engine) limit(limit int) int {
	if limit <= 0 {
		return e.conf.DefaultLimit
	}
	return limit
}

// matchesPrice drops candidates whose price is known to exceed the ceiling.
// A missing or unparseable price passes.
func matchesPrice(meta map[string]any, ceiling *float64) bool {
	if ceiling == nil {
		return true
	}
	price, ok := parsePrice(meta[entity.KeyPrice])
	if !ok {
		return true
	}
	return price <= *ceiling
}

func parsePrice(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if f, ok := entity.ToFloat(v); ok {
		return f, true
	}
	m := pricePattern.FindString(fmt.Sprint(v))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// matchesAuthor is a case-insensitive substring match. Candidates without
// an author never match an author filter.
func matchesAuthor(meta map[string]any, author string) bool {
	if author == "" {
		return true
	}
	v, ok := meta[entity.KeyAuthor].(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(author))
}

func toResult(m store.Match) entity.SearchResult {
	meta := metadata.Decode(m.Metadata)

	url, _ := meta[entity.KeyURL].(string)
	title, _ := meta[entity.KeyTitle].(string)
	if title == "" {
		title = "Untitled"
	}
	ts, _ := meta[entity.KeyTime].(string)
	if ts == "" {
		ts, _ = meta[entity.KeyTimestamp].(string)
	}

	return entity.SearchResult{
		ID:              m.ID,
		Content:         m.Document,
		URL:             url,
		Title:           title,
		Metadata:        meta,
		SimilarityScore: 1 - m.Distance,
		Timestamp:       ts,
	}
}
