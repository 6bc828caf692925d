// Package intent reads a natural language search query into a semantic
// query plus structured filters.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
	"github.com/mokiat/gog"
)

var numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

type Analyzer struct {
	generator llm.Generator
	logger    *slog.Logger
	now       func() time.Time
}

// NewAnalyzer creates an analyzer. With a nil generator every query is
// analysed as a plain semantic query.
func NewAnalyzer(generator llm.Generator, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		logger:    mylog.OrDefault(logger),
		now:       time.Now,
	}
}

// Analyze never fails. When the model is unavailable or answers with
// something unusable the whole query becomes the semantic query with no
// filters.
func (a *Analyzer) Analyze(ctx context.Context, query string) entity.QueryIntent {
	intent, err := a.analyzeWithModel(ctx, query)
	if err != nil {
		if errors.Is(err, errors.ErrNoGenerator) {
			a.logger.Debug("searching with the literal query", "query", query)
		} else {
			a.logger.Warn("query analysis failed, searching with the literal query", "query", query, "error", err.Error())
		}
		return entity.QueryIntent{SemanticQuery: query}
	}
	return intent
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, query string) (entity.QueryIntent, error) {
	if a.generator == nil {
		return entity.QueryIntent{}, errors.ErrNoGenerator
	}

	now := a.now()
	prompt, err := buildPrompt(query, now.UTC().Format("2006-01-02"), contentTypeNames())
	if err != nil {
		return entity.QueryIntent{}, errors.Wrapf(err, "failed to build analyze prompt")
	}

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return entity.QueryIntent{}, err
	}

	fields, err := llm.ParseObject(text)
	if err != nil {
		return entity.QueryIntent{}, err
	}

	var out modelIntent
	if err := llm.Decode(fields, &out); err != nil {
		return entity.QueryIntent{}, errors.Mark(errors.ErrUpstreamModel, err, "unexpected query analysis shape")
	}

	intent := entity.QueryIntent{
		SemanticQuery: strings.TrimSpace(out.SemanticQuery),
		DateFilter:    ParseDateFilter(out.DateFilter, now),
		PriceMax:      parsePrice(out.PriceMax),
		Author:        strings.TrimSpace(out.Author),
	}
	if intent.SemanticQuery == "" {
		intent.SemanticQuery = query
	}
	if ct, ok := entity.ParseContentType(out.ContentType); ok {
		intent.ContentType = gog.PtrOf(ct)
	}

	a.logger.Debug("query analysed", "query", query, "intent", intent)
	return intent, nil
}

// parsePrice accepts numbers and currency formatted strings. Values that do
// not parse or are not positive mean no ceiling.
func parsePrice(v any) *float64 {
	var price float64
	if f, ok := entity.ToFloat(v); ok {
		price = f
	} else if s, ok := v.(string); ok {
		m := numberPattern.FindString(s)
		if m == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return nil
		}
		price = f
	}

	if price <= 0 {
		return nil
	}
	return &price
}

func contentTypeNames() []string {
	names := make([]string, 0, len(entity.ContentTypes))
	for _, t := range entity.ContentTypes {
		if t != entity.ContentTypeUnknown {
			names = append(names, t.String())
		}
	}
	return names
}
