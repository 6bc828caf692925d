// Package classifier assigns a content type and type specific metadata to
// saved content, asking a language model first and falling back to URL and
// content rules.
package classifier

import (
	"context"
	"log/slog"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
)

type Source string

const (
	SourceAI    Source = "ai"
	SourceRules Source = "rules"
)

// Result is the classification of one piece of content. Fields carries the
// "type" key plus any type specific metadata; it is merged into the record
// metadata and then discarded.
type Result struct {
	Source Source
	Fields map[string]any
}

// Type returns the "type" field, empty when the model left it out.
func (r Result) Type() string {
	t, _ := r.Fields[entity.KeyType].(string)
	return t
}

type Classifier struct {
	generator llm.Generator
	logger    *slog.Logger
}

// New creates a classifier. A nil generator disables the model path and
// classifies with rules only.
func New(generator llm.Generator, logger *slog.Logger) *Classifier {
	return &Classifier{
		generator: generator,
		logger:    mylog.OrDefault(logger),
	}
}

// Classify never fails: any model error or unusable output falls through to
// DetectBasic.
func (c *Classifier) Classify(ctx context.Context, url, title, content string) Result {
	fields, err := c.classifyWithModel(ctx, url, title, content)
	if err == nil {
		return Result{Source: SourceAI, Fields: fields}
	}

	if errors.Is(err, errors.ErrNoGenerator) {
		c.logger.Debug("classifying with rule based detection", "url", url)
	} else {
		c.logger.Warn("AI metadata enrichment failed, using rule based detection", "url", url, "error", err.Error())
	}
	return Result{Source: SourceRules, Fields: DetectBasic(url, content, title)}
}

func (c *Classifier) classifyWithModel(ctx context.Context, url, title, content string) (map[string]any, error) {
	if c.generator == nil {
		return nil, errors.ErrNoGenerator
	}

	prompt, err := buildPrompt(url, title, content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build classify prompt")
	}

	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	fields, err := llm.ParseObject(text)
	if err != nil {
		return nil, err
	}

	// some models answer with content_type instead of type
	if _, ok := fields[entity.KeyType]; !ok {
		if ct, ok := fields[entity.KeyContentType].(string); ok {
			fields[entity.KeyType] = ct
		}
	}

	return fields, nil
}
