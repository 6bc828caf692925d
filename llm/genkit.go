package llm

import (
	"context"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/habiliai/recallhub/errors"
)

type (
	GenkitGenerator struct {
		genkit  *genkit.Genkit
		model   string
		timeout time.Duration
	}

	GenkitEmbedder struct {
		genkit   *genkit.Genkit
		provider string
		name     string
		timeout  time.Duration
	}
)

var (
	_ Generator = (*GenkitGenerator)(nil)
	_ Embedder  = (*GenkitEmbedder)(nil)
)

// NewGenkitGenerator creates a generator for model given as "<provider>/<name>".
func NewGenkitGenerator(g *genkit.Genkit, model string, timeout time.Duration) *GenkitGenerator {
	return &GenkitGenerator{genkit: g, model: model, timeout: timeout}
}

func (x *GenkitGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, x.timeout)
	defer cancel()

	resp, err := genkit.Generate(
		ctx,
		x.genkit,
		ai.WithModelName(x.model),
		ai.WithMessages(ai.NewUserTextMessage(prompt)),
	)
	if err != nil {
		return "", errors.Mark(errors.ErrUpstreamModel, err, "failed to generate with %s", x.model)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.Wrapf(errors.ErrUpstreamModel, "empty response from %s", x.model)
	}

	return text, nil
}

// NewGenkitEmbedder creates an embedder for model given as "<provider>/<name>".
func NewGenkitEmbedder(g *genkit.Genkit, model string, timeout time.Duration) (*GenkitEmbedder, error) {
	provider, name, ok := strings.Cut(model, "/")
	if !ok || provider == "" || name == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "embedding model must be <provider>/<name>, got %q", model)
	}
	if genkit.LookupEmbedder(g, provider, name) == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "embedder %s is not registered, check the provider API key", model)
	}

	return &GenkitEmbedder{genkit: g, provider: provider, name: name, timeout: timeout}, nil
}

func (e *GenkitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	embedder := genkit.LookupEmbedder(e.genkit, e.provider, e.name)

	resp, err := ai.Embed(ctx, embedder, ai.WithTextDocs(text))
	if err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "failed to embed with %s/%s", e.provider, e.name)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, errors.Wrapf(errors.ErrUpstreamModel, "empty embedding from %s/%s", e.provider, e.name)
	}

	return resp.Embeddings[0].Embedding, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
