// Package compat registers models served by any OpenAI compatible endpoint
// (OpenRouter, SiliconFlow, a local inference server...) under the
// "compat" provider.
package compat

import (
	"context"
	"fmt"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
	"github.com/habiliai/recallhub/internal/genkit/plugins/internal/config"
	"github.com/sashabaranov/go-openai"
)

const (
	provider    = "compat"
	labelPrefix = "Compat"
	apiKeyEnv   = "OPENAI_COMPAT_API_KEY"
)

type Plugin struct {
	// The API key of the endpoint.
	// If empty, the values of the environment variables OPENAI_COMPAT_API_KEY will be consulted.
	APIKey string
	// BaseURL of the endpoint, e.g. https://openrouter.ai/api/v1
	BaseURL string
	// Models and Embedders are the names registered, the endpoint has no
	// fixed catalogue
	Models    []string
	Embedders []string
}

var (
	_ genkit.Plugin = (*Plugin)(nil)
)

// Name implements genkit.Plugin.
func (o *Plugin) Name() string {
	return provider
}

// Init implements genkit.Plugin.
func (o *Plugin) Init(_ context.Context, g *genkit.Genkit) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%s.Init: %w", provider, err)
		}
	}()

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
	}
	if o.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = o.BaseURL
	client := openai.NewClientWithConfig(clientConfig)

	for _, name := range o.Models {
		defineModel(g, client, name)
	}
	for _, name := range o.Embedders {
		defineEmbedder(g, client, name)
	}

	return nil
}

func defineModel(g *genkit.Genkit, client *openai.Client, name string) ai.Model {
	caps := config.BasicText
	meta := &ai.ModelInfo{
		Label:    labelPrefix + " - " + name,
		Supports: &caps,
	}
	return genkit.DefineModel(
		g,
		provider,
		name,
		meta,
		func(ctx context.Context, req *ai.ModelRequest, _ core.StreamCallback[*ai.ModelResponseChunk]) (*ai.ModelResponse, error) {
			return generate(ctx, client, name, req)
		},
	)
}

func defineEmbedder(g *genkit.Genkit, client *openai.Client, name string) ai.Embedder {
	return genkit.DefineEmbedder(g, provider, name, func(ctx context.Context, input *ai.EmbedRequest) (*ai.EmbedResponse, error) {
		var texts []string
		for _, doc := range input.Input {
			for _, p := range doc.Content {
				texts = append(texts, p.Text)
			}
		}

		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(name),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings failed: %w", err)
		}

		var res ai.EmbedResponse
		for _, data := range resp.Data {
			res.Embeddings = append(res.Embeddings, &ai.Embedding{Embedding: data.Embedding})
		}
		return &res, nil
	})
}

func generate(ctx context.Context, client *openai.Client, model string, input *ai.ModelRequest) (*ai.ModelResponse, error) {
	req, err := convertRequest(model, input)
	if err != nil {
		return nil, err
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	r, err := translateResponse(resp)
	if err != nil {
		return nil, err
	}
	r.Request = input
	return r, nil
}

// Model returns the [ai.Model] with the given name.
// It returns nil if the model was not defined.
func Model(g *genkit.Genkit, name string) ai.Model {
	return genkit.LookupModel(g, provider, name)
}
