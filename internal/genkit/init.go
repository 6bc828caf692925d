package genkit

import (
	"context"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/genkit"
	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/internal/genkit/plugins/anthropic"
	"github.com/habiliai/recallhub/internal/genkit/plugins/compat"
	"github.com/habiliai/recallhub/internal/genkit/plugins/openai"
	"github.com/habiliai/recallhub/internal/genkit/plugins/xai"
	"github.com/pkg/errors"
)

const compatProvider = "compat"

// NewGenkit registers a plugin for every provider that has credentials and
// logs spans through logger.
func NewGenkit(
	ctx context.Context,
	aiConf *config.AIConfig,
	logConf *config.LogConfig,
	logger *slog.Logger,
) (*genkit.Genkit, error) {
	var plugins []genkit.Plugin
	if aiConf.OpenAIAPIKey != "" {
		plugins = append(plugins, &openai.Plugin{
			APIKey: aiConf.OpenAIAPIKey,
		})
	}
	if aiConf.AnthropicAPIKey != "" {
		plugins = append(plugins, &anthropic.Plugin{
			APIKey:         aiConf.AnthropicAPIKey,
			RequestTimeout: aiConf.ModelTimeout,
		})
	}
	if aiConf.XAIAPIKey != "" {
		plugins = append(plugins, &xai.Plugin{
			APIKey: aiConf.XAIAPIKey,
		})
	}
	if aiConf.CompatAPIKey != "" {
		plugin := &compat.Plugin{
			APIKey:  aiConf.CompatAPIKey,
			BaseURL: aiConf.CompatBaseURL,
		}
		if name, ok := compatModelName(aiConf.GenerationModel); ok {
			plugin.Models = append(plugin.Models, name)
		}
		if name, ok := compatModelName(aiConf.EmbeddingModel); ok {
			plugin.Embedders = append(plugin.Embedders, name)
		}
		plugins = append(plugins, plugin)
	}

	g, err := genkit.Init(
		ctx,
		genkit.WithPlugins(plugins...),
		genkit.WithDefaultModel(aiConf.GenerationModel),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init genkit")
	}

	genkit.RegisterSpanProcessor(g,
		&loggingSpanProcessor{
			verbose: logConf.TraceVerbose,
			logger:  logger,
		},
	)

	return g, nil
}

// compatModelName strips the compat provider prefix. Names may contain
// further slashes, e.g. "compat/qwen/qwen3-8b".
func compatModelName(model string) (string, bool) {
	provider, name, ok := strings.Cut(model, "/")
	if !ok || provider != compatProvider || name == "" {
		return "", false
	}
	return name, true
}
