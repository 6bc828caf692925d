package cmd

import (
	"context"
	"log/slog"

	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/ingest"
	"github.com/habiliai/recallhub/intent"
	mygenkit "github.com/habiliai/recallhub/internal/genkit"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/loader"
	"github.com/habiliai/recallhub/memory"
	"github.com/habiliai/recallhub/search"
	"github.com/habiliai/recallhub/store"
	"github.com/pkg/errors"
)

// app holds the wired components shared by every sub command.
type app struct {
	conf    *config.Config
	logger  *slog.Logger
	store   store.VectorStore
	service *memory.Service
}

func newApp(ctx context.Context, flags *rootFlags) (*app, error) {
	conf, err := config.Load(flags.envFile)
	if err != nil {
		return nil, err
	}

	logger := mylog.NewLogger(conf.Log.LogLevel, conf.Log.LogHandler)
	slog.SetDefault(logger)

	var (
		generator llm.Generator
		embedder  llm.Embedder
	)
	if conf.AI.HasProvider() {
		g, err := mygenkit.NewGenkit(ctx, &conf.AI, &conf.Log, logger)
		if err != nil {
			return nil, err
		}
		generator = llm.NewGenkitGenerator(g, conf.AI.GenerationModel, conf.AI.ModelTimeout)
		e, err := llm.NewGenkitEmbedder(g, conf.AI.EmbeddingModel, conf.AI.ModelTimeout)
		if err != nil {
			return nil, err
		}
		embedder = e
	} else {
		logger.Warn("no model provider configured, classifying with rules and embedding with the hashing embedder",
			"dimension", conf.Store.Dimension)
		embedder = llm.NewHashEmbedder(conf.Store.Dimension)
	}

	vectorStore, err := store.Open(&conf.Store, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s store", conf.Store.Driver)
	}

	pageLoader, err := loader.New(&conf.FireCrawl, logger)
	if err != nil {
		_ = vectorStore.Close()
		return nil, err
	}

	pipeline := ingest.NewPipeline(classifier.New(generator, logger), embedder, vectorStore, logger)
	engine := search.NewEngine(intent.NewAnalyzer(generator, logger), embedder, vectorStore, &conf.Search, logger)

	return &app{
		conf:   conf,
		logger: logger,
		store:  vectorStore,
		service: memory.NewService(
			pipeline,
			engine,
			vectorStore,
			generator,
			conf.Server.DefaultOwner,
			logger,
			memory.WithLoader(pageLoader),
		),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}
