// Package ingest turns saved content into persisted memory records.
package ingest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/internal/stringutils"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/media"
	"github.com/habiliai/recallhub/metadata"
	"github.com/habiliai/recallhub/store"
)

const StatusSuccess = "success"

type (
	Pipeline struct {
		classifier *classifier.Classifier
		embedder   llm.Embedder
		store      store.VectorStore
		logger     *slog.Logger

		now   func() time.Time
		newID func() string
	}

	Option func(*Pipeline)
)

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		p.newID = newID
	}
}

func NewPipeline(
	classifier *classifier.Classifier,
	embedder llm.Embedder,
	store store.VectorStore,
	logger *slog.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		classifier: classifier,
		embedder:   embedder,
		store:      store,
		logger:     mylog.OrDefault(logger),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest extracts media from the raw HTML, classifies and embeds the content
// and writes exactly one record. Nothing is written when any step fails.
// Ingesting the same content twice creates two records.
func (p *Pipeline) Ingest(ctx context.Context, in entity.MemoryCreate) (*entity.SaveResult, error) {
	in.Content = stringutils.Sanitize(in.Content)
	in.Title = stringutils.Sanitize(in.Title)
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "content is required")
	}

	var found []entity.Media
	if in.RawHTML != "" {
		found = media.Extract(in.RawHTML)
	}

	classification := p.classifier.Classify(ctx, in.URL, in.Title, in.Content)

	embedding, err := p.embedder.Embed(ctx, in.Content)
	if err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "failed to embed content")
	}

	meta := metadata.Merge(metadata.MergeInput{
		Owner:          in.Owner,
		URL:            in.URL,
		Title:          in.Title,
		Content:        in.Content,
		Classification: classification,
		Media:          found,
		Timestamp:      p.now(),
		UserMetadata:   in.Metadata,
	})

	id := p.newID()
	if err := p.store.Upsert(ctx, id, embedding, in.Content, meta); err != nil {
		if errors.Is(err, errors.ErrValidation) {
			return nil, err
		}
		return nil, errors.Mark(errors.ErrStore, err, "failed to store memory")
	}

	p.logger.Info("memory saved",
		"id", id,
		"content_type", meta[entity.KeyContentType],
		"classified_by", classification.Source,
		"media", len(found),
	)

	return &entity.SaveResult{
		ID:       id,
		Status:   StatusSuccess,
		Metadata: metadata.Decode(meta),
	}, nil
}

// SaveTyped stores content whose type the caller already knows. No
// classification or media extraction is performed.
func (p *Pipeline) SaveTyped(ctx context.Context, in entity.TypedSave) (*entity.SaveResult, error) {
	in.Text = stringutils.Sanitize(in.Text)
	in.Title = stringutils.Sanitize(in.Title)
	if strings.TrimSpace(in.Text) == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "text is required")
	}

	embedding, err := p.embedder.Embed(ctx, in.Text)
	if err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "failed to embed content")
	}

	ts := entity.FormatTimestamp(p.now())
	meta := map[string]any{
		entity.KeySource: in.Source,
		entity.KeyURL:    in.URL,
		entity.KeyTitle:  in.Title,
	}
	if strings.TrimSpace(in.Title) == "" {
		meta[entity.KeyTitle] = "Untitled"
	}
	for k, v := range in.Metadata {
		meta[k] = v
	}

	contentType := in.ContentType
	if userType, ok := in.Metadata[entity.KeyContentType].(string); ok && strings.TrimSpace(contentType) == "" {
		contentType = userType
	}
	meta[entity.KeyContentType] = metadata.NormalizeContentType(contentType).String()
	meta[entity.KeyOwner] = in.Owner
	meta[entity.KeyTimestamp] = ts
	meta[entity.KeyTime] = ts
	meta = metadata.Encode(meta)

	id := p.newID()
	if err := p.store.Upsert(ctx, id, embedding, in.Text, meta); err != nil {
		if errors.Is(err, errors.ErrValidation) {
			return nil, err
		}
		return nil, errors.Mark(errors.ErrStore, err, "failed to store content")
	}

	p.logger.Info("content saved", "id", id, "content_type", meta[entity.KeyContentType])

	return &entity.SaveResult{
		ID:       id,
		Status:   StatusSuccess,
		Metadata: metadata.Decode(meta),
	}, nil
}
