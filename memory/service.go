// Package memory is the owner scoped facade over ingestion, search and the
// vector store that the HTTP, CLI and MCP surfaces share.
package memory

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/ingest"
	"github.com/habiliai/recallhub/internal/mylog"
	"github.com/habiliai/recallhub/llm"
	"github.com/habiliai/recallhub/loader"
	"github.com/habiliai/recallhub/metadata"
	"github.com/habiliai/recallhub/search"
	"github.com/habiliai/recallhub/store"
	"github.com/samber/lo"
)

const recentWindow = 7 * 24 * time.Hour

type Service struct {
	pipeline     *ingest.Pipeline
	engine       *search.Engine
	store        store.VectorStore
	generator    llm.Generator
	loader       loader.Loader
	defaultOwner string
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Service)

// WithLoader enables SaveURL.
func WithLoader(l loader.Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// NewService wires the facade. Requests without an owner act on
// defaultOwner. generator may be nil, context generation then returns
// excerpts of the memories instead of a summary.
func NewService(
	pipeline *ingest.Pipeline,
	engine *search.Engine,
	store store.VectorStore,
	generator llm.Generator,
	defaultOwner string,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		pipeline:     pipeline,
		engine:       engine,
		store:        store,
		generator:    generator,
		defaultOwner: defaultOwner,
		logger:       mylog.OrDefault(logger),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner resolves the identity a request acts on.
func (s *Service) Owner(owner string) string {
	if owner = strings.TrimSpace(owner); owner != "" {
		return owner
	}
	return s.defaultOwner
}

func (s *Service) Save(ctx context.Context, in entity.MemoryCreate) (*entity.SaveResult, error) {
	in.Owner = s.Owner(in.Owner)
	return s.pipeline.Ingest(ctx, in)
}

// SaveURL fetches the page at in.URL and ingests its readable text, with
// media extracted from the fetched markup. A title given by the caller wins
// over the page title.
func (s *Service) SaveURL(ctx context.Context, in entity.URLSave) (*entity.SaveResult, error) {
	if s.loader == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "saving by url is not enabled")
	}

	page, err := s.loader.Load(ctx, in.URL)
	if err != nil {
		return nil, err
	}

	title := in.Title
	if strings.TrimSpace(title) == "" {
		title = page.Title
	}
	return s.Save(ctx, entity.MemoryCreate{
		Owner:    in.Owner,
		Content:  page.Content,
		URL:      page.URL,
		Title:    title,
		RawHTML:  page.HTML,
		Metadata: in.Metadata,
	})
}

func (s *Service) SaveTyped(ctx context.Context, in entity.TypedSave) (*entity.SaveResult, error) {
	in.Owner = s.Owner(in.Owner)
	return s.pipeline.SaveTyped(ctx, in)
}

func (s *Service) Search(ctx context.Context, query, owner string, limit int, filters map[string]any) ([]entity.SearchResult, error) {
	return s.engine.SemanticSearch(ctx, query, s.Owner(owner), limit, filters)
}

func (s *Service) SearchNL(ctx context.Context, query, owner string, limit int) ([]entity.SearchResult, error) {
	return s.engine.NaturalLanguageSearch(ctx, query, s.Owner(owner), limit)
}

// Delete removes the record id when it belongs to owner. A missing record
// and a record of another owner both yield ErrNotFound.
func (s *Service) Delete(ctx context.Context, id, owner string) error {
	owner = s.Owner(owner)

	records, err := s.store.GetByFilter(ctx, s.ownerFilter(owner), id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "memory %s not found", id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info("memory deleted", "id", id, "owner", owner)
	return nil
}

func (s *Service) Stats(ctx context.Context, owner string) (*entity.Stats, error) {
	records, err := s.store.GetByFilter(ctx, s.ownerFilter(s.Owner(owner)))
	if err != nil {
		return nil, err
	}

	stats := &entity.Stats{
		Total:  len(records),
		ByType: map[string]int{},
	}
	weekAgo := entity.FormatTimestamp(s.now().Add(-recentWindow))
	for _, r := range records {
		contentType, _ := r.Metadata[entity.KeyContentType].(string)
		if contentType == "" {
			contentType = entity.ContentTypeNote.String()
		}
		stats.ByType[contentType]++

		if ts, _ := r.Metadata[entity.KeyTimestamp].(string); ts >= weekAgo {
			stats.RecentCount++
		}
	}

	return stats, nil
}

// ListAll returns every record of owner with decoded metadata, newest
// first.
func (s *Service) ListAll(ctx context.Context, owner string) ([]entity.MemoryRecord, error) {
	records, err := s.store.GetByFilter(ctx, s.ownerFilter(s.Owner(owner)))
	if err != nil {
		return nil, err
	}

	out := lo.Map(records, func(r store.Record, _ int) entity.MemoryRecord {
		return entity.MemoryRecord{
			ID:       r.ID,
			Content:  r.Document,
			Metadata: metadata.Decode(r.Metadata),
		}
	})
	slices.SortStableFunc(out, func(a, b entity.MemoryRecord) int {
		return cmp.Compare(timestampOf(b.Metadata), timestampOf(a.Metadata))
	})

	return out, nil
}

// ClearOwner deletes every record of owner and reports how many were
// removed.
func (s *Service) ClearOwner(ctx context.Context, owner string) (int, error) {
	return s.clear(ctx, s.ownerFilter(s.Owner(owner)))
}

// ClearAll deletes every record of every owner.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	return s.clear(ctx, nil)
}

func (s *Service) clear(ctx context.Context, filter store.Filter) (int, error) {
	records, err := s.store.GetByFilter(ctx, filter)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	ids := lo.Map(records, func(r store.Record, _ int) string { return r.ID })
	if err := s.store.DeleteByID(ctx, ids...); err != nil {
		return 0, err
	}

	s.logger.Info("memories cleared", "count", len(ids), "filter", filter)
	return len(ids), nil
}

func (s *Service) ownerFilter(owner string) store.Filter {
	return store.Where(store.Eq(entity.KeyOwner, owner))
}

func timestampOf(meta map[string]any) string {
	if ts, ok := meta[entity.KeyTimestamp].(string); ok && ts != "" {
		return ts
	}
	ts, _ := meta[entity.KeyTime].(string)
	return ts
}
