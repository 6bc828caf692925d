package store

import (
	"context"
	"fmt"
	"time"

	"github.com/habiliai/recallhub/errors"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresStore implements VectorStore on Postgres with the pgvector
// extension. Metadata is stored as jsonb next to the embedding.
type PostgresStore struct {
	db     *gorm.DB
	vecDim int
}

type PostgresMemoryRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Document  string
	Metadata  datatypes.JSONType[map[string]any] `gorm:"type:jsonb"`
	Embedding pgvector.Vector
}

func (PostgresMemoryRecord) TableName() string {
	return "memories"
}

var _ VectorStore = (*PostgresStore)(nil)

func NewPostgresStore(dsn string, dimension int) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to connect to postgres")
	}

	s := &PostgresStore{
		db:     db,
		vecDim: dimension,
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) migrate() error {
	if err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to enable pgvector extension")
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS memories (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			document TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(%d) NOT NULL
		);
	`, s.vecDim)
	if err := s.db.Exec(createTableSQL).Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to create memories table")
	}

	if err := s.db.Exec("CREATE INDEX IF NOT EXISTS memories_metadata_idx ON memories USING gin (metadata)").Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to create metadata index")
	}

	return nil
}

func (s *PostgresStore) Upsert(ctx context.Context, id string, vector []float32, document string, metadata map[string]any) error {
	if err := validateUpsert(id, vector, metadata); err != nil {
		return err
	}
	if len(vector) != s.vecDim {
		return errors.Wrapf(errors.ErrValidation, "embedding dimension %d does not match store dimension %d", len(vector), s.vecDim)
	}

	record := PostgresMemoryRecord{
		ID:        id,
		Document:  document,
		Metadata:  datatypes.NewJSONType(metadata),
		Embedding: pgvector.NewVector(vector),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "metadata", "embedding", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to upsert memory %s", id)
	}

	return nil
}

type postgresMatchRow struct {
	ID       string
	Document string
	Metadata datatypes.JSONType[map[string]any]
	Distance float64
}

func (s *PostgresStore) QueryByVector(ctx context.Context, vector []float32, k int, filter Filter) ([]Match, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 || len(vector) == 0 {
		return []Match{}, nil
	}
	if len(vector) != s.vecDim {
		return nil, errors.Wrapf(errors.ErrValidation, "query dimension %d does not match store dimension %d", len(vector), s.vecDim)
	}

	query := pgvector.NewVector(vector)
	tx := s.db.WithContext(ctx).
		Model(&PostgresMemoryRecord{}).
		Select("id, document, metadata, embedding <=> ? AS distance", query)
	tx = applyFilter(tx, postgresDialect{}, "metadata", filter)

	var rows []postgresMatchRow
	if err := tx.Order("distance ASC").Order("id ASC").Limit(k).Scan(&rows).Error; err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to execute search query")
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			Record: Record{
				ID:       row.ID,
				Document: row.Document,
				Metadata: nonNilMap(row.Metadata.Data()),
			},
			Distance: float32(row.Distance),
		})
	}

	return matches, nil
}

func (s *PostgresStore) GetByFilter(ctx context.Context, filter Filter, ids ...string) ([]Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&PostgresMemoryRecord{})
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}
	tx = applyFilter(tx, postgresDialect{}, "metadata", filter)

	var rows []PostgresMemoryRecord
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to fetch memory records")
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:        row.ID,
			Document:  row.Document,
			Embedding: row.Embedding.Slice(),
			Metadata:  nonNilMap(row.Metadata.Data()),
		})
	}

	return records, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&PostgresMemoryRecord{}, "id IN ?", ids).Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to delete memories")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
