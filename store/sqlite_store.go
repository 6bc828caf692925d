//go:build !without_sqlite

package store

import (
	"context"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/habiliai/recallhub/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SqliteStore implements VectorStore using SQLite with the sqlite-vec
// extension. Records live in a regular table, embeddings in a vec0 virtual
// table keyed by record id.
type SqliteStore struct {
	db     *gorm.DB
	vecDim int
}

type SqliteMemoryRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Document string
	Metadata datatypes.JSONType[map[string]any]
}

func (SqliteMemoryRecord) TableName() string {
	return "memories"
}

var _ VectorStore = (*SqliteStore)(nil)

// NewSqliteStore opens (creating when needed) the database at dbPath.
func NewSqliteStore(dbPath string, dimension int) (*SqliteStore, error) {
	sqlite_vec.Auto()

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on", dbPath)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to open sqlite database")
	}

	s := &SqliteStore{
		db:     db,
		vecDim: dimension,
	}

	if err := db.AutoMigrate(&SqliteMemoryRecord{}); err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to migrate memories table")
	}

	if err := s.createVectorTable(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SqliteStore) createVectorTable() error {
	var sqliteVersion, vecVersion string
	err := s.db.Raw("SELECT sqlite_version(), vec_version()").Row().Scan(&sqliteVersion, &vecVersion)
	if err != nil {
		return errors.Mark(errors.ErrStore, err, "sqlite-vec extension not properly loaded")
	}

	createTableSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS memory_vectors USING vec0(
			memory_id TEXT PRIMARY KEY,
			embedding float[%d]
		);
	`, s.vecDim)

	if err := s.db.Exec(createTableSQL).Error; err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to create memory_vectors table")
	}

	return nil
}

func (s *SqliteStore) Upsert(ctx context.Context, id string, vector []float32, document string, metadata map[string]any) error {
	if err := validateUpsert(id, vector, metadata); err != nil {
		return err
	}
	if len(vector) != s.vecDim {
		return errors.Wrapf(errors.ErrValidation, "embedding dimension %d does not match store dimension %d", len(vector), s.vecDim)
	}

	serialized, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to serialize embedding")
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := SqliteMemoryRecord{
			ID:       id,
			Document: document,
			Metadata: datatypes.NewJSONType(metadata),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "metadata", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return errors.Wrapf(err, "failed to save memory record")
		}

		if err := tx.Exec("DELETE FROM memory_vectors WHERE memory_id = ?", id).Error; err != nil {
			return errors.Wrapf(err, "failed to delete existing vector")
		}
		if err := tx.Exec("INSERT INTO memory_vectors (memory_id, embedding) VALUES (?, ?)", id, serialized).Error; err != nil {
			return errors.Wrapf(err, "failed to insert memory vector")
		}

		return nil
	}); err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to upsert memory %s", id)
	}

	return nil
}

type sqliteMatchRow struct {
	ID       string
	Document string
	Metadata datatypes.JSONType[map[string]any]
	Distance float64
}

func (s *SqliteStore) QueryByVector(ctx context.Context, vector []float32, k int, filter Filter) ([]Match, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 || len(vector) == 0 {
		return []Match{}, nil
	}
	if len(vector) != s.vecDim {
		return nil, errors.Wrapf(errors.ErrValidation, "query dimension %d does not match store dimension %d", len(vector), s.vecDim)
	}

	serializedQuery, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to serialize query embedding")
	}

	tx := s.db.WithContext(ctx).
		Table("memory_vectors AS v").
		Select("m.id AS id, m.document AS document, m.metadata AS metadata, vec_distance_cosine(v.embedding, ?) AS distance", serializedQuery).
		Joins("JOIN memories AS m ON m.id = v.memory_id")
	tx = applyFilter(tx, sqliteDialect{}, "m.metadata", filter)

	var rows []sqliteMatchRow
	if err := tx.Order("distance ASC").Order("m.id ASC").Limit(k).Scan(&rows).Error; err != nil {
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

func (s *SqliteStore) GetByFilter(ctx context.Context, filter Filter, ids ...string) ([]Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Model(&SqliteMemoryRecord{})
	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}
	tx = applyFilter(tx, sqliteDialect{}, "metadata", filter)

	var rows []SqliteMemoryRecord
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, errors.Mark(errors.ErrStore, err, "failed to fetch memory records")
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:       row.ID,
			Document: row.Document,
			Metadata: nonNilMap(row.Metadata.Data()),
		})
	}

	return records, nil
}

func (s *SqliteStore) DeleteByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM memory_vectors WHERE memory_id IN ?", ids).Error; err != nil {
			return errors.Wrapf(err, "failed to delete vectors")
		}
		if err := tx.Delete(&SqliteMemoryRecord{}, "id IN ?", ids).Error; err != nil {
			return errors.Wrapf(err, "failed to delete memory records")
		}
		return nil
	}); err != nil {
		return errors.Mark(errors.ErrStore, err, "failed to delete memories")
	}

	return nil
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
