package store

import (
	"encoding/json"
	"fmt"

	"github.com/habiliai/recallhub/entity"
	"gorm.io/gorm"
)

// sqlDialect renders filter conditions on a JSON metadata column. Keys are
// validated against keyPattern before they are interpolated.
type sqlDialect interface {
	eq(column, key string, value any) (string, []any)
	gte(column, key string, value any) (string, []any)
}

func applyFilter(tx *gorm.DB, d sqlDialect, column string, f Filter) *gorm.DB {
	for _, c := range f {
		var (
			clause string
			args   []any
		)
		switch c.Op {
		case OpEq:
			clause, args = d.eq(column, c.Key, c.Value)
		case OpGte:
			clause, args = d.gte(column, c.Key, c.Value)
		}
		tx = tx.Where(clause, args...)
	}
	return tx
}

type sqliteDialect struct{}

func (sqliteDialect) eq(column, key string, value any) (string, []any) {
	path := fmt.Sprintf("'$.%s'", key)
	if b, ok := value.(bool); ok {
		return fmt.Sprintf("json_extract(%s, %s) = ?", column, path), []any{boolToInt(b)}
	}
	if f, ok := entity.ToFloat(value); ok {
		return fmt.Sprintf("json_type(%s, %s) IN ('integer', 'real') AND json_extract(%s, %s) = ?", column, path, column, path), []any{f}
	}
	return fmt.Sprintf("json_type(%s, %s) = 'text' AND json_extract(%s, %s) = ?", column, path, column, path), []any{value}
}

func (sqliteDialect) gte(column, key string, value any) (string, []any) {
	path := fmt.Sprintf("'$.%s'", key)
	if f, ok := entity.ToFloat(value); ok {
		return fmt.Sprintf("json_type(%s, %s) IN ('integer', 'real') AND json_extract(%s, %s) >= ?", column, path, column, path), []any{f}
	}
	if _, ok := value.(string); ok {
		return fmt.Sprintf("json_type(%s, %s) = 'text' AND json_extract(%s, %s) >= ?", column, path, column, path), []any{value}
	}
	return "1 = 0", nil
}

type postgresDialect struct{}

func (postgresDialect) eq(column, key string, value any) (string, []any) {
	b, err := json.Marshal(map[string]any{key: value})
	if err != nil {
		return "1 = 0", nil
	}
	return fmt.Sprintf("%s @> CAST(? AS jsonb)", column), []any{string(b)}
}

func (postgresDialect) gte(column, key string, value any) (string, []any) {
	if f, ok := entity.ToFloat(value); ok {
		return fmt.Sprintf("CASE WHEN jsonb_typeof(%s->'%s') = 'number' THEN (%s->>'%s')::numeric >= ? ELSE false END", column, key, column, key), []any{f}
	}
	if _, ok := value.(string); ok {
		return fmt.Sprintf("jsonb_typeof(%s->'%s') = 'string' AND %s->>'%s' >= ?", column, key, column, key), []any{value}
	}
	return "1 = 0", nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
