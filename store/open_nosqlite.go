//go:build without_sqlite

package store

import "github.com/habiliai/recallhub/errors"

func openSqlite(string, int) (VectorStore, error) {
	return nil, errors.Wrapf(errors.ErrInvalidConfig, "binary was built without sqlite support")
}
