//go:build !without_sqlite

package store

func openSqlite(path string, dimension int) (VectorStore, error) {
	return NewSqliteStore(path, dimension)
}
