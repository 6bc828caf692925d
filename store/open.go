package store

import (
	"log/slog"

	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/errors"
)

// Open creates the store selected by conf.Driver.
func Open(conf *config.StoreConfig, logger *slog.Logger) (VectorStore, error) {
	switch conf.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, memories are lost on exit")
		return NewInMemoryStore(), nil
	case config.StoreDriverSqlite:
		logger.Info("opening sqlite store", "path", conf.SqlitePath, "dimension", conf.Dimension)
		return openSqlite(conf.SqlitePath, conf.Dimension)
	case config.StoreDriverPostgres:
		logger.Info("opening postgres store", "dimension", conf.Dimension)
		return NewPostgresStore(conf.PostgresDSN, conf.Dimension)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown store driver %q", conf.Driver)
	}
}
