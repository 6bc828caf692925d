package config

import (
	"github.com/habiliai/recallhub/errors"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverSqlite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

type StoreConfig struct {
	// Driver selects the vector store implementation: memory, sqlite or postgres
	Driver string `env:"STORE_DRIVER" envDefault:"sqlite"`

	// SqlitePath is the database file used by the sqlite driver
	SqlitePath string `env:"STORE_SQLITE_PATH" envDefault:"recallhub.db"`

	// PostgresDSN is required by the postgres driver, the database must have
	// the vector extension available
	PostgresDSN string `env:"STORE_POSTGRES_DSN"`

	// Dimension must match the output size of the embedding model
	Dimension int `env:"EMBEDDING_DIMENSION" envDefault:"1536"`
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverMemory, StoreDriverSqlite:
	case StoreDriverPostgres:
		if c.PostgresDSN == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "STORE_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown store driver %q", c.Driver)
	}
	if c.Dimension <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "embedding dimension must be positive, got %d", c.Dimension)
	}
	return nil
}
