package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/habiliai/recallhub/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Log       LogConfig
	AI        AIConfig
	Store     StoreConfig
	Search    SearchConfig
	Server    ServerConfig
	FireCrawl FireCrawlConfig
}

// Load reads the given dotenv files (missing ones are skipped) into the
// process environment and parses the configuration from it.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "failed to load env file %s", f)
		}
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Mark(errors.ErrInvalidConfig, err, "failed to parse config")
	}

	return c, c.Validate()
}

func (c *Config) Validate() error {
	if err := c.AI.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Search.Validate()
}
