package config

import (
	"github.com/habiliai/recallhub/errors"
)

type FireCrawlConfig struct {
	APIKey string `env:"FIRECRAWL_API_KEY"`
	APIUrl string `env:"FIRECRAWL_API_URL" envDefault:"https://api.firecrawl.dev"`
}

func (c *FireCrawlConfig) Validate() error {
	if c.APIKey == "" {
		return errors.Wrapf(errors.ErrInvalidConfig, "api_key is required")
	}
	return nil
}

func (c *FireCrawlConfig) Enabled() bool {
	return c.APIKey != ""
}
