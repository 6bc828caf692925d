package config

import (
	"github.com/habiliai/recallhub/errors"
)

type SearchConfig struct {
	// DefaultLimit is used when a search request has no positive limit
	DefaultLimit int `env:"SEARCH_DEFAULT_LIMIT" envDefault:"10"`

	// OverFetchFactor multiplies the candidate window of a natural language
	// search when a price or author post-filter is active.
	// Actual retrieval count = limit × OverFetchFactor
	// 1 requests exactly limit candidates, so post-filtering may return
	// fewer results than requested
	OverFetchFactor int `env:"SEARCH_OVERFETCH_FACTOR" envDefault:"1"`
}

func (c *SearchConfig) Validate() error {
	if c.DefaultLimit <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "default search limit must be positive, got %d", c.DefaultLimit)
	}
	if c.OverFetchFactor < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "over-fetch factor must be at least 1, got %d", c.OverFetchFactor)
	}
	return nil
}
