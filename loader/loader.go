// Package loader fetches a web page for saving by URL.
package loader

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/internal/mylog"
)

type (
	// Page is a fetched document. Content is the readable text or markdown
	// that is embedded, HTML the sanitised markup media is extracted from.
	Page struct {
		URL     string
		Title   string
		Content string
		HTML    string
	}

	Loader interface {
		Load(ctx context.Context, rawURL string) (*Page, error)
	}
)

// New returns a Firecrawl loader when an API key is configured and a plain
// HTTP loader otherwise.
func New(conf *config.FireCrawlConfig, logger *slog.Logger) (Loader, error) {
	logger = mylog.OrDefault(logger)
	if conf != nil && conf.Enabled() {
		logger.Debug("loading pages with firecrawl", "api_url", conf.APIUrl)
		return NewFirecrawlLoader(conf)
	}
	logger.Debug("loading pages over plain http")
	return NewHTTPLoader(nil), nil
}

func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, errors.Mark(errors.ErrValidation, err, "invalid url %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrapf(errors.ErrValidation, "url %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "url %q has no host", rawURL)
	}
	return u, nil
}
