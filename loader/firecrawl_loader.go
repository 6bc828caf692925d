package loader

import (
	"context"
	"strings"

	"github.com/habiliai/recallhub/config"
	"github.com/habiliai/recallhub/errors"
	firecrawl "github.com/mendableai/firecrawl-go"
	"github.com/mokiat/gog"
)

type FirecrawlLoader struct {
	app *firecrawl.FirecrawlApp
}

var _ Loader = (*FirecrawlLoader)(nil)

func NewFirecrawlLoader(conf *config.FireCrawlConfig) (*FirecrawlLoader, error) {
	if err := conf.Validate(); err != nil {
		return nil, errors.Wrap(err, "FireCrawl configuration is invalid - check FIRECRAWL_API_KEY environment variable")
	}

	app, err := firecrawl.NewFirecrawlApp(conf.APIKey, conf.APIUrl)
	if err != nil {
		return nil, errors.Mark(errors.ErrInvalidConfig, err, "failed to create FireCrawl client")
	}

	return &FirecrawlLoader{app: app}, nil
}

// Load scrapes a single page. The ctx is not propagated since the client
// has no context aware API.
func (l *FirecrawlLoader) Load(_ context.Context, rawURL string) (*Page, error) {
	if _, err := validateURL(rawURL); err != nil {
		return nil, err
	}

	doc, err := l.app.ScrapeURL(rawURL, &firecrawl.ScrapeParams{
		Formats:         []string{"markdown", "html"},
		OnlyMainContent: gog.PtrOf(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scrape URL: %s", rawURL)
	}

	page := &Page{
		URL:     rawURL,
		Content: strings.TrimSpace(doc.Markdown),
		HTML:    doc.HTML,
	}
	if doc.Metadata != nil {
		if doc.Metadata.Title != nil {
			page.Title = strings.TrimSpace(*doc.Metadata.Title)
		}
		if doc.Metadata.SourceURL != nil && *doc.Metadata.SourceURL != "" {
			page.URL = *doc.Metadata.SourceURL
		}
	}
	if page.Content == "" {
		return nil, errors.Errorf("no content retrieved from URL: %s", rawURL)
	}

	return page, nil
}
