package loader

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/habiliai/recallhub/errors"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

const (
	maxResponseSize     = 2 << 20
	defaultFetchTimeout = 15 * time.Second
	userAgent           = "recallhub/1.0 (+https://github.com/habiliai/recallhub)"
)

type HTTPLoader struct {
	client *http.Client
	policy *bluemonday.Policy
}

var _ Loader = (*HTTPLoader)(nil)

// NewHTTPLoader creates a loader using client, or a client with a 15s
// timeout when nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	// user generated content policy plus the media elements the extractor
	// looks at
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("video", "source", "iframe")
	policy.AllowAttrs("src", "type").OnElements("video", "source")
	policy.AllowAttrs("src").OnElements("iframe")

	return &HTTPLoader{client: client, policy: policy}
}

func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (*Page, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch url %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.Errorf("failed to fetch url %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read body of %s", rawURL)
	}

	page := &Page{URL: rawURL}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body))); err == nil {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	page.HTML = l.policy.Sanitize(string(body))
	text, err := html2text.FromString(page.HTML, html2text.Options{
		OmitLinks:    true,
		PrettyTables: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to convert %s to text", rawURL)
	}
	page.Content = strings.TrimSpace(text)

	if page.Content == "" {
		return nil, errors.Errorf("no content retrieved from URL: %s", rawURL)
	}

	return page, nil
}
