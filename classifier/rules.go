package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/habiliai/recallhub/entity"
	"github.com/samber/lo"
)

var (
	marketplaceSites     = []string{"amazon.com", "amazon.in", "ebay.com", "etsy.com", "shopify", "flipkart"}
	bookSites            = []string{"goodreads.com", "books.google.com", "amazon.com/dp/", "amazon.com/gp/product"}
	articlePlatformSites = []string{"medium.com", "dev.to", "substack.com", "hashnode"}
	imageExtensions      = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}
	todoIndicators       = []string{"[ ]", "[x]", "todo", "task"}

	pricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d,]+\.?\d*`),
		regexp.MustCompile(`₹[\d,]+\.?\d*`),
		regexp.MustCompile(`€[\d,]+\.?\d*`),
		regexp.MustCompile(`£[\d,]+\.?\d*`),
	}

	authorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`by ([A-Z][a-z]+ [A-Z][a-z]+)`),
		regexp.MustCompile(`Author: ([A-Za-z\s]+)`),
	}
)

const youtubeThumbnailURL = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

// DetectBasic classifies content from URL patterns and content markers
// alone. It is total: every input, empty ones included, yields a result
// whose "type" is part of the vocabulary, "article" when nothing matches.
func DetectBasic(url, content, title string) map[string]any {
	fields := map[string]any{entity.KeyType: entity.ContentTypeArticle.String()}
	urlLower := strings.ToLower(url)
	contentLower := strings.ToLower(content)

	setType := func(t entity.ContentType) {
		fields[entity.KeyType] = t.String()
	}

	switch {
	case strings.Contains(urlLower, "youtube.com") || strings.Contains(urlLower, "youtu.be"):
		setType(entity.ContentTypeVideo)
		fields[entity.KeyPlatform] = "youtube"
		if id := youtubeVideoID(url); id != "" {
			fields[entity.KeyVideoID] = id
			fields[entity.KeyThumbnail] = fmt.Sprintf(youtubeThumbnailURL, id)
		}

	case strings.Contains(urlLower, "vimeo.com"):
		setType(entity.ContentTypeVideo)
		fields[entity.KeyPlatform] = "vimeo"

	case containsAny(urlLower, marketplaceSites):
		setType(entity.ContentTypeProduct)
		for _, p := range pricePatterns {
			if m := p.FindString(content); m != "" {
				fields[entity.KeyPrice] = m
				break
			}
		}
		if strings.Contains(urlLower, "amazon") {
			fields[entity.KeyBrand] = "Amazon"
		}

	case containsAny(urlLower, bookSites):
		setType(entity.ContentTypeBook)
		for _, p := range authorPatterns {
			if m := p.FindStringSubmatch(content); m != nil {
				if author := strings.TrimSpace(m[1]); author != "" {
					fields[entity.KeyAuthor] = author
					break
				}
			}
		}

	case strings.Contains(urlLower, "twitter.com") || hostMatches(urlLower, "x.com"):
		setType(entity.ContentTypeTweet)
		fields[entity.KeyPlatform] = "twitter"

	case strings.Contains(urlLower, "github.com"):
		setType(entity.ContentTypeCode)
		fields[entity.KeyPlatform] = "github"
		if owner, name, ok := githubRepo(url); ok {
			fields[entity.KeyRepoOwner] = owner
			fields[entity.KeyRepoName] = name
		}

	case containsAny(urlLower, articlePlatformSites):
		setType(entity.ContentTypeArticle)
		if host := hostOf(url); host != "" {
			fields[entity.KeyPlatform] = host
		}

	case strings.Contains(urlLower, "wikipedia.org"):
		setType(entity.ContentTypeArticle)
		fields[entity.KeyPlatform] = "wikipedia"

	case strings.Contains(urlLower, "reddit.com"):
		setType(entity.ContentTypeDiscussion)
		fields[entity.KeyPlatform] = "reddit"

	case strings.Contains(urlLower, "stackoverflow.com"):
		setType(entity.ContentTypeQA)
		fields[entity.KeyPlatform] = "stackoverflow"

	case containsAny(urlLower, imageExtensions):
		setType(entity.ContentTypeImage)
		fields[entity.KeyImageURL] = url

	case containsAny(contentLower, todoIndicators):
		setType(entity.ContentTypeTodo)
		if tasks := extractTasks(content); len(tasks) > 0 {
			fields[entity.KeyTasks] = tasks
		}

	case strings.HasPrefix(content, `"`) || strings.HasPrefix(content, "“") ||
		strings.Contains(strings.ToLower(title), "quote"):
		setType(entity.ContentTypeQuote)
	}

	return fields
}

func youtubeVideoID(url string) string {
	var id string
	if _, after, ok := strings.Cut(url, "v="); ok {
		id, _, _ = strings.Cut(after, "&")
	} else if _, after, ok := strings.Cut(url, "youtu.be/"); ok {
		id, _, _ = strings.Cut(after, "?")
	}
	id, _, _ = strings.Cut(id, "#")
	return strings.Trim(id, "/ ")
}

func githubRepo(url string) (owner, name string, ok bool) {
	_, path, found := strings.Cut(url, "github.com/")
	if !found {
		return "", "", false
	}
	path, _, _ = strings.Cut(path, "?")
	path, _, _ = strings.Cut(path, "#")

	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", false
	}
	return segments[0], segments[1], true
}

func extractTasks(content string) []entity.Task {
	var tasks []entity.Task
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "[ ]") && !strings.Contains(lower, "[x]") {
			continue
		}
		text := strings.NewReplacer("[ ]", "", "[x]", "", "[X]", "").Replace(line)
		text = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(text), "-*"))
		if text == "" {
			continue
		}
		tasks = append(tasks, entity.Task{
			Text:      text,
			Completed: strings.Contains(lower, "[x]"),
		})
	}
	return tasks
}

// hostOf returns the host segment of a URL that may lack a scheme.
func hostOf(url string) string {
	rest := url
	if _, after, ok := strings.Cut(url, "//"); ok {
		rest = after
	}
	host, _, _ := strings.Cut(rest, "/")
	host, _, _ = strings.Cut(host, "?")
	return host
}

func hostMatches(urlLower, domain string) bool {
	host := hostOf(urlLower)
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	host, _, _ = strings.Cut(host, ":")
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func containsAny(s string, subs []string) bool {
	return lo.SomeBy(subs, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}
