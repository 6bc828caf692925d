// Package media finds image and video URLs in saved page markup.
package media

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/habiliai/recallhub/entity"
	"github.com/samber/lo"
)

var (
	imageDenylist = []string{"pixel", "tracker", "1x1", "spacer", "blank.gif"}

	videoExtensions = []string{".mp4", ".webm", ".ogg", ".mov"}
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

	videoHosts = []string{"youtube.com", "vimeo.com", "dailymotion.com", "twitch.tv"}
)

// Extract returns the media referenced by markup: img sources, video
// sources, source tags and embedded video players, in that order, each URL
// kept once. It performs no network access and never fails; unparseable
// markup yields no media.
func Extract(markup string) []entity.Media {
	if strings.TrimSpace(markup) == "" {
		return []entity.Media{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return []entity.Media{}
	}

	var found []entity.Media
	add := func(t entity.MediaType, u string) {
		found = append(found, entity.Media{Type: t, URL: u})
	}

	eachSrc(doc, "img", func(src string) {
		lower := strings.ToLower(src)
		if containsAny(lower, imageDenylist) || !isAbsolute(src) {
			return
		}
		add(entity.MediaTypeImage, src)
	})

	eachSrc(doc, "video", func(src string) {
		if isAbsolute(src) {
			add(entity.MediaTypeVideo, src)
		}
	})

	eachSrc(doc, "source", func(src string) {
		if !isAbsolute(src) {
			return
		}
		lower := strings.ToLower(src)
		switch {
		case containsAny(lower, videoExtensions):
			add(entity.MediaTypeVideo, src)
		case containsAny(lower, imageExtensions):
			add(entity.MediaTypeImage, src)
		}
	})

	eachSrc(doc, "iframe", func(src string) {
		if isAbsolute(src) && isVideoHost(src) {
			add(entity.MediaTypeVideo, src)
		}
	})

	return lo.UniqBy(found, func(m entity.Media) string {
		return m.URL
	})
}

func eachSrc(doc *goquery.Document, tag string, fn func(src string)) {
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		if src = strings.TrimSpace(src); src != "" {
			fn(src)
		}
	})
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http") || strings.HasPrefix(u, "//")
}

func isVideoHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return lo.SomeBy(videoHosts, func(h string) bool {
		return host == h || strings.HasSuffix(host, "."+h)
	})
}

func containsAny(s string, subs []string) bool {
	return lo.SomeBy(subs, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}
