package media_test

import (
	"strings"
	"testing"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/media"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	markup := `
<html><body>
  <img src="https://cdn.example.com/hero.jpg" alt="hero">
  <img src='//cdn.example.com/side.png'>
  <img src="/relative/logo.png">
  <img src="https://track.example.com/pixel.gif">
  <img src="https://cdn.example.com/1x1.png">
  <img src="https://cdn.example.com/blank.gif">
  <img src="https://cdn.example.com/hero.jpg">
  <video src="https://cdn.example.com/clip.mp4"></video>
  <video src="clip-local.mp4"></video>
  <video controls>
    <source src="https://cdn.example.com/movie.webm" type="video/webm">
    <source src="https://cdn.example.com/poster.webp">
    <source src="https://cdn.example.com/track.vtt">
    <source src="/local.mp4">
  </video>
  <iframe src="https://www.youtube.com/embed/abc123"></iframe>
  <iframe src="https://player.vimeo.com/video/42"></iframe>
  <iframe src="https://ads.example.com/frame?ref=youtube.com"></iframe>
  <iframe src="/embed/twitch.tv"></iframe>
</body></html>`

	got := media.Extract(markup)

	assert.Equal(t, []entity.Media{
		{Type: entity.MediaTypeImage, URL: "https://cdn.example.com/hero.jpg"},
		{Type: entity.MediaTypeImage, URL: "//cdn.example.com/side.png"},
		{Type: entity.MediaTypeVideo, URL: "https://cdn.example.com/clip.mp4"},
		{Type: entity.MediaTypeVideo, URL: "https://cdn.example.com/movie.webm"},
		{Type: entity.MediaTypeImage, URL: "https://cdn.example.com/poster.webp"},
		{Type: entity.MediaTypeVideo, URL: "https://www.youtube.com/embed/abc123"},
		{Type: entity.MediaTypeVideo, URL: "https://player.vimeo.com/video/42"},
	}, got)
}

func TestExtractDeduplicatesAcrossRules(t *testing.T) {
	got := media.Extract(`
<video src="https://cdn.example.com/a.mp4"><source src="https://cdn.example.com/a.mp4"></video>`)

	assert.Equal(t, []entity.Media{
		{Type: entity.MediaTypeVideo, URL: "https://cdn.example.com/a.mp4"},
	}, got)
}

func TestExtractNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain text without tags",
		"<img src=",
		"<<<>>><img src='https://x.com/a.png'",
		"<iframe src='https://[::1'></iframe>",
		strings.Repeat("<div>", 500),
	}

	for _, in := range inputs {
		got := media.Extract(in)
		assert.NotNil(t, got)

		seen := map[string]bool{}
		for _, m := range got {
			assert.False(t, seen[m.URL], "duplicate %s", m.URL)
			seen[m.URL] = true
			assert.True(t, strings.HasPrefix(m.URL, "http") || strings.HasPrefix(m.URL, "//"), m.URL)
		}
	}
}
