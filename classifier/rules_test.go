package classifier_test

import (
	"testing"

	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/entity"
	"github.com/stretchr/testify/assert"
)

func TestDetectBasic(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		content string
		title   string
		want    map[string]any
	}{
		{
			name: "youtube watch url",
			url:  "https://www.youtube.com/watch?v=abc123&t=42s",
			want: map[string]any{
				"type":      "video",
				"platform":  "youtube",
				"video_id":  "abc123",
				"thumbnail": "https://img.youtube.com/vi/abc123/maxresdefault.jpg",
			},
		},
		{
			name: "youtu.be short url",
			url:  "https://youtu.be/xyz789?si=share",
			want: map[string]any{
				"type":      "video",
				"platform":  "youtube",
				"video_id":  "xyz789",
				"thumbnail": "https://img.youtube.com/vi/xyz789/maxresdefault.jpg",
			},
		},
		{
			name: "youtube without id",
			url:  "https://www.youtube.com/feed/trending",
			want: map[string]any{"type": "video", "platform": "youtube"},
		},
		{
			name: "vimeo",
			url:  "https://vimeo.com/123456",
			want: map[string]any{"type": "video", "platform": "vimeo"},
		},
		{
			name:    "amazon product with dollar price",
			url:     "https://www.amazon.com/Wireless-Headphones/dp/B000",
			content: "Wireless Bluetooth Headphones\nPrice: $49.99",
			want:    map[string]any{"type": "product", "price": "$49.99", "brand": "Amazon"},
		},
		{
			name:    "flipkart product with rupee price",
			url:     "https://www.flipkart.com/item",
			content: "Kettle now at ₹1,299.00 only",
			want:    map[string]any{"type": "product", "price": "₹1,299.00"},
		},
		{
			name:    "dollar pattern wins over earlier euro token",
			url:     "https://www.ebay.com/itm/1",
			content: "€20 in Europe, $25 in US",
			want:    map[string]any{"type": "product", "price": "$25"},
		},
		{
			name:    "product without price",
			url:     "https://someshop.myshopify.com/products/mug",
			content: "A nice mug",
			want:    map[string]any{"type": "product"},
		},
		{
			name:    "goodreads book by author",
			url:     "https://www.goodreads.com/book/show/1",
			content: "Dune by Frank Herbert is a classic",
			want:    map[string]any{"type": "book", "author": "Frank Herbert"},
		},
		{
			name:    "google books author label",
			url:     "https://books.google.com/books?id=1",
			content: "Author: Ursula Le Guin",
			want:    map[string]any{"type": "book", "author": "Ursula Le Guin"},
		},
		{
			name: "twitter",
			url:  "https://twitter.com/karpathy/status/1",
			want: map[string]any{"type": "tweet", "platform": "twitter"},
		},
		{
			name: "x.com",
			url:  "https://x.com/karpathy/status/1",
			want: map[string]any{"type": "tweet", "platform": "twitter"},
		},
		{
			name: "domain ending in x.com is not twitter",
			url:  "https://www.netflix.com/title/1",
			want: map[string]any{"type": "article"},
		},
		{
			name: "github repository",
			url:  "https://github.com/habiliai/agentruntime/tree/main",
			want: map[string]any{"type": "code", "platform": "github", "repo_owner": "habiliai", "repo_name": "agentruntime"},
		},
		{
			name: "github without repo",
			url:  "https://github.com/habiliai",
			want: map[string]any{"type": "code", "platform": "github"},
		},
		{
			name: "medium article",
			url:  "https://medium.com/@someone/post-1",
			want: map[string]any{"type": "article", "platform": "medium.com"},
		},
		{
			name: "dev.to without scheme",
			url:  "dev.to/someone/post",
			want: map[string]any{"type": "article", "platform": "dev.to"},
		},
		{
			name: "wikipedia",
			url:  "https://en.wikipedia.org/wiki/Go",
			want: map[string]any{"type": "article", "platform": "wikipedia"},
		},
		{
			name: "reddit",
			url:  "https://www.reddit.com/r/golang/comments/1",
			want: map[string]any{"type": "discussion", "platform": "reddit"},
		},
		{
			name: "stackoverflow",
			url:  "https://stackoverflow.com/questions/1",
			want: map[string]any{"type": "qa", "platform": "stackoverflow"},
		},
		{
			name: "image url",
			url:  "https://cdn.example.com/photos/cat.JPG",
			want: map[string]any{"type": "image", "image_url": "https://cdn.example.com/photos/cat.JPG"},
		},
		{
			name:    "todo list",
			content: "Groceries\n- [ ] milk\n- [x] eggs\n[ ]\nnotes",
			want: map[string]any{"type": "todo", "tasks": []entity.Task{
				{Text: "milk", Completed: false},
				{Text: "eggs", Completed: true},
			}},
		},
		{
			name:    "todo keyword without checkboxes",
			content: "TODO call the bank",
			want:    map[string]any{"type": "todo"},
		},
		{
			name:    "quote by leading quotation mark",
			content: `"Simplicity is prerequisite for reliability."`,
			want:    map[string]any{"type": "quote"},
		},
		{
			name:    "quote by title",
			content: "Stay hungry",
			title:   "Favourite Quote",
			want:    map[string]any{"type": "quote"},
		},
		{
			name:    "default article",
			url:     "https://blog.example.com/post",
			content: "Some thoughts on distributed systems",
			want:    map[string]any{"type": "article"},
		},
		{
			name: "everything empty",
			want: map[string]any{"type": "article"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.DetectBasic(tt.url, tt.content, tt.title))
		})
	}
}

func TestDetectBasicAlwaysInVocabulary(t *testing.T) {
	urls := []string{"", "://", "github.com/", "https://youtu.be/", "v=", "http://medium.com", "%%%", "https://x.com"}
	contents := []string{"", "[", "\"", "task", "by", "Author: ", "$", "\n\n\n"}
	titles := []string{"", "QUOTE", "💬"}

	for _, u := range urls {
		for _, c := range contents {
			for _, title := range titles {
				fields := classifier.DetectBasic(u, c, title)
				ct, ok := entity.ParseContentType(fields["type"].(string))
				assert.True(t, ok, "url=%q content=%q title=%q gave %q", u, c, title, ct)
			}
		}
	}
}
