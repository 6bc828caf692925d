package entity

import "time"

// Metadata keys persisted with every record. Stored records written by
// earlier versions rely on these exact names.
const (
	KeyOwner       = "user_id"
	KeyTitle       = "title"
	KeyURL         = "url"
	KeyTimestamp   = "timestamp"
	KeyTime        = "time"
	KeyContentType = "content_type"
	KeyType        = "type"
	KeySource      = "source"
	KeyPrice       = "price"
	KeyBrand       = "brand"
	KeyAuthor      = "author"
	KeyVideoID     = "video_id"
	KeyPlatform    = "platform"
	KeyThumbnail   = "thumbnail"
	KeyRepoOwner   = "repo_owner"
	KeyRepoName    = "repo_name"
	KeyImageURL    = "image_url"
	KeyTasks       = "tasks"
	KeyMedia       = "media"
)

// TimestampLayout is fixed width so that timestamps in UTC compare
// lexicographically in chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Media struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// MemoryRecord is a persisted piece of saved content.
type MemoryRecord struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float32      `json:"-"`
	Metadata  map[string]any `json:"metadata"`
}

// MemoryCreate is the raw input of an ingestion.
type MemoryCreate struct {
	Owner    string         `json:"user_id,omitempty"`
	Content  string         `json:"content"`
	URL      string         `json:"url,omitempty"`
	Title    string         `json:"title,omitempty"`
	RawHTML  string         `json:"raw_html,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// URLSave asks for the page at URL to be fetched and ingested.
type URLSave struct {
	Owner    string         `json:"user_id,omitempty"`
	URL      string         `json:"url"`
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TypedSave is the input of a save where the caller already knows the
// content type and no classification is performed.
type TypedSave struct {
	Owner       string         `json:"user_id,omitempty"`
	Text        string         `json:"text"`
	Source      string         `json:"source,omitempty"`
	URL         string         `json:"url,omitempty"`
	Title       string         `json:"title,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type SaveResult struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type SearchResult struct {
	ID              string         `json:"id"`
	Content         string         `json:"content"`
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	Metadata        map[string]any `json:"metadata"`
	SimilarityScore float32        `json:"similarity_score"`
	Timestamp       string         `json:"timestamp"`
}

type Stats struct {
	Total       int            `json:"total"`
	ByType      map[string]int `json:"by_type"`
	RecentCount int            `json:"recent_count"`
}

// GeneratedContext is a summary of saved memories meant to be pasted into a
// conversation with an assistant.
type GeneratedContext struct {
	Context     string `json:"context"`
	SourceCount int    `json:"source_count"`
	Generated   bool   `json:"generated"`
}
