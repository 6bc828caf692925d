// Package metadata builds the metadata mapping persisted with a memory and
// converts it between its stored and its caller facing form.
package metadata

import (
	"net/url"
	"strings"
	"time"

	"github.com/habiliai/recallhub/classifier"
	"github.com/habiliai/recallhub/entity"
	"github.com/samber/lo"
)

const (
	maxTitleLength = 100
	untitled       = "Untitled"
)

type MergeInput struct {
	Owner          string
	URL            string
	Title          string
	Content        string
	Classification classifier.Result
	Media          []entity.Media
	Timestamp      time.Time
	UserMetadata   map[string]any
}

// Merge layers, later winning on key collisions: identity fields (owner,
// url, title, timestamp), classifier fields, extracted media under "media",
// user supplied metadata. Owner and timestamps are then restored, since
// every owner scoped read and date filter trusts them. content_type is set
// from the merged "type" unless the user supplied one, and every composite
// value is encoded, so the result is safe to hand to a vector store.
func Merge(in MergeInput) map[string]any {
	ts := entity.FormatTimestamp(in.Timestamp)

	out := map[string]any{
		entity.KeyOwner:     in.Owner,
		entity.KeyURL:       in.URL,
		entity.KeyTitle:     in.Title,
		entity.KeyTimestamp: ts,
		entity.KeyTime:      ts,
	}
	if strings.TrimSpace(in.Title) == "" {
		out[entity.KeyTitle] = GenerateTitle(in.Content, in.URL)
	}

	for k, v := range in.Classification.Fields {
		out[k] = v
	}

	if len(in.Media) > 0 {
		out[entity.KeyMedia] = in.Media
	}

	for k, v := range in.UserMetadata {
		out[k] = v
	}

	out[entity.KeyOwner] = in.Owner
	out[entity.KeyTimestamp] = ts
	out[entity.KeyTime] = ts

	contentType, _ := out[entity.KeyType].(string)
	if userType, ok := in.UserMetadata[entity.KeyContentType].(string); ok {
		contentType = userType
	}
	out[entity.KeyContentType] = NormalizeContentType(contentType).String()

	return Encode(out)
}

// NormalizeContentType maps an absent type to note and a type outside the
// vocabulary to unknown.
func NormalizeContentType(s string) entity.ContentType {
	if strings.TrimSpace(s) == "" {
		return entity.ContentTypeNote
	}
	ct, ok := entity.ParseContentType(s)
	if !ok {
		return entity.ContentTypeUnknown
	}
	return ct
}

// GenerateTitle derives a title from the first 100 characters of content,
// else from the last path segment of rawURL, else "Untitled".
func GenerateTitle(content, rawURL string) string {
	content = strings.Join(strings.Fields(content), " ")
	if content != "" {
		runes := []rune(content)
		if len(runes) > maxTitleLength {
			return string(runes[:maxTitleLength]) + "..."
		}
		return content
	}

	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		segments := lo.Compact(strings.Split(u.Path, "/"))
		if len(segments) > 0 {
			return segments[len(segments)-1]
		}
	}

	return untitled
}
