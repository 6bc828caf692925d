package entity

import (
	"slices"
	"strings"
)

type ContentType string

const (
	ContentTypeArticle    ContentType = "article"
	ContentTypeProduct    ContentType = "product"
	ContentTypeVideo      ContentType = "video"
	ContentTypeBook       ContentType = "book"
	ContentTypeNote       ContentType = "note"
	ContentTypeTodo       ContentType = "todo"
	ContentTypeQuote      ContentType = "quote"
	ContentTypeImage      ContentType = "image"
	ContentTypeTweet      ContentType = "tweet"
	ContentTypeCode       ContentType = "code"
	ContentTypeDiscussion ContentType = "discussion"
	ContentTypeQA         ContentType = "qa"
	ContentTypeUnknown    ContentType = "unknown"
)

var ContentTypes = []ContentType{
	ContentTypeArticle,
	ContentTypeProduct,
	ContentTypeVideo,
	ContentTypeBook,
	ContentTypeNote,
	ContentTypeTodo,
	ContentTypeQuote,
	ContentTypeImage,
	ContentTypeTweet,
	ContentTypeCode,
	ContentTypeDiscussion,
	ContentTypeQA,
	ContentTypeUnknown,
}

func (t ContentType) Valid() bool {
	return slices.Contains(ContentTypes, t)
}

func (t ContentType) String() string {
	return string(t)
}

// ParseContentType lower-cases and trims s, reporting whether the result is
// part of the vocabulary.
func ParseContentType(s string) (ContentType, bool) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}
