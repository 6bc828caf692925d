package memory

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
)

const DefaultContextLength = 2000

// maxSourceChars bounds how much of each memory goes into the prompt.
const maxSourceChars = 1000

const contextPromptTemplate = `Summarize the saved memories below into a context note that can be pasted into a conversation with an assistant.
Keep names, numbers, prices, links and decisions. Group related items. Answer in plain text of at most {{ .MaxLength }} characters.
{{ range $i, $m := .Memories }}
[{{ add1 $i }}] {{ $m.Title }}{{ if $m.URL }} ({{ $m.URL }}){{ end }}{{ if $m.ContentType }} [{{ $m.ContentType }}]{{ end }}
{{ $m.Content | trunc $.MaxSourceChars }}
{{ end }}`

type (
	contextSource struct {
		Title       string
		URL         string
		ContentType string
		Content     string
	}

	contextPromptData struct {
		MaxLength      int
		MaxSourceChars int
		Memories       []contextSource
	}
)

var contextTmpl *template.Template

func init() {
	var err error
	contextTmpl, err = template.New("contextPrompt").Funcs(sprig.TxtFuncMap()).Parse(contextPromptTemplate)
	if err != nil {
		panic(fmt.Sprintf("failed to parse context template: %v", err))
	}
}

// GenerateContext summarises every memory of owner.
func (s *Service) GenerateContext(ctx context.Context, owner string, maxLength int) (*entity.GeneratedContext, error) {
	records, err := s.ListAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.generateContext(ctx, records, maxLength)
}

// GenerateContextByID summarises one memory of owner, ErrNotFound when it
// does not exist or belongs to someone else.
func (s *Service) GenerateContextByID(ctx context.Context, id, owner string, maxLength int) (*entity.GeneratedContext, error) {
	records, err := s.store.GetByFilter(ctx, s.ownerFilter(s.Owner(owner)), id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "memory %s not found", id)
	}

	return s.generateContext(ctx, []entity.MemoryRecord{{
		ID:       records[0].ID,
		Content:  records[0].Document,
		Metadata: records[0].Metadata,
	}}, maxLength)
}

func (s *Service) generateContext(ctx context.Context, records []entity.MemoryRecord, maxLength int) (*entity.GeneratedContext, error) {
	if maxLength <= 0 {
		maxLength = DefaultContextLength
	}
	if len(records) == 0 {
		return &entity.GeneratedContext{}, nil
	}

	sources := make([]contextSource, 0, len(records))
	for _, r := range records {
		title, _ := r.Metadata[entity.KeyTitle].(string)
		url, _ := r.Metadata[entity.KeyURL].(string)
		contentType, _ := r.Metadata[entity.KeyContentType].(string)
		sources = append(sources, contextSource{
			Title:       title,
			URL:         url,
			ContentType: contentType,
			Content:     r.Content,
		})
	}

	if s.generator != nil {
		text, err := s.summarize(ctx, sources, maxLength)
		if err == nil {
			return &entity.GeneratedContext{
				Context:     truncate(text, maxLength),
				SourceCount: len(sources),
				Generated:   true,
			}, nil
		}
		s.logger.Warn("context generation failed, returning excerpts", "error", err.Error())
	}

	return &entity.GeneratedContext{
		Context:     truncate(excerpts(sources), maxLength),
		SourceCount: len(sources),
	}, nil
}

func (s *Service) summarize(ctx context.Context, sources []contextSource, maxLength int) (string, error) {
	var buf bytes.Buffer
	if err := contextTmpl.Execute(&buf, contextPromptData{
		MaxLength:      maxLength,
		MaxSourceChars: maxSourceChars,
		Memories:       sources,
	}); err != nil {
		return "", errors.Wrapf(err, "failed to build context prompt")
	}

	text, err := s.generator.Generate(ctx, strings.TrimSpace(buf.String()))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.Wrapf(errors.ErrUpstreamModel, "empty context summary")
	}
	return text, nil
}

func excerpts(sources []contextSource) string {
	var sb strings.Builder
	for i, src := range sources {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if src.Title != "" {
			sb.WriteString(src.Title)
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(src.Content))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
