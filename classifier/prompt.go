package classifier

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/habiliai/recallhub/entity"
)

// MaxPromptContent is the number of content characters sent to the model.
const MaxPromptContent = 1500

const classifyPromptTemplate = `Analyze the saved content below and return a single JSON object describing it.

Required field:
- "type": one of {{ .ContentTypes | join ", " }}

Optional fields, include only when they can be read from the content:
- product: "price" (keep the currency symbol), "brand", "image_url"
- video: "platform", "video_id", "thumbnail"
- book: "author", "isbn", "cover_image"
- article: "author", "published_date", "reading_time", "platform"
- code: "platform", "repo_owner", "repo_name"
- todo: "tasks" as a list of {"text": string, "completed": bool}

Return JSON only, no explanation.

URL: {{ .URL | default "(none)" }}
Title: {{ .Title | default "(none)" }}
Content:
{{ .Content }}`

type classifyPromptData struct {
	URL          string
	Title        string
	Content      string
	ContentTypes []string
}

var classifyTmpl *template.Template

func init() {
	var err error
	classifyTmpl, err = template.New("classifyPrompt").Funcs(sprig.TxtFuncMap()).Parse(classifyPromptTemplate)
	if err != nil {
		panic(fmt.Sprintf("failed to parse classify template: %v", err))
	}
}

func buildPrompt(url, title, content string) (string, error) {
	types := make([]string, 0, len(entity.ContentTypes))
	for _, t := range entity.ContentTypes {
		if t != entity.ContentTypeUnknown {
			types = append(types, t.String())
		}
	}

	var buf bytes.Buffer
	if err := classifyTmpl.Execute(&buf, classifyPromptData{
		URL:          url,
		Title:        title,
		Content:      truncateRunes(content, MaxPromptContent),
		ContentTypes: types,
	}); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
