package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/invopop/jsonschema"
)

// modelIntent is the object the model is asked to return. PriceMax is left
// untyped since models answer with numbers as well as "$300" style strings.
type modelIntent struct {
	SemanticQuery string `json:"semantic_query" jsonschema:"description=The core meaning to search for with filter words removed"`
	ContentType   string `json:"content_type,omitempty" jsonschema:"description=Content type to restrict results to"`
	DateFilter    string `json:"date_filter,omitempty" jsonschema:"description=ISO-8601 date lower bound or a relative phrase such as last week"`
	PriceMax      any    `json:"price_max,omitempty" jsonschema:"description=Maximum price as a number"`
	Author        string `json:"author,omitempty" jsonschema:"description=Author or person name mentioned in the query"`
}

const analyzePromptTemplate = `You turn a search query over a personal collection of saved content into structured search filters.

Today is {{ .Today }}.
Known content types: {{ .ContentTypes | join ", " }}.

Reply with a single JSON object matching this schema and nothing else. Leave a filter out when the query does not mention it.
{{ .Schema }}

Query: {{ .Query }}`

type analyzePromptData struct {
	Today        string
	ContentTypes []string
	Schema       string
	Query        string
}

var (
	analyzeTmpl  *template.Template
	intentSchema string
)

func init() {
	var err error
	analyzeTmpl, err = template.New("analyzePrompt").Funcs(sprig.TxtFuncMap()).Parse(analyzePromptTemplate)
	if err != nil {
		panic(fmt.Sprintf("failed to parse analyze template: %v", err))
	}

	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema, err := json.MarshalIndent(reflector.Reflect(&modelIntent{}), "", "  ")
	if err != nil {
		panic(fmt.Sprintf("failed to build intent schema: %v", err))
	}
	intentSchema = string(schema)
}

func buildPrompt(query, today string, contentTypes []string) (string, error) {
	var buf bytes.Buffer
	if err := analyzeTmpl.Execute(&buf, analyzePromptData{
		Today:        today,
		ContentTypes: contentTypes,
		Schema:       intentSchema,
		Query:        query,
	}); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
