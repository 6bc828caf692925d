package openaiapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	goopenai "github.com/openai/openai-go"
)

// convertRequest builds a chat completion request from the text parts of
// the genkit request. Media and tool parts are not supported.
func convertRequest(model string, input *ai.ModelRequest) (goopenai.ChatCompletionNewParams, error) {
	messages, err := convertMessages(input.Messages)
	if err != nil {
		return goopenai.ChatCompletionNewParams{}, err
	}

	req := goopenai.ChatCompletionNewParams{
		Model:    model,
		Messages: messages,
	}

	if input.Config != nil {
		jsonBytes, err := json.Marshal(input.Config)
		if err != nil {
			return goopenai.ChatCompletionNewParams{}, err
		}

		var c ai.GenerationCommonConfig
		if err := json.Unmarshal(jsonBytes, &c); err == nil {
			if c.MaxOutputTokens != 0 {
				req.MaxTokens = goopenai.Int(int64(c.MaxOutputTokens))
			}
			if c.Temperature != 0 {
				req.Temperature = goopenai.Float(c.Temperature)
			}
			if c.TopP != 0 {
				req.TopP = goopenai.Float(c.TopP)
			}
		}
	}

	return req, nil
}

func convertMessages(messages []*ai.Message) ([]goopenai.ChatCompletionMessageParamUnion, error) {
	msgs := make([]goopenai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, m := range messages {
		text := textOf(m)
		switch m.Role {
		case ai.RoleSystem:
			msgs = append(msgs, goopenai.SystemMessage(text))
		case ai.RoleUser:
			msgs = append(msgs, goopenai.UserMessage(text))
		case ai.RoleModel:
			msgs = append(msgs, goopenai.AssistantMessage(text))
		default:
			return nil, fmt.Errorf("unsupported role %s", m.Role)
		}
	}

	return msgs, nil
}

func textOf(m *ai.Message) string {
	var sb strings.Builder
	for _, p := range m.Content {
		if p.IsText() {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
