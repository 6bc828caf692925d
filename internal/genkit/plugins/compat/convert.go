package compat

import (
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/sashabaranov/go-openai"
)

func convertRequest(model string, input *ai.ModelRequest) (openai.ChatCompletionRequest, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
	}

	for _, m := range input.Messages {
		var role string
		switch m.Role {
		case ai.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case ai.RoleUser:
			role = openai.ChatMessageRoleUser
		case ai.RoleModel:
			role = openai.ChatMessageRoleAssistant
		default:
			return openai.ChatCompletionRequest{}, fmt.Errorf("unsupported role %s", m.Role)
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: textOf(m),
		})
	}

	if c, ok := input.Config.(*ai.GenerationCommonConfig); ok && c != nil {
		req.MaxTokens = c.MaxOutputTokens
		req.Temperature = float32(c.Temperature)
		req.TopP = float32(c.TopP)
	}

	return req, nil
}

func translateResponse(resp openai.ChatCompletionResponse) (*ai.ModelResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion %s has no choices", resp.ID)
	}

	choice := resp.Choices[0]
	r := &ai.ModelResponse{
		Message: &ai.Message{
			Role:    ai.RoleModel,
			Content: []*ai.Part{ai.NewTextPart(choice.Message.Content)},
		},
		Usage: &ai.GenerationUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}

	switch choice.FinishReason {
	case openai.FinishReasonStop, openai.FinishReasonToolCalls:
		r.FinishReason = ai.FinishReasonStop
	case openai.FinishReasonLength:
		r.FinishReason = ai.FinishReasonLength
	case openai.FinishReasonContentFilter:
		r.FinishReason = ai.FinishReasonBlocked
	default:
		r.FinishReason = ai.FinishReasonUnknown
	}

	return r, nil
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
