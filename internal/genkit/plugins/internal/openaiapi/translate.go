package openaiapi

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	goopenai "github.com/openai/openai-go"
)

func translateResponse(resp *goopenai.ChatCompletion) (*ai.ModelResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion %s has no choices", resp.ID)
	}

	r := &ai.ModelResponse{}
	translateCandidate(resp.Choices[0], r)

	r.Usage = &ai.GenerationUsage{
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:  int(resp.Usage.TotalTokens),
	}
	return r, nil
}

func translateCandidate(choice goopenai.ChatCompletionChoice, r *ai.ModelResponse) {
	switch choice.FinishReason {
	case "stop", "tool_calls":
		r.FinishReason = ai.FinishReasonStop
	case "length":
		r.FinishReason = ai.FinishReasonLength
	case "content_filter":
		r.FinishReason = ai.FinishReasonBlocked
	case "function_call":
		r.FinishReason = ai.FinishReasonOther
	default:
		r.FinishReason = ai.FinishReasonUnknown
	}

	r.Message = &ai.Message{
		Role:    ai.RoleModel,
		Content: []*ai.Part{ai.NewTextPart(choice.Message.Content)},
	}
}
