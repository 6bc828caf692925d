package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core"
	"github.com/firebase/genkit/go/genkit"
)

const defaultMaxTokens = 2048

// DefineModel creates and registers a new text generation model with
// Genkit.
func DefineModel(g *genkit.Genkit, client *anthropic.Client, labelPrefix, provider, modelName, apiModelName string, caps ai.ModelSupports) ai.Model {
	meta := &ai.ModelInfo{
		Label:    labelPrefix + " - " + modelName,
		Supports: &caps,
	}

	return genkit.DefineModel(
		g,
		provider,
		modelName,
		meta,
		func(ctx context.Context, req *ai.ModelRequest, _ core.StreamCallback[*ai.ModelResponseChunk]) (*ai.ModelResponse, error) {
			return generate(ctx, client, req, apiModelName)
		},
	)
}

func generate(ctx context.Context, client *anthropic.Client, genRequest *ai.ModelRequest, apiModelName string) (*ai.ModelResponse, error) {
	params, err := buildMessageParams(genRequest, apiModelName)
	if err != nil {
		return nil, err
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic message generation failed: %w", err)
	}

	r := translateResponse(resp)
	r.Request = genRequest
	return r, nil
}

func buildMessageParams(genRequest *ai.ModelRequest, apiModelName string) (anthropic.MessageNewParams, error) {
	messages, systems, err := convertMessages(genRequest.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	if len(messages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("at least one user or model message is required")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(apiModelName),
		Messages:  messages,
		MaxTokens: defaultMaxTokens,
	}
	for _, system := range systems {
		params.System = append(params.System, anthropic.TextBlockParam{Text: system})
	}

	if genRequest.Config != nil {
		jsonBytes, err := json.Marshal(genRequest.Config)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}

		var config ai.GenerationCommonConfig
		if err := json.Unmarshal(jsonBytes, &config); err != nil {
			return anthropic.MessageNewParams{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if config.MaxOutputTokens > 0 {
			params.MaxTokens = int64(config.MaxOutputTokens)
		}
		if config.Temperature > 0 {
			params.Temperature = anthropic.Float(config.Temperature)
		}
		if config.TopP > 0 {
			params.TopP = anthropic.Float(config.TopP)
		}
		if config.TopK > 0 {
			params.TopK = anthropic.Int(int64(config.TopK))
		}
		if len(config.StopSequences) > 0 {
			params.StopSequences = config.StopSequences
		}
	}

	return params, nil
}

// convertMessages keeps the text parts only. System messages are returned
// separately since the API takes them as a request parameter.
func convertMessages(messages []*ai.Message) ([]anthropic.MessageParam, []string, error) {
	var (
		systems []string
		out     []anthropic.MessageParam
	)

	for _, msg := range messages {
		text := textOf(msg)
		switch msg.Role {
		case ai.RoleSystem:
			if strings.TrimSpace(text) != "" {
				systems = append(systems, text)
			}
		case ai.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		case ai.RoleModel:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		default:
			return nil, nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}

	return out, systems, nil
}

func textOf(msg *ai.Message) string {
	var sb strings.Builder
	for _, part := range msg.Content {
		if part.IsText() {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func translateResponse(resp *anthropic.Message) *ai.ModelResponse {
	r := &ai.ModelResponse{}

	var parts []*ai.Part
	for _, content := range resp.Content {
		if block, ok := content.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, ai.NewTextPart(block.Text))
		}
	}
	r.Message = &ai.Message{
		Role:    ai.RoleModel,
		Content: parts,
	}

	switch resp.StopReason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		r.FinishReason = ai.FinishReasonStop
	case anthropic.StopReasonMaxTokens:
		r.FinishReason = ai.FinishReasonLength
	default:
		if resp.StopReason != "" {
			r.FinishReason = ai.FinishReasonOther
		}
	}

	if resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0 {
		r.Usage = &ai.GenerationUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
			TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		}
	}

	return r
}
