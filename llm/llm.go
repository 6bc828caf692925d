// Package llm holds the contracts of the text generation and embedding
// collaborators and the helpers to read structured output from them.
package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/habiliai/recallhub/errors"
	"github.com/mitchellh/mapstructure"
)

type (
	// Generator turns a prompt into free text. Output may be fenced or not
	// be JSON at all.
	Generator interface {
		Generate(ctx context.Context, prompt string) (string, error)
	}

	// Embedder maps a text to a fixed-length vector, deterministic for a
	// given model version.
	Embedder interface {
		Embed(ctx context.Context, text string) ([]float32, error)
	}
)

// StripCodeFence removes a leading ``` fence, optionally tagged json, and
// everything after the closing fence.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	parts := strings.Split(text, "```")
	text = parts[1]
	text = strings.TrimPrefix(text, "json")
	return strings.TrimSpace(text)
}

// ParseObject strips an optional code fence and parses the output as a JSON
// object. Any other JSON value is rejected.
func ParseObject(text string) (map[string]any, error) {
	text = StripCodeFence(text)
	if text == "" {
		return nil, errors.Wrapf(errors.ErrUpstreamModel, "empty model output")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, errors.Mark(errors.ErrUpstreamModel, err, "model output is not a JSON object")
	}
	if out == nil {
		return nil, errors.Wrapf(errors.ErrUpstreamModel, "model output is null")
	}

	return out, nil
}

// Decode copies a parsed object into out, converting loosely typed values
// (numbers as strings and the like) along the way.
func Decode(in map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create decoder")
	}

	return errors.Wrapf(decoder.Decode(in), "failed to decode model output")
}
