package llmtest

import (
	"context"

	"github.com/habiliai/recallhub/llm"
	"github.com/stretchr/testify/mock"
)

type GeneratorMock struct {
	mock.Mock
}

func (m *GeneratorMock) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type EmbedderMock struct {
	mock.Mock
}

func (m *EmbedderMock) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ llm.Generator = (*GeneratorMock)(nil)
	_ llm.Embedder  = (*EmbedderMock)(nil)
)
