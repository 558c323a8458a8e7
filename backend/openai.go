package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/creastat/chatsync"
	"github.com/creastat/chatsync/internal/logger"
)

// DefaultBaseURL points at a local Ollama server's OpenAI-compatible API.
const DefaultBaseURL = "http://localhost:11434/v1"

// OpenAIConfig configures an OpenAI-compatible chat completion backend.
type OpenAIConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
}

// OpenAIGenerator streams replies from an OpenAI-compatible endpoint such as
// OpenAI itself or Ollama.
type OpenAIGenerator struct {
	client       openai.Client
	model        string
	systemPrompt string
}

// NewOpenAIGenerator builds a generator from cfg.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.Model == "" {
		return nil, errors.New("backend model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	// Ollama ignores the key but the client refuses to send an empty one.
	if cfg.APIKey == "" {
		cfg.APIKey = "ollama"
	}

	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	)

	return &OpenAIGenerator{
		client:       client,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request, emit func(delta string)) error {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: g.messages(req),
	}
	logger.Debug("sending chat completion", "model", g.model, "message_count", len(params.Messages))

	stream := g.client.Chat.Completions.NewStreaming(ctx, params)
	defer func() { _ = stream.Close() }()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			emit(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("chat completion stream: %w", err)
	}
	return nil
}

func (g *OpenAIGenerator) messages(req Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if g.systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(g.systemPrompt))
	}
	for _, t := range req.History {
		switch t.Sender {
		case chatsync.SenderUser:
			messages = append(messages, openai.UserMessage(t.Text))
		case chatsync.SenderBot:
			messages = append(messages, openai.AssistantMessage(t.Text))
		}
	}
	return append(messages, openai.UserMessage(req.Prompt))
}
