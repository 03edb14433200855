package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// DefaultModel is used when no model is configured for the openai provider.
const DefaultModel = "gpt-4o-mini"

// ErrAPIKeyNotSet is returned when the openai provider is selected without
// an API key.
var ErrAPIKeyNotSet = errors.New("OpenAI API key not set: set OPENAI_API_KEY or agents.api_key")

// openAIAgent runs one specialized agent on the OpenAI chat completions
// API, with the agent's system prompt fixed per type.
type openAIAgent struct {
	desc   Descriptor
	client openai.Client
	model  string
}

func newOpenAIAgent(desc Descriptor, model, apiKey string) (*openAIAgent, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}

	return &openAIAgent{
		desc:   desc,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (a *openAIAgent) Invoke(ctx context.Context, input string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.desc.SystemPrompt),
			openai.UserMessage(input),
		},
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

func (a *openAIAgent) Descriptor() Descriptor {
	return a.desc
}
