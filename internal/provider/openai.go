package provider

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel    = "gpt-4o"
)

// OpenAIConfig configures an OpenAIProvider. Zero fields take the defaults.
type OpenAIConfig struct {
	Endpoint  string
	Model     string
	MaxTokens int
	Relay     Relay
	Client    *http.Client
	Logger    *zap.Logger
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	endpoint  string
	model     string
	maxTokens int
	relay     Relay
	client    *http.Client
	log       *zap.Logger
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOpenAIEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &OpenAIProvider{
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		relay:     cfg.Relay,
		client:    cfg.Client,
		log:       nopIfNil(cfg.Logger),
	}
}

func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Rewrite returns the message content of the first choice.
func (p *OpenAIProvider) Rewrite(ctx context.Context, prompt, credential string) (string, error) {
	reqBody := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: p.maxTokens,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + credential,
	}

	data, err := postJSON(ctx, p.client, nopIfNil(p.log), p.Name(), p.relay.URL(p.endpoint), headers, reqBody)
	if err != nil {
		return "", err
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(data, &openAIResp); err != nil {
		return "", &Error{Provider: p.Name(), Malformed: true, Body: truncate(data)}
	}

	if len(openAIResp.Choices) == 0 || openAIResp.Choices[0].Message == nil || openAIResp.Choices[0].Message.Content == nil {
		return "", &Error{Provider: p.Name(), Malformed: true, Body: truncate(data)}
	}

	return *openAIResp.Choices[0].Message.Content, nil
}
