package provider

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

const (
	DefaultClaudeEndpoint   = "https://api.anthropic.com/v1/messages"
	DefaultClaudeModel      = "claude-sonnet-4-5-20250929"
	DefaultClaudeAPIVersion = "2023-06-01"
)

// ClaudeConfig configures a ClaudeProvider. Zero fields take the defaults.
type ClaudeConfig struct {
	Endpoint   string
	Model      string
	APIVersion string
	MaxTokens  int
	Relay      Relay
	Client     *http.Client
	Logger     *zap.Logger
}

// ClaudeProvider calls the Anthropic Messages API with a single user message.
type ClaudeProvider struct {
	endpoint   string
	model      string
	apiVersion string
	maxTokens  int
	relay      Relay
	client     *http.Client
	log        *zap.Logger
}

func NewClaudeProvider(cfg ClaudeConfig) *ClaudeProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultClaudeEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultClaudeAPIVersion
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &ClaudeProvider{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiVersion: cfg.APIVersion,
		maxTokens:  cfg.MaxTokens,
		relay:      cfg.Relay,
		client:     cfg.Client,
		log:        nopIfNil(cfg.Logger),
	}
}

func (p *ClaudeProvider) Name() string {
	return "Claude"
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
}

// Rewrite returns the text of the first content block of the response.
func (p *ClaudeProvider) Rewrite(ctx context.Context, prompt, credential string) (string, error) {
	reqBody := claudeRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         credential,
		"anthropic-version": p.apiVersion,
	}

	data, err := postJSON(ctx, p.client, nopIfNil(p.log), p.Name(), p.relay.URL(p.endpoint), headers, reqBody)
	if err != nil {
		return "", err
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(data, &claudeResp); err != nil {
		return "", &Error{Provider: p.Name(), Malformed: true, Body: truncate(data)}
	}

	if len(claudeResp.Content) == 0 || claudeResp.Content[0].Text == nil {
		return "", &Error{Provider: p.Name(), Malformed: true, Body: truncate(data)}
	}

	return *claudeResp.Content[0].Text, nil
}

func truncate(data []byte) string {
	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	return string(data)
}
