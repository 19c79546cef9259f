// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	// DefaultGroqModel is the model used when none is configured.
	DefaultGroqModel = "llama-3.3-70b-versatile"

	// apiKeyEnvVar names the required credential.
	apiKeyEnvVar = "GROQ_API_KEY"

	// apiKeySecretPath is the fallback location when running containerized.
	apiKeySecretPath = "/run/secrets/groq_api_key"
)

// ErrMissingAPIKey is returned at construction when no credential can be
// found. This is a configuration error, distinct from runtime call failures:
// callers surface it immediately and do not retry.
var ErrMissingAPIKey = errors.New("missing GROQ API key: set " + apiKeyEnvVar)

// GroqClient implements CompletionClient against Groq's OpenAI-compatible
// chat completion API.
type GroqClient struct {
	client *openai.Client
	model  string
}

// GroqConfig holds the optional overrides for NewGroqClient.
type GroqConfig struct {
	BaseURL string // defaults to DefaultGroqBaseURL
	Model   string // defaults to DefaultGroqModel
	APIKey  string // defaults to the GROQ_API_KEY env var, then the secrets file
}

// NewGroqClient creates a Groq-backed completion client. The API key is
// resolved from the config, the GROQ_API_KEY environment variable, or the
// container secrets file, in that order; if none is present the constructor
// fails with ErrMissingAPIKey.
func NewGroqClient(cfg GroqConfig) (*GroqClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnvVar)
	}
	if apiKey == "" {
		keyBytes, err := os.ReadFile(apiKeySecretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(keyBytes))
			slog.Info("Read the Groq API key from the secrets file")
		}
	}
	if apiKey == "" {
		slog.Error("Groq API key not found", "env", apiKeyEnvVar, "path", apiKeySecretPath)
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGroqModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = baseURL

	slog.Info("Initializing Groq client", "model", model, "base_url", baseURL)
	return &GroqClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Complete implements the CompletionClient interface.
func (g *GroqClient) Complete(ctx context.Context, messages []Message, params GenerationParams) (string, error) {
	slog.Debug("Requesting completion via Groq", "model", g.model, "messages", len(messages))

	req := openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("Groq API call failed", "error", err)
		return "", fmt.Errorf("groq API call failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		slog.Warn("Groq returned no choices or empty content")
		return "", fmt.Errorf("groq returned no content")
	}
	slog.Debug("Received completion from Groq", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
