// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatCompletionStub mimics the OpenAI-compatible response shape Groq
// returns.
func chatCompletionStub(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  DefaultGroqModel,
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func newStubServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewGroqClient_MissingKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	_, err := NewGroqClient(GroqConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewGroqClient_Defaults(t *testing.T) {
	client, err := NewGroqClient(GroqConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGroqModel, client.model)
}

func TestGroqClient_Complete(t *testing.T) {
	var gotReq struct {
		Model       string    `json:"model"`
		Messages    []Message `json:"messages"`
		Temperature float32   `json:"temperature"`
		MaxTokens   int       `json:"max_tokens"`
	}
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(chatCompletionStub("I'm listening.")))
	})

	client, err := NewGroqClient(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	temp := float32(0.7)
	maxTokens := 1000
	text, err := client.Complete(context.Background(),
		[]Message{
			{Role: RoleSystem, Content: "persona"},
			{Role: RoleUser, Content: "hello"},
		},
		GenerationParams{Temperature: &temp, MaxTokens: &maxTokens},
	)
	require.NoError(t, err)
	assert.Equal(t, "I'm listening.", text)

	assert.Equal(t, DefaultGroqModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, RoleSystem, gotReq.Messages[0].Role)
	assert.InDelta(t, 0.7, float64(gotReq.Temperature), 0.001)
	assert.Equal(t, 1000, gotReq.MaxTokens)
}

func TestGroqClient_Complete_EmptyChoices(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	client, err := NewGroqClient(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, GenerationParams{})
	assert.Error(t, err)
}

func TestGroqClient_Complete_ServerError(t *testing.T) {
	srv := newStubServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	})

	client, err := NewGroqClient(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, GenerationParams{})
	assert.Error(t, err)
}

func TestMockClient_RecordsCallsAndRepeatsLastResponse(t *testing.T) {
	mock := &MockClient{Responses: []string{"first", "second"}}

	for i, want := range []string{"first", "second", "second"} {
		got, err := mock.Complete(context.Background(), []Message{{Role: RoleUser, Content: "m"}}, GenerationParams{})
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, mock.CallCount())
}
