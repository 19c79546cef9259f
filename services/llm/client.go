// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm abstracts the external text-completion service behind a small
// interface so the counseling core never talks to a vendor SDK directly.
package llm

import "context"

// Chat roles understood by the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerationParams carries the sampling parameters for one completion call.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// CompletionClient defines the standard interface for any completion backend.
// The call is blocking with no partial results: callers get the full text or
// an error. Cancellation flows through the context.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message, params GenerationParams) (string, error)
}
