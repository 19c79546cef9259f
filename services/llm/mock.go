// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import "context"

// MockCall records one Complete invocation on a MockClient.
type MockCall struct {
	Messages []Message
	Params   GenerationParams
}

// MockClient implements CompletionClient for tests. Responses are served in
// order; when the scripted responses run out, the last one repeats. Set Err
// to make every call fail instead.
type MockClient struct {
	Responses []string
	Err       error
	Calls     []MockCall
}

// Complete returns the next scripted response and records the call.
func (m *MockClient) Complete(_ context.Context, messages []Message, params GenerationParams) (string, error) {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	m.Calls = append(m.Calls, MockCall{Messages: msgs, Params: params})

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Calls) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// CallCount returns how many times Complete was invoked.
func (m *MockClient) CallCount() int {
	return len(m.Calls)
}
