// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

type MindfulTalkConfig struct {
	// Oracle: the LLM endpoint that plays the counselor
	Oracle OracleConfig `yaml:"oracle"`

	// Session: timing and summary rules for counseling sessions
	Session SessionConfig `yaml:"session"`

	// Logging: structured log destination and level
	Logging LoggingConfig `yaml:"logging"`
}

type OracleConfig struct {
	// BaseURL is an OpenAI-compatible endpoint, e.g. the Groq API
	BaseURL string `yaml:"base_url"`

	// Model is the chat completion model identifier
	Model string `yaml:"model"`
}

type SessionConfig struct {
	// TimeoutSeconds is the inactivity limit before the session ends
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MinSummaryTurns is the minimum transcript length for a diagnostic summary
	MinSummaryTurns int `yaml:"min_summary_turns"`

	// ExportDir is where session reports are written. Supports ~ expansion.
	ExportDir string `yaml:"export_dir"`
}

type LoggingConfig struct {
	// Level can be "debug", "info", "warn", or "error"
	Level string `yaml:"level"`

	// Dir enables JSON file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`
}

func DefaultConfig() MindfulTalkConfig {
	return MindfulTalkConfig{
		Oracle: OracleConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.3-70b-versatile",
		},
		Session: SessionConfig{
			TimeoutSeconds:  1800,
			MinSummaryTurns: 4,
			ExportDir:       "~/.mindfultalk/reports",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}
