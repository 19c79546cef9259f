// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestChatUI_Header_Machine(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.Header(HeaderConfig{
		SessionID:   "sess-123",
		StudentName: "Alex",
		Timeout:     30 * time.Minute,
	})

	out := buf.String()
	if !strings.HasPrefix(out, "SESSION_START:") {
		t.Errorf("Expected SESSION_START prefix, got: %q", out)
	}
	for _, want := range []string{"session=sess-123", "student=Alex", "timeout=30m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Header output missing %q: %q", want, out)
		}
	}
}

func TestChatUI_Header_Minimal(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMinimal)

	ui.Header(HeaderConfig{Timeout: 30 * time.Minute})

	out := buf.String()
	if !strings.Contains(out, "MindfulTalk Counseling Session") {
		t.Errorf("Expected session title, got: %q", out)
	}
	if !strings.Contains(out, "Inactivity limit: 30m") {
		t.Errorf("Expected inactivity limit, got: %q", out)
	}
}

func TestChatUI_Header_Full(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityFull)

	ui.Header(HeaderConfig{
		SessionID:   "sess-456",
		StudentName: "Priya",
		Timeout:     30 * time.Minute,
	})

	out := buf.String()
	for _, want := range []string{"MindfulTalk", "Priya", "sess-456", "Type 'exit' to end"} {
		if !strings.Contains(out, want) {
			t.Errorf("Header output missing %q", want)
		}
	}
}

func TestChatUI_Prompt(t *testing.T) {
	var buf bytes.Buffer

	machine := NewChatUIWithWriter(&buf, PersonalityMachine)
	if machine.Prompt() != "> " {
		t.Errorf("Machine prompt = %q, want '> '", machine.Prompt())
	}

	full := NewChatUIWithWriter(&buf, PersonalityFull)
	if !strings.Contains(full.Prompt(), ">") {
		t.Errorf("Full prompt should contain '>': %q", full.Prompt())
	}
}

func TestChatUI_Reply(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.Reply("That sounds really hard.")

	if !strings.Contains(buf.String(), "REPLY: That sounds really hard.") {
		t.Errorf("Unexpected reply output: %q", buf.String())
	}
}

func TestChatUI_TimeoutNotice(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.TimeoutNotice(30 * time.Minute)

	if !strings.Contains(buf.String(), "SESSION_TIMEOUT: limit=30m0s") {
		t.Errorf("Unexpected timeout output: %q", buf.String())
	}

	buf.Reset()
	full := NewChatUIWithWriter(&buf, PersonalityFull)
	full.TimeoutNotice(30 * time.Minute)
	if !strings.Contains(buf.String(), "Session ended after 30m of inactivity.") {
		t.Errorf("Unexpected timeout output: %q", buf.String())
	}
}

func TestChatUI_Summary(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMinimal)

	ui.Summary("Primary Concerns\n- exam stress")

	out := buf.String()
	if !strings.Contains(out, "Session Summary:") {
		t.Errorf("Expected summary heading, got: %q", out)
	}
	if !strings.Contains(out, "exam stress") {
		t.Errorf("Expected summary body, got: %q", out)
	}
}

func TestChatUI_SummaryUnavailable(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.SummaryUnavailable("not enough conversation")

	if !strings.Contains(buf.String(), "SUMMARY_UNAVAILABLE: not enough conversation") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestChatUI_ArtifactSaved(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.ArtifactSaved("/tmp/diagnostic_Alex_20250101_120000.pdf")

	if !strings.Contains(buf.String(), "ARTIFACT: /tmp/diagnostic_Alex_20250101_120000.pdf") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestChatUI_Error(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.Error(errors.New("boom"))

	if !strings.Contains(buf.String(), "CHAT_ERROR: boom") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestChatUI_SessionEnd_Machine(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityMachine)

	ui.SessionEnd("sess-789", &SessionStats{
		TurnCount: 8,
		Duration:  12 * time.Minute,
		TimedOut:  true,
	})

	out := buf.String()
	for _, want := range []string{"SESSION_END:", "session=sess-789", "turns=8", "timed_out=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("SessionEnd output missing %q: %q", want, out)
		}
	}
}

func TestChatUI_SessionEnd_NilStats(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityFull)

	ui.SessionEnd("", nil)

	if !strings.Contains(buf.String(), "Goodbye!") {
		t.Errorf("Expected goodbye message, got: %q", buf.String())
	}
}

func TestChatUI_SessionEnd_Full(t *testing.T) {
	var buf bytes.Buffer
	ui := NewChatUIWithWriter(&buf, PersonalityFull)

	ui.SessionEnd("sess-abc", &SessionStats{
		TurnCount: 10,
		Duration:  25 * time.Minute,
	})

	out := buf.String()
	for _, want := range []string{"Session Closed", "sess-abc", "10 turns exchanged", "25m session duration"} {
		if !strings.Contains(out, want) {
			t.Errorf("SessionEnd output missing %q", want)
		}
	}
	if strings.Contains(out, "inactivity limit") {
		t.Error("Should not mention inactivity limit when TimedOut is false")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{5 * time.Second, "5.0s"},
		{90 * time.Second, "1m 30s"},
		{30 * time.Minute, "30m"},
		{2 * time.Hour, "2h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDuration(tt.d)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
