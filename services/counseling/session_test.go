// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfultalk-ai/mindfultalk/services/llm"
)

// fixedClock returns a clock function and a pointer through which tests can
// advance it.
func fixedClock(start time.Time) (func() time.Time, *time.Time) {
	now := start
	return func() time.Time { return now }, &now
}

func activeSession(t *testing.T, oracle llm.CompletionClient, cfg Config) *Session {
	t.Helper()
	s := NewSession(oracle, cfg)
	_, err := s.Begin(IntakeProfile{DisplayName: "Alex"})
	require.NoError(t, err)
	return s
}

func TestSession_Begin_GreetsStudentByName(t *testing.T) {
	s := NewSession(&llm.MockClient{}, Config{})
	greeting, err := s.Begin(IntakeProfile{DisplayName: "Alex"})
	require.NoError(t, err)

	assert.Equal(t, RoleCounselor, greeting.Role)
	assert.Equal(t, "Hi Alex, I'm here to listen and support you. What's on your mind today?", greeting.Text)
	assert.Equal(t, StateActive, s.State())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, s.Transcript().Len())
}

func TestSession_Begin_RequiresDisplayName(t *testing.T) {
	s := NewSession(&llm.MockClient{}, Config{})
	_, err := s.Begin(IntakeProfile{})
	assert.Error(t, err)
	assert.Equal(t, StateIntake, s.State())
}

func TestSession_Begin_Twice(t *testing.T) {
	s := activeSession(t, &llm.MockClient{}, Config{})
	_, err := s.Begin(IntakeProfile{DisplayName: "Alex"})
	assert.ErrorIs(t, err, ErrAlreadyBegun)
}

func TestSession_HandleStudentMessage_AppendsExactlyTwoTurns(t *testing.T) {
	oracle := &llm.MockClient{Responses: []string{"That sounds difficult."}}
	s := activeSession(t, oracle, Config{})

	before := s.Transcript().Len()
	ex, err := s.HandleStudentMessage(context.Background(), "I'm stressed about finals.")
	require.NoError(t, err)

	assert.Equal(t, before+2, s.Transcript().Len())
	assert.Equal(t, RoleStudent, ex.Student.Role)
	assert.Equal(t, "I'm stressed about finals.", ex.Student.Text)
	assert.Equal(t, RoleCounselor, ex.Reply.Role)
	assert.Equal(t, "That sounds difficult.", ex.Reply.Text)
	assert.True(t, ex.Student.Index < ex.Reply.Index, "student turn must precede its reply")
}

func TestSession_HandleStudentMessage_OracleFailureStillAppendsTwoTurns(t *testing.T) {
	oracle := &llm.MockClient{Err: errors.New("connection refused")}
	s := activeSession(t, oracle, Config{})

	before := s.Transcript().Len()
	ex, err := s.HandleStudentMessage(context.Background(), "hello?")
	require.NoError(t, err, "oracle failure is not a session failure")

	assert.Equal(t, before+2, s.Transcript().Len())
	assert.Error(t, ex.OracleErr)
	assert.Equal(t, ReplyErrorMarker, ex.Reply.Text)
	assert.Equal(t, StateActive, s.State(), "session continues after an oracle error")

	// The student may retry with a new message.
	oracle.Err = nil
	oracle.Responses = []string{"I'm here now."}
	ex, err = s.HandleStudentMessage(context.Background(), "hello again")
	require.NoError(t, err)
	assert.NoError(t, ex.OracleErr)
	assert.Equal(t, before+4, s.Transcript().Len())
}

func TestSession_HandleStudentMessage_EmptyOracleContentIsError(t *testing.T) {
	oracle := &llm.MockClient{Responses: []string{""}}
	s := activeSession(t, oracle, Config{})

	ex, err := s.HandleStudentMessage(context.Background(), "anyone there?")
	require.NoError(t, err)
	assert.Error(t, ex.OracleErr)
	assert.Equal(t, ReplyErrorMarker, ex.Reply.Text)
}

func TestSession_Timeout_FiresBeforeProcessingInput(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock, now := fixedClock(start)
	oracle := &llm.MockClient{Responses: []string{"ok"}}
	s := activeSession(t, oracle, Config{Clock: clock})

	// One second past the 30-minute ceiling.
	*now = start.Add(1801 * time.Second)

	before := s.Transcript().Len()
	_, err := s.HandleStudentMessage(context.Background(), "are you still there?")
	assert.ErrorIs(t, err, ErrSessionTimedOut)
	assert.Equal(t, StateTimedOut, s.State())
	assert.Equal(t, before, s.Transcript().Len(), "timed-out input must not reach the transcript")
	assert.Zero(t, oracle.CallCount(), "timed-out input must not reach the oracle")
}

func TestSession_Timeout_ExactCeilingDoesNotFire(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock, now := fixedClock(start)
	s := activeSession(t, &llm.MockClient{Responses: []string{"ok"}}, Config{Clock: clock})

	*now = start.Add(1800 * time.Second)
	assert.False(t, s.CheckTimeout())
	assert.Equal(t, StateActive, s.State())
}

func TestSession_CrisisHint_OnlyWhileUndisclosed(t *testing.T) {
	// Every reply contains a disclosure marker. The hint must appear only in
	// requests issued while the gate was still unlatched.
	oracle := &llm.MockClient{Responses: []string{
		"Please consider the counseling center.",
		"As I mentioned, the counseling center can help.",
		"The counseling center remains available.",
	}}
	s := activeSession(t, oracle, Config{})

	for _, msg := range []string{"first", "second", "third"} {
		_, err := s.HandleStudentMessage(context.Background(), msg)
		require.NoError(t, err)
	}

	require.Len(t, oracle.Calls, 3)
	hinted := 0
	for _, call := range oracle.Calls {
		require.NotEmpty(t, call.Messages)
		system := call.Messages[0]
		require.Equal(t, llm.RoleSystem, system.Role)
		// The directive always names the helpline number.
		if strings.Contains(system.Content, "1098") {
			hinted++
		}
	}
	assert.Equal(t, 1, hinted, "hint text appears only in requests issued while the flag is false")
	assert.True(t, s.CrisisDisclosed())
}

func TestSession_Disclosure_LatchesOnce(t *testing.T) {
	oracle := &llm.MockClient{Responses: []string{
		"You might call the crisis helpline 1098.",
		"Something unrelated.",
	}}
	s := activeSession(t, oracle, Config{})

	ex, err := s.HandleStudentMessage(context.Background(), "I feel hopeless")
	require.NoError(t, err)
	assert.True(t, ex.Disclosed)
	assert.True(t, s.CrisisDisclosed())

	ex, err = s.HandleStudentMessage(context.Background(), "thanks")
	require.NoError(t, err)
	assert.False(t, ex.Disclosed, "gate flips at most once per session")
	assert.True(t, s.CrisisDisclosed())
}

func TestSession_Reset_DestroysEverything(t *testing.T) {
	oracle := &llm.MockClient{Responses: []string{"Call 1098 if you need to."}}
	s := activeSession(t, oracle, Config{})
	_, err := s.HandleStudentMessage(context.Background(), "hi")
	require.NoError(t, err)
	require.True(t, s.CrisisDisclosed())

	s.Reset()

	assert.Equal(t, StateIntake, s.State())
	assert.Empty(t, s.ID())
	assert.Zero(t, s.Transcript().Len())
	assert.False(t, s.CrisisDisclosed())
	assert.Equal(t, IntakeProfile{}, s.Profile())
	assert.True(t, s.StartedAt().IsZero())
}

func TestSession_End_RequiresActiveOrTimedOut(t *testing.T) {
	s := NewSession(&llm.MockClient{}, Config{})
	assert.ErrorIs(t, s.End(), ErrNotActive)

	s = activeSession(t, &llm.MockClient{}, Config{})
	require.NoError(t, s.End())
	assert.Equal(t, StateEnded, s.State())
}
