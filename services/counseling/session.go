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
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mindfultalk-ai/mindfultalk/services/llm"
)

// SessionState is the lifecycle state of a counseling session.
type SessionState string

const (
	// StateIntake means the session is waiting for the intake profile.
	StateIntake SessionState = "intake"
	// StateActive means the chat is running.
	StateActive SessionState = "active"
	// StateTimedOut means the 30-minute ceiling was exceeded.
	StateTimedOut SessionState = "timed_out"
	// StateEnded means the student terminated the chat.
	StateEnded SessionState = "ended"
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	return string(s)
}

// DefaultTimeout is the fixed session ceiling. The check is polled against
// the wall clock on every interaction, never driven by a background timer.
const DefaultTimeout = 30 * time.Minute

// DefaultMinSummaryTurns is the minimum transcript length (two full
// student/counselor exchanges) required before a diagnostic summary may be
// generated.
const DefaultMinSummaryTurns = 4

// ReplyErrorMarker is recorded as the counselor turn when the completion
// service fails. The transcript stays consistent and the student may retry
// by sending another message.
const ReplyErrorMarker = "❌ I couldn't reach the counseling service just now. Please try sending your message again."

var (
	// ErrNotActive is returned when an operation requires an active session.
	ErrNotActive = errors.New("session is not active")

	// ErrAlreadyBegun is returned when Begin is called twice.
	ErrAlreadyBegun = errors.New("session has already begun")

	// ErrSessionTimedOut is returned when the polled timeout check fires
	// before new input is processed. The caller must conclude the session.
	ErrSessionTimedOut = errors.New("session timed out")
)

// Config carries the tunables for a session. The zero value is usable:
// every field falls back to its default.
type Config struct {
	// Timeout is the session ceiling. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MinSummaryTurns gates diagnostic generation. Defaults to
	// DefaultMinSummaryTurns.
	MinSummaryTurns int

	// DisclosureMarkers overrides the crisis-disclosure marker set.
	DisclosureMarkers []string

	// Clock overrides the wall clock for tests. Defaults to time.Now.
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MinSummaryTurns <= 0 {
		c.MinSummaryTurns = DefaultMinSummaryTurns
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Exchange is the outcome of one student turn: the appended student turn,
// the appended counselor turn, and whether the reply came from the oracle or
// is the error marker.
type Exchange struct {
	Student   Turn
	Reply     Turn
	OracleErr error // non-nil when Reply.Text is the error marker
	Disclosed bool  // true when this reply latched the disclosure gate
}

// Session owns all state for one counseling conversation. It is exclusively
// owned by a single interactive thread of control: no two turns or two
// diagnostic generations ever run concurrently against the same session.
//
// Lifecycle: Intake -> Active -> (TimedOut | Ended) -> reset back to Intake.
// Reset destroys the transcript, profile, disclosure gate, and identity
// atomically; nothing survives it.
type Session struct {
	oracle llm.CompletionClient
	cfg    Config

	id         string
	state      SessionState
	startedAt  time.Time
	transcript *Transcript
	profile    IntakeProfile
	gate       *DisclosureGate
}

// NewSession creates a session in the Intake state.
func NewSession(oracle llm.CompletionClient, cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		oracle:     oracle,
		cfg:        cfg,
		state:      StateIntake,
		transcript: NewTranscript(),
		gate:       NewDisclosureGate(cfg.DisclosureMarkers),
	}
}

// ID returns the opaque session identifier. Empty until Begin.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// StartedAt returns when the session went Active. Zero until Begin.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Profile returns the intake profile recorded at Begin.
func (s *Session) Profile() IntakeProfile { return s.profile }

// Transcript exposes the session's transcript for read access.
func (s *Session) Transcript() *Transcript { return s.transcript }

// CrisisDisclosed reports whether crisis resources have been surfaced.
func (s *Session) CrisisDisclosed() bool { return s.gate.Disclosed() }

// Begin transitions Intake -> Active: validates the profile, stamps the
// start time, assigns the session identity, and appends the opening
// counselor greeting addressed to the student by name. Returns the greeting
// turn.
func (s *Session) Begin(profile IntakeProfile) (Turn, error) {
	if s.state != StateIntake {
		return Turn{}, ErrAlreadyBegun
	}
	if err := profile.Validate(); err != nil {
		return Turn{}, err
	}

	s.profile = profile
	s.id = uuid.NewString()
	s.startedAt = s.cfg.Clock()
	s.state = StateActive

	greeting := fmt.Sprintf("Hi %s, I'm here to listen and support you. What's on your mind today?", profile.DisplayName)
	turn := s.transcript.Append(RoleCounselor, greeting)

	slog.Info("counseling session started", "session_id", s.id, "student", profile.DisplayName)
	return turn, nil
}

// Elapsed returns the time since the session went Active.
func (s *Session) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return s.cfg.Clock().Sub(s.startedAt)
}

// CheckTimeout polls the wall clock against the session ceiling and, when
// exceeded, transitions Active -> TimedOut. Idempotent; safe to call on
// every interaction tick.
func (s *Session) CheckTimeout() bool {
	if s.state == StateTimedOut {
		return true
	}
	if s.state != StateActive {
		return false
	}
	if s.Elapsed() > s.cfg.Timeout {
		s.state = StateTimedOut
		slog.Info("counseling session timed out", "session_id", s.id, "elapsed", s.Elapsed())
		return true
	}
	return false
}

// HandleStudentMessage processes one student turn: it appends the student
// text, obtains a counselor reply from the completion service, and appends
// the reply. The transcript always grows by exactly two turns, even when the
// oracle fails (the reply is then the error marker and Exchange.OracleErr is
// set; the session continues and the student may retry).
//
// The timeout is checked before the input is processed: a message arriving
// past the ceiling transitions the session to TimedOut and returns
// ErrSessionTimedOut without touching the transcript.
func (s *Session) HandleStudentMessage(ctx context.Context, text string) (Exchange, error) {
	if s.state != StateActive {
		if s.state == StateTimedOut {
			return Exchange{}, ErrSessionTimedOut
		}
		return Exchange{}, ErrNotActive
	}
	if s.CheckTimeout() {
		return Exchange{}, ErrSessionTimedOut
	}

	needsHint := s.gate.NeedsHint()
	instruction := BuildInstruction(ModeReply, s.profile, needsHint)
	messages := BuildMessages(ModeReply, instruction, s.transcript, text)

	studentTurn := s.transcript.Append(RoleStudent, text)

	replyText, err := s.oracle.Complete(ctx, messages, SamplingParams(ModeReply))
	if err != nil || replyText == "" {
		if err == nil {
			err = errors.New("completion service returned no content")
		}
		slog.Error("counselor reply failed", "session_id", s.id, "error", err)
		replyTurn := s.transcript.Append(RoleCounselor, ReplyErrorMarker)
		return Exchange{Student: studentTurn, Reply: replyTurn, OracleErr: err}, nil
	}

	replyTurn := s.transcript.Append(RoleCounselor, replyText)
	disclosed := s.gate.Observe(replyText)
	if disclosed {
		slog.Info("crisis resources disclosed", "session_id", s.id, "turn", replyTurn.Index)
	}

	return Exchange{Student: studentTurn, Reply: replyTurn, Disclosed: disclosed}, nil
}

// End transitions Active -> Ended on explicit student termination. Sessions
// already TimedOut keep that state.
func (s *Session) End() error {
	switch s.state {
	case StateActive:
		s.state = StateEnded
		slog.Info("counseling session ended", "session_id", s.id)
		return nil
	case StateTimedOut:
		return nil
	default:
		return ErrNotActive
	}
}

// SummaryEligible reports whether the transcript is long enough for a
// diagnostic summary.
func (s *Session) SummaryEligible() bool {
	return s.transcript.Len() >= s.cfg.MinSummaryTurns
}

// Reset destroys all session state atomically and returns the session to the
// Intake state. The transcript, profile, disclosure gate, identity, and
// start time are all discarded; no component may reference the old state
// afterwards.
func (s *Session) Reset() {
	slog.Info("counseling session reset", "session_id", s.id)
	s.id = ""
	s.state = StateIntake
	s.startedAt = time.Time{}
	s.transcript = NewTranscript()
	s.profile = IntakeProfile{}
	s.gate = NewDisclosureGate(s.cfg.DisclosureMarkers)
}
