// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package counseling implements the counseling session core: the transcript,
// the session state machine, the crisis-disclosure policy, the persona prompt
// builder, and the diagnostic summary pipeline.
package counseling

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Turn is a single message in the transcript. Turns are immutable once
// appended; Index equals the turn's append position.
type Turn struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Transcript is the append-only ordered log of turns for one session.
//
// Appends are the only mutation. Truncation never happens; a session reset
// discards the whole transcript along with the session that owns it.
// Not safe for concurrent use: a session is driven by a single interactive
// thread of control.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds one turn and returns it with its assigned index.
func (t *Transcript) Append(role Role, text string) Turn {
	turn := Turn{
		Role:  role,
		Text:  text,
		Index: len(t.turns),
	}
	t.turns = append(t.turns, turn)
	return turn
}

// Len returns the number of turns recorded so far.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the recorded turns. Callers may not mutate the
// transcript through the returned slice.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Last returns the most recent turn and true, or a zero Turn and false when
// the transcript is empty.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
