// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import "strings"

// DefaultDisclosureMarkers are the substrings that count as the counselor
// having surfaced crisis resources. Matching is case-insensitive. The set is
// deliberately small: it only exists to stop the session from prompting the
// model to repeat resources it has already shared, not to verify that the
// resources were actually helpful.
var DefaultDisclosureMarkers = []string{
	"1098",
	"counseling center",
	"counselling center",
	"crisis helpline",
	"mental health helpline",
	"professional help",
}

// DisclosureGate tracks whether safety-resource information has been
// surfaced during the session.
//
// The gate is a latch: once a counselor reply matches any marker, the gate
// stays disclosed until the whole session is reset. It is evaluated only for
// supportive replies, never for diagnostic generation. This is a best-effort
// heuristic over the oracle's free text; the oracle may disclose without
// matching a marker or stay silent even when hinted.
type DisclosureGate struct {
	markers   []string
	disclosed bool
}

// NewDisclosureGate creates a gate with the given marker set. A nil or empty
// set falls back to DefaultDisclosureMarkers.
func NewDisclosureGate(markers []string) *DisclosureGate {
	if len(markers) == 0 {
		markers = DefaultDisclosureMarkers
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &DisclosureGate{markers: lowered}
}

// NeedsHint reports whether the next supportive-reply request should carry
// the crisis-resources directive. True exactly while no disclosure has been
// observed this session.
func (g *DisclosureGate) NeedsHint() bool {
	return !g.disclosed
}

// Disclosed reports whether a disclosure has been observed this session.
func (g *DisclosureGate) Disclosed() bool {
	return g.disclosed
}

// Observe scans a counselor reply for disclosure markers and latches the
// gate on the first match. Returns true if this call flipped the gate.
func (g *DisclosureGate) Observe(replyText string) bool {
	if g.disclosed {
		return false
	}
	lowered := strings.ToLower(replyText)
	for _, m := range g.markers {
		if strings.Contains(lowered, m) {
			g.disclosed = true
			return true
		}
	}
	return false
}
