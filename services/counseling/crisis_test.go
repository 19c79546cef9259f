// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisclosureGate_DefaultMarkers(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		match bool
	}{
		{"helpline number", "You can call 1098 any time.", true},
		{"counseling center", "The Counseling Center on campus can help.", true},
		{"british spelling", "Visit the counselling center.", true},
		{"professional help", "Please seek Professional Help for this.", true},
		{"no marker", "That sounds really hard. Tell me more.", false},
		{"empty reply", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewDisclosureGate(nil)
			assert.Equal(t, tc.match, gate.Observe(tc.reply))
			assert.Equal(t, tc.match, gate.Disclosed())
			assert.Equal(t, !tc.match, gate.NeedsHint())
		})
	}
}

func TestDisclosureGate_LatchIsPermanent(t *testing.T) {
	gate := NewDisclosureGate(nil)

	flipped := gate.Observe("call the crisis helpline")
	assert.True(t, flipped)

	// Further marker hits report no transition; the gate stays latched.
	for i := 0; i < 3; i++ {
		assert.False(t, gate.Observe("the crisis helpline again"))
		assert.True(t, gate.Disclosed())
		assert.False(t, gate.NeedsHint())
	}
}

func TestDisclosureGate_CustomMarkerSet(t *testing.T) {
	gate := NewDisclosureGate([]string{"lifeline", "988"})

	assert.False(t, gate.Observe("call 1098"), "default markers are replaced, not merged")
	assert.True(t, gate.Observe("the Lifeline at 988 is available"))
}
