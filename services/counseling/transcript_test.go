// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAssignsSequentialIndexes(t *testing.T) {
	tr := NewTranscript()

	first := tr.Append(RoleCounselor, "hello")
	second := tr.Append(RoleStudent, "hi")
	third := tr.Append(RoleCounselor, "how are you?")

	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 2, third.Index)
	assert.Equal(t, 3, tr.Len())
}

func TestTranscript_TurnsReturnsACopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(RoleStudent, "original")

	turns := tr.Turns()
	turns[0].Text = "mutated"

	fresh := tr.Turns()
	assert.Equal(t, "original", fresh[0].Text)
}

func TestTranscript_Last(t *testing.T) {
	tr := NewTranscript()

	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Append(RoleStudent, "first")
	tr.Append(RoleCounselor, "second")

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, RoleCounselor, last.Role)
	assert.Equal(t, "second", last.Text)
}

func TestIntakeProfile_Normalized(t *testing.T) {
	p := IntakeProfile{DisplayName: "Alex", Age: "20"}
	n := p.Normalized()

	assert.Equal(t, "Alex", n.DisplayName)
	assert.Equal(t, "20", n.Age)
	assert.Equal(t, Unknown, n.Gender)
	assert.Equal(t, Unknown, n.LivingSituation)

	// The original is untouched.
	assert.Empty(t, p.Gender)
}

func TestIntakeProfile_Validate(t *testing.T) {
	assert.Error(t, IntakeProfile{}.Validate(), "display name is required")
	assert.NoError(t, IntakeProfile{DisplayName: "Alex"}.Validate())

	long := IntakeProfile{DisplayName: strings.Repeat("x", 80)}
	assert.Error(t, long.Validate())
}

func TestIntakeProfile_FieldsRendering(t *testing.T) {
	p := IntakeProfile{DisplayName: "Alex", AcademicYear: "junior"}
	fields := p.Fields()

	require.Len(t, fields, 7)
	assert.Equal(t, [2]string{"Name", "Alex"}, fields[0])
	assert.Equal(t, [2]string{"Age", "Not provided"}, fields[1])
	assert.Equal(t, [2]string{"Academic Year", "junior"}, fields[6])
}
