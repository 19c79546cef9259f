// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Unknown is the default for intake fields the student chose not to answer.
const Unknown = "unknown"

// profileValidate is the validator instance shared by all intake profiles.
var profileValidate = validator.New()

// IntakeProfile holds the structured attributes collected once before the
// chat begins. Every field except DisplayName is optional and defaults to
// "unknown". The profile is set at most once, before the session goes
// Active, and is immutable afterwards.
type IntakeProfile struct {
	DisplayName         string `yaml:"display_name" validate:"required,min=1,max=64"`
	Age                 string `yaml:"age" validate:"omitempty,max=16"`
	Gender              string `yaml:"gender" validate:"omitempty,max=32"`
	ParentalStatus      string `yaml:"parental_status" validate:"omitempty,max=64"`
	FinancialBackground string `yaml:"financial_background" validate:"omitempty,max=64"`
	LivingSituation     string `yaml:"living_situation" validate:"omitempty,max=64"`
	AcademicYear        string `yaml:"academic_year" validate:"omitempty,max=32"`
}

// Validate checks the profile against its field constraints. A missing
// display name is the one hard failure: the session cannot start without
// knowing what to call the student.
func (p IntakeProfile) Validate() error {
	if err := profileValidate.Struct(p); err != nil {
		return fmt.Errorf("invalid intake profile: %w", err)
	}
	return nil
}

// Normalized returns a copy with every empty optional field replaced by
// "unknown". The prompt builder and exporters always work on normalized
// profiles so absent answers render consistently.
func (p IntakeProfile) Normalized() IntakeProfile {
	out := p
	for _, f := range []*string{
		&out.Age,
		&out.Gender,
		&out.ParentalStatus,
		&out.FinancialBackground,
		&out.LivingSituation,
		&out.AcademicYear,
	} {
		if *f == "" {
			*f = Unknown
		}
	}
	return out
}

// Fields returns the profile as ordered label/value pairs for rendering.
// Unknown values are mapped to "Not provided".
func (p IntakeProfile) Fields() [][2]string {
	display := func(v string) string {
		if v == "" || v == Unknown {
			return "Not provided"
		}
		return v
	}
	return [][2]string{
		{"Name", display(p.DisplayName)},
		{"Age", display(p.Age)},
		{"Gender", display(p.Gender)},
		{"Parental Status", display(p.ParentalStatus)},
		{"Financial Background", display(p.FinancialBackground)},
		{"Living Situation", display(p.LivingSituation)},
		{"Academic Year", display(p.AcademicYear)},
	}
}
