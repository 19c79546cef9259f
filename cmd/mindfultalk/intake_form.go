// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/mindfultalk-ai/mindfultalk/services/counseling"
)

// runIntakeForm collects the student's intake profile interactively.
//
// # Description
//
// Presents a huh form asking for a display name plus optional background
// fields. Only the name is required; everything else defaults to "unknown"
// so the student shares exactly as much as they are comfortable with.
//
// # Inputs
//
//   - in: Input source, normally os.Stdin
//   - out: Output destination, normally os.Stdout
//   - initialName: Pre-populates the name field when non-empty
//
// # Outputs
//
//   - counseling.IntakeProfile: The collected profile
//   - error: Non-nil if the form was aborted or input failed
func runIntakeForm(in io.Reader, out io.Writer, initialName string) (counseling.IntakeProfile, error) {
	var (
		name           = initialName
		age            string
		gender         string
		parentalStatus string
		financial      string
		living         string
		academicYear   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should I call you?").
				Description("A name or nickname, just for this session").
				Placeholder("Alex").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Age").
				Description("Optional, press enter to skip").
				Value(&age),
			huh.NewInput().
				Title("Gender").
				Description("Optional, press enter to skip").
				Value(&gender),
			huh.NewSelect[string]().
				Title("Academic year").
				Options(
					huh.NewOption("Prefer not to say", ""),
					huh.NewOption("High school", "high school"),
					huh.NewOption("Undergraduate - first year", "undergraduate first year"),
					huh.NewOption("Undergraduate - later years", "undergraduate"),
					huh.NewOption("Postgraduate", "postgraduate"),
				).
				Value(&academicYear),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Family situation").
				Description("e.g. \"live with both parents\". Optional.").
				Value(&parentalStatus),
			huh.NewInput().
				Title("Financial background").
				Description("e.g. \"on a scholarship\". Optional.").
				Value(&financial),
			huh.NewInput().
				Title("Living situation").
				Description("e.g. \"hostel\", \"at home\". Optional.").
				Value(&living),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (tests, piped input).
	if f, ok := in.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return counseling.IntakeProfile{}, fmt.Errorf("intake form failed: %w", err)
	}

	profile := counseling.IntakeProfile{
		DisplayName:         strings.TrimSpace(name),
		Age:                 strings.TrimSpace(age),
		Gender:              strings.TrimSpace(gender),
		ParentalStatus:      strings.TrimSpace(parentalStatus),
		FinancialBackground: strings.TrimSpace(financial),
		LivingSituation:     strings.TrimSpace(living),
		AcademicYear:        strings.TrimSpace(academicYear),
	}
	return profile.Normalized(), nil
}

// quickProfile builds a minimal profile from just a display name,
// used by the --name flag to skip the intake form.
func quickProfile(name string) counseling.IntakeProfile {
	profile := counseling.IntakeProfile{DisplayName: strings.TrimSpace(name)}
	return profile.Normalized()
}
