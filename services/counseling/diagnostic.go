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

	"github.com/mindfultalk-ai/mindfultalk/services/llm"
)

// InsufficientDataMessage is the defined placeholder shown when a diagnostic
// summary is requested on too short a transcript.
const InsufficientDataMessage = "Insufficient conversation data to generate a diagnostic summary."

// ErrInsufficientData is returned when the transcript has fewer turns than
// the eligibility minimum. No oracle call is made in that case.
var ErrInsufficientData = errors.New("insufficient conversation data for a diagnostic summary")

// DiagnosticSummary is the clinical-style synopsis derived from a full
// transcript. The body is stored verbatim; the urgency level the oracle
// asserts is embedded in the free text and never machine-parsed.
type DiagnosticSummary struct {
	GeneratedAt time.Time
	Body        string
}

// SummaryGenerator runs the diagnostic mode of the completion service over
// an entire transcript plus profile context.
type SummaryGenerator struct {
	oracle   llm.CompletionClient
	minTurns int
	clock    func() time.Time
}

// NewSummaryGenerator creates a generator. cfg supplies the eligibility
// minimum and clock; zero values fall back to defaults.
func NewSummaryGenerator(oracle llm.CompletionClient, cfg Config) *SummaryGenerator {
	cfg = cfg.withDefaults()
	return &SummaryGenerator{
		oracle:   oracle,
		minTurns: cfg.MinSummaryTurns,
		clock:    cfg.Clock,
	}
}

// Generate produces a diagnostic summary from the whole transcript. The
// precondition is transcript length >= the eligibility minimum; otherwise
// ErrInsufficientData is returned and the oracle is never called. A
// completion failure is returned as-is: the caller decides whether to
// retry, and the session is not affected.
func (g *SummaryGenerator) Generate(ctx context.Context, profile IntakeProfile, transcript *Transcript) (*DiagnosticSummary, error) {
	if transcript.Len() < g.minTurns {
		slog.Info("diagnostic summary skipped", "turns", transcript.Len(), "required", g.minTurns)
		return nil, ErrInsufficientData
	}

	instruction := BuildInstruction(ModeDiagnostic, profile, false)
	messages := BuildMessages(ModeDiagnostic, instruction, transcript, "")

	body, err := g.oracle.Complete(ctx, messages, SamplingParams(ModeDiagnostic))
	if err != nil {
		slog.Error("diagnostic summary generation failed", "error", err)
		return nil, fmt.Errorf("generate diagnostic summary: %w", err)
	}
	if body == "" {
		return nil, errors.New("generate diagnostic summary: completion service returned no content")
	}

	return &DiagnosticSummary{
		GeneratedAt: g.clock(),
		Body:        body,
	}, nil
}

// SessionOutcome is what remains of a session after it concludes: the
// summary (nil when ineligible or generation failed, with SummaryErr
// explaining why) and the export artifacts derived from it.
type SessionOutcome struct {
	SessionID  string
	State      SessionState
	Duration   time.Duration
	Summary    *DiagnosticSummary
	SummaryErr error
	Artifacts  []ExportArtifact
}

// Conclude finishes a session: explicit termination or timeout, then the
// eager diagnostic run when the transcript qualifies, then artifact
// rendering, then an unconditional reset. The returned outcome is the only
// thing that survives; the session itself is back in the Intake state.
func Conclude(ctx context.Context, s *Session, g *SummaryGenerator) (SessionOutcome, error) {
	if err := s.End(); err != nil {
		return SessionOutcome{}, err
	}

	outcome := SessionOutcome{
		SessionID: s.ID(),
		State:     s.State(),
		Duration:  s.Elapsed(),
	}

	summary, err := g.Generate(ctx, s.Profile(), s.Transcript())
	if err != nil {
		outcome.SummaryErr = err
	} else {
		outcome.Summary = summary
		artifacts, exportErr := BuildArtifacts(s.ID(), s.Profile(), s.Transcript(), summary, FormatText, FormatDocument)
		if exportErr != nil {
			slog.Error("artifact rendering failed", "session_id", s.ID(), "error", exportErr)
		}
		outcome.Artifacts = artifacts
	}

	s.Reset()
	return outcome, nil
}
