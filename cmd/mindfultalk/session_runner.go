// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mindfultalk-ai/mindfultalk/pkg/ux"
	"github.com/mindfultalk-ai/mindfultalk/services/counseling"
)

// =============================================================================
// SessionRunner
// =============================================================================

// SessionRunner drives one interactive counseling session from intake to
// report.
//
// # Description
//
// SessionRunner coordinates the counseling session, the diagnostic summary
// generator, the terminal UI, and user input. It owns the chat loop:
//
//  1. Begins the session with the intake profile (opening greeting)
//  2. Reads student messages and relays counselor replies
//  3. Polls the inactivity limit on every turn
//  4. On exit, EOF, timeout, or cancellation: concludes the session,
//     displays the diagnostic summary, and writes report files
//
// The runner is single use: it cannot be restarted after Run() returns.
// Close() is thread-safe and idempotent.
//
// # Limitations
//
//   - Stdin reads cannot be interrupted mid-line (OS limitation)
//
// # Assumptions
//
//   - Session is in the intake state when Run() is called
//   - UI is ready for output
type SessionRunner struct {
	session   *counseling.Session
	generator *counseling.SummaryGenerator
	ui        ux.ChatUI
	input     InputReader
	profile   counseling.IntakeProfile
	timeout   time.Duration
	exportDir string
	closed    bool
	mu        sync.Mutex
}

// SessionRunnerConfig groups the dependencies for a SessionRunner.
//
// All fields are required except ExportDir; when ExportDir is empty no
// report files are written and only the on-screen summary is shown.
type SessionRunnerConfig struct {
	Session   *counseling.Session
	Generator *counseling.SummaryGenerator
	UI        ux.ChatUI
	Input     InputReader
	Profile   counseling.IntakeProfile
	Timeout   time.Duration
	ExportDir string
}

// NewSessionRunner creates a runner from the given dependencies.
func NewSessionRunner(cfg SessionRunnerConfig) *SessionRunner {
	return &SessionRunner{
		session:   cfg.Session,
		generator: cfg.Generator,
		ui:        cfg.UI,
		input:     cfg.Input,
		profile:   cfg.Profile,
		timeout:   cfg.Timeout,
		exportDir: cfg.ExportDir,
	}
}

// Run executes the interactive counseling loop.
//
// # Description
//
// Begins the session, displays the header and greeting, then loops reading
// student input until an exit condition:
//   - "exit"/"quit" or EOF: session concluded normally
//   - inactivity limit exceeded: timeout notice, then concluded
//   - context cancellation: concluded, returns context error
//
// Oracle failures are not fatal: the error marker is shown as the
// counselor's reply and the student may retry.
//
// # Outputs
//
//   - error: nil on normal exit, ctx.Err() on cancellation, or error if
//     the session could not begin or conclude
func (r *SessionRunner) Run(ctx context.Context) error {
	greeting, err := r.session.Begin(r.profile)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}

	r.ui.Header(ux.HeaderConfig{
		SessionID:   r.session.ID(),
		StudentName: r.profile.DisplayName,
		Timeout:     r.timeout,
	})
	r.ui.Reply(greeting.Text)

	for {
		select {
		case <-ctx.Done():
			r.conclude(context.Background())
			return ctx.Err()
		default:
		}

		// Display prompt and read input
		if p, ok := r.input.(PromptingInputReader); ok {
			p.SetPrompt(r.ui.Prompt())
		} else {
			fmt.Print(r.ui.Prompt())
		}
		input, err := r.input.ReadLine()
		if err != nil {
			if err == io.EOF {
				// Input exhausted (e.g., piped input ended)
				r.conclude(ctx)
				return nil
			}
			slog.Error("failed to read input", "error", err)
			return fmt.Errorf("read input: %w", err)
		}

		if input == "" {
			// An empty line still counts as an interaction tick
			if r.session.CheckTimeout() {
				r.ui.TimeoutNotice(r.timeout)
				r.conclude(ctx)
				return nil
			}
			continue
		}

		if isExitCommand(input) {
			r.conclude(ctx)
			return nil
		}

		exchange, err := r.session.HandleStudentMessage(ctx, input)
		if err != nil {
			if errors.Is(err, counseling.ErrSessionTimedOut) {
				r.ui.TimeoutNotice(r.timeout)
				r.conclude(ctx)
				return nil
			}
			if ctx.Err() != nil {
				r.conclude(context.Background())
				return ctx.Err()
			}
			return fmt.Errorf("handle message: %w", err)
		}

		r.ui.Reply(exchange.Reply.Text)
	}
}

// conclude finishes the session and renders the outcome.
//
// The turn count is captured before Conclude resets the session. Summary
// and report rendering failures are reported on screen but never abort the
// conclusion: the session always ends cleanly.
func (r *SessionRunner) conclude(ctx context.Context) {
	turns := r.session.Transcript().Len()
	timedOut := r.session.State() == counseling.StateTimedOut

	outcome, err := counseling.Conclude(ctx, r.session, r.generator)
	if err != nil {
		// Session never went active; nothing to summarize.
		r.ui.SessionEnd("", nil)
		return
	}

	if outcome.Summary != nil {
		r.ui.Summary(outcome.Summary.Body)
		r.writeArtifacts(outcome.Artifacts)
	} else if errors.Is(outcome.SummaryErr, counseling.ErrInsufficientData) {
		r.ui.SummaryUnavailable(counseling.InsufficientDataMessage)
	} else if outcome.SummaryErr != nil {
		r.ui.SummaryUnavailable(fmt.Sprintf("Summary generation failed: %v", outcome.SummaryErr))
	}

	r.ui.SessionEnd(outcome.SessionID, &ux.SessionStats{
		TurnCount: turns,
		Duration:  outcome.Duration,
		TimedOut:  timedOut,
	})
}

// writeArtifacts writes the rendered report files into the export directory.
func (r *SessionRunner) writeArtifacts(artifacts []counseling.ExportArtifact) {
	if r.exportDir == "" || len(artifacts) == 0 {
		return
	}

	dir := expandHome(r.exportDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		slog.Error("failed to create report directory", "dir", dir, "error", err)
		r.ui.Error(fmt.Errorf("create report directory: %w", err))
		return
	}

	for _, artifact := range artifacts {
		path := filepath.Join(dir, artifact.Filename)
		// Reports hold personal conversation data; keep them private.
		if err := os.WriteFile(path, artifact.Bytes, 0600); err != nil {
			slog.Error("failed to write report", "path", path, "error", err)
			r.ui.Error(fmt.Errorf("write report %s: %w", artifact.Filename, err))
			continue
		}
		r.ui.ArtifactSaved(path)
	}
}

// Close releases the runner. Safe to call multiple times.
func (r *SessionRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
