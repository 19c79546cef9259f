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
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindfultalk-ai/mindfultalk/cmd/mindfultalk/config"
	"github.com/mindfultalk-ai/mindfultalk/pkg/logging"
	"github.com/mindfultalk-ai/mindfultalk/pkg/ux"
	"github.com/mindfultalk-ai/mindfultalk/services/counseling"
	"github.com/mindfultalk-ai/mindfultalk/services/llm"
)

// runChatCommand starts an interactive counseling session.
//
// # Description
//
// Loads configuration, wires the Groq oracle, the counseling session, and
// the diagnostic generator, collects the intake profile, then hands control
// to a SessionRunner. Ctrl+C (SIGINT) and SIGTERM conclude the session
// gracefully so the diagnostic summary is still produced.
func runChatCommand(cmd *cobra.Command, args []string) {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load the config: %v", err)
	}
	cfg := config.Global

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: "mindfultalk",
		Quiet:   true,
	})
	defer logger.Close()
	logger.SetAsDefault()

	model := cfg.Oracle.Model
	if modelOverride != "" {
		model = modelOverride
	}
	oracle, err := llm.NewGroqClient(llm.GroqConfig{
		BaseURL: cfg.Oracle.BaseURL,
		Model:   model,
	})
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			ux.Error("No Groq API key found.")
			ux.Muted("Set the GROQ_API_KEY environment variable and try again:")
			ux.Muted("  export GROQ_API_KEY=gsk_...")
			os.Exit(1)
		}
		log.Fatalf("Failed to create the oracle client: %v", err)
	}

	timeout := time.Duration(cfg.Session.TimeoutSeconds) * time.Second
	if timeoutOverride > 0 {
		timeout = time.Duration(timeoutOverride) * time.Second
	}
	sessionCfg := counseling.Config{
		Timeout:         timeout,
		MinSummaryTurns: cfg.Session.MinSummaryTurns,
	}
	session := counseling.NewSession(oracle, sessionCfg)
	generator := counseling.NewSummaryGenerator(oracle, sessionCfg)

	exportDir := cfg.Session.ExportDir
	if exportOverride != "" {
		exportDir = exportOverride
	}

	// Intake: full form interactively, or the quick path with --name.
	var profile counseling.IntakeProfile
	if studentName != "" {
		profile = quickProfile(studentName)
	} else {
		profile, err = runIntakeForm(os.Stdin, os.Stderr, "")
		if err != nil {
			ux.Error("Intake was not completed.")
			os.Exit(1)
		}
	}

	runner := NewSessionRunner(SessionRunnerConfig{
		Session:   session,
		Generator: generator,
		UI:        ux.NewChatUI(),
		Input:     NewInteractiveInputReader(100),
		Profile:   profile,
		Timeout:   timeout,
		ExportDir: exportDir,
	})
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("The session ended with an error: %v", err)
	}
}
