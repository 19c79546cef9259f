// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/mindfultalk-ai/mindfultalk/pkg/ux"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// --- Global Command Variables ---
var (
	personalityLevel string // UX personality level (full/standard/minimal/machine)
	studentName      string // Skip the intake form and start with just a name
	modelOverride    string // Override the configured oracle model
	timeoutOverride  int    // Override the configured inactivity limit (seconds)
	exportOverride   string // Override the configured report directory

	rootCmd = &cobra.Command{
		Use:   "mindfultalk",
		Short: "A private AI counseling companion for students",
		Long: `MindfulTalk is a terminal companion for students who want a
				supportive, judgment-free space to talk through stress, anxiety,
				and everything in between. Sessions end with a diagnostic report
				you can keep or share with a professional.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
		},
	}

	// --- Chat ---
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Starts an interactive counseling session",
		Run:   runChatCommand, // Defined in cmd_chat.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the MindfulTalk version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mindfultalk %s\n", version)
		},
	}
)

// init runs when the Go program starts
func init() {
	// Global UX personality flag
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default, rich), standard, minimal, or machine (scripting)")

	// chat command
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&studentName, "name", "",
		"Skip the intake form and start a session with just this display name")
	chatCmd.Flags().StringVar(&modelOverride, "model", "",
		"Override the configured oracle model for this session")
	chatCmd.Flags().IntVar(&timeoutOverride, "timeout", 0,
		"Override the inactivity limit in seconds (default from config)")
	chatCmd.Flags().StringVar(&exportOverride, "export-dir", "",
		"Directory to write the session report into (default from config)")

	rootCmd.AddCommand(versionCmd)
}
