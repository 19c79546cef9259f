// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// HeaderConfig contains configuration for displaying the session header.
//
// # Description
//
// HeaderConfig groups all optional parameters for the session header
// display. This allows extending the header with new fields without
// breaking existing callers of the Header() method.
//
// # Fields
//
//   - SessionID: Session identifier. May be empty before intake completes.
//   - StudentName: Display name collected during intake.
//   - Timeout: Inactivity limit after which the session ends.
type HeaderConfig struct {
	SessionID   string
	StudentName string
	Timeout     time.Duration
}

// SessionStats aggregates metrics from a counseling session for display.
//
// # Description
//
// SessionStats captures accumulated metrics across all exchanges in a
// session. It's designed to be displayed when the session ends, giving
// the student visibility into the conversation that just closed.
//
// # Fields
//
//   - TurnCount: Total transcript turns (student and counselor combined)
//   - Duration: Total session duration
//   - TimedOut: True if the session ended via the inactivity limit
type SessionStats struct {
	TurnCount int
	Duration  time.Duration
	TimedOut  bool
}

// ChatUI defines the interface for counseling chat interface operations.
// Implementations handle rendering session elements to different outputs.
type ChatUI interface {
	// Header displays the session header with student and timeout info.
	Header(config HeaderConfig)

	// Prompt returns the styled input prompt string
	Prompt() string

	// Reply displays the counselor's response
	Reply(text string)

	// TimeoutNotice displays a message when the inactivity limit fires
	TimeoutNotice(limit time.Duration)

	// Summary displays the diagnostic summary body
	Summary(body string)

	// SummaryUnavailable displays why no summary could be generated
	SummaryUnavailable(reason string)

	// ArtifactSaved displays the path of a written report file
	ArtifactSaved(path string)

	// Error displays a chat error message
	Error(err error)

	// SessionEnd displays session end information with stats
	SessionEnd(sessionID string, stats *SessionStats)
}

// terminalChatUI implements ChatUI for terminal output
type terminalChatUI struct {
	writer      io.Writer
	personality PersonalityLevel
}

// NewChatUI creates a new terminal-based ChatUI
func NewChatUI() ChatUI {
	return &terminalChatUI{
		writer:      os.Stdout,
		personality: GetPersonality().Level,
	}
}

// NewChatUIWithWriter creates a ChatUI with a custom writer (for testing)
func NewChatUIWithWriter(w io.Writer, personality PersonalityLevel) ChatUI {
	return &terminalChatUI{
		writer:      w,
		personality: personality,
	}
}

// write is a helper that writes formatted output and handles errors.
// Errors are silently ignored as there's no meaningful recovery for terminal output.
func (u *terminalChatUI) write(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(u.writer, format, args...); err != nil {
		return
	}
}

// writeln is a helper that writes a line and handles errors.
func (u *terminalChatUI) writeln(args ...interface{}) {
	if _, err := fmt.Fprintln(u.writer, args...); err != nil {
		return
	}
}

// Header displays the session header.
func (u *terminalChatUI) Header(config HeaderConfig) {
	if u.personality == PersonalityMachine {
		parts := []string{"mode=counseling"}
		if config.SessionID != "" {
			parts = append(parts, fmt.Sprintf("session=%s", config.SessionID))
		}
		if config.StudentName != "" {
			parts = append(parts, fmt.Sprintf("student=%s", config.StudentName))
		}
		if config.Timeout > 0 {
			parts = append(parts, fmt.Sprintf("timeout=%s", config.Timeout))
		}
		u.write("SESSION_START: %s\n", strings.Join(parts, " "))
		return
	}

	if u.personality == PersonalityMinimal {
		u.writeln("MindfulTalk Counseling Session")
		if config.Timeout > 0 {
			u.write("Inactivity limit: %s\n", formatDuration(config.Timeout))
		}
		u.writeln("Type 'exit' to end.")
		return
	}

	var content strings.Builder
	content.WriteString(Styles.Highlight.Render("MindfulTalk"))
	content.WriteString("\n")
	content.WriteString(Styles.Muted.Render("A supportive space to talk things through."))
	if config.StudentName != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Student: %s", Styles.Success.Render(config.StudentName)))
	}
	if config.Timeout > 0 {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Inactivity limit: %s", Styles.Success.Render(formatDuration(config.Timeout))))
	}
	if config.SessionID != "" {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("Session: %s", Styles.Muted.Render(config.SessionID)))
	}

	boxStyle := Styles.Box.Width(60)
	u.writeln(boxStyle.Render(content.String()))
	u.writeln()
	u.writeln(Styles.Muted.Render("Type 'exit' to end and receive your session report."))
	u.writeln()
}

// Prompt returns the styled input prompt string
func (u *terminalChatUI) Prompt() string {
	if u.personality == PersonalityMachine {
		return "> "
	}
	return Styles.Highlight.Render("> ")
}

// Reply displays the counselor's response
func (u *terminalChatUI) Reply(text string) {
	if u.personality == PersonalityMachine {
		u.write("REPLY: %s\n", text)
		return
	}
	u.writeln()
	if u.personality == PersonalityMinimal {
		u.writeln(text)
	} else {
		u.writeln(Styles.Counselor.Render(text))
	}
	u.writeln()
}

// TimeoutNotice displays a message when the inactivity limit fires
func (u *terminalChatUI) TimeoutNotice(limit time.Duration) {
	if u.personality == PersonalityMachine {
		u.write("SESSION_TIMEOUT: limit=%s\n", limit)
		return
	}
	u.write("%s %s\n", IconTime.Render(),
		Styles.Warning.Render(fmt.Sprintf("Session ended after %s of inactivity.", formatDuration(limit))))
}

// Summary displays the diagnostic summary body
func (u *terminalChatUI) Summary(body string) {
	if u.personality == PersonalityMachine {
		u.write("SUMMARY: %s\n", body)
		return
	}
	u.writeln()
	if u.personality == PersonalityMinimal {
		u.writeln("Session Summary:")
		u.writeln(body)
		return
	}
	boxStyle := Styles.InfoBox.Width(68)
	titleLine := Styles.Subtitle.Render("Session Summary")
	u.writeln(boxStyle.Render(titleLine + "\n\n" + body))
}

// SummaryUnavailable displays why no summary could be generated
func (u *terminalChatUI) SummaryUnavailable(reason string) {
	if u.personality == PersonalityMachine {
		u.write("SUMMARY_UNAVAILABLE: %s\n", reason)
		return
	}
	u.write("%s %s\n", IconWarning.Render(), Styles.Warning.Render(reason))
}

// ArtifactSaved displays the path of a written report file
func (u *terminalChatUI) ArtifactSaved(path string) {
	if u.personality == PersonalityMachine {
		u.write("ARTIFACT: %s\n", path)
		return
	}
	u.write("%s %s %s\n", IconDocument.Render(),
		Styles.Muted.Render("Report saved:"), path)
}

// Error displays a chat error message
func (u *terminalChatUI) Error(err error) {
	if u.personality == PersonalityMachine {
		u.write("CHAT_ERROR: %v\n", err)
		return
	}
	u.write("%s %s\n", IconError.Render(), Styles.Error.Render(fmt.Sprintf("Chat error: %v", err)))
}

// SessionEnd displays session end information with statistics.
//
// # Description
//
// Displays a session summary including the session ID, exchange counts,
// and duration, followed by a goodbye message. If stats is nil only the
// goodbye is shown.
//
// # Inputs
//
//   - sessionID: The session identifier. May be empty for aborted sessions.
//   - stats: Session statistics. May be nil.
//
// # Outputs
//
// None. Writes directly to the configured writer.
func (u *terminalChatUI) SessionEnd(sessionID string, stats *SessionStats) {
	if u.personality == PersonalityMachine {
		if stats != nil {
			u.write("SESSION_END: session=%s turns=%d duration=%s timed_out=%t\n",
				sessionID, stats.TurnCount, stats.Duration.Round(time.Millisecond), stats.TimedOut)
		} else {
			u.write("SESSION_END: session=%s\n", sessionID)
		}
		return
	}

	if stats == nil {
		u.writeln(Styles.Highlight.Render("Take care of yourself. Goodbye!"))
		return
	}

	if u.personality == PersonalityMinimal {
		u.writeln()
		if sessionID != "" {
			u.write("Session: %s\n", sessionID)
		}
		u.write("Turns: %d | Duration: %s\n", stats.TurnCount, formatDuration(stats.Duration))
		u.writeln("Take care of yourself. Goodbye!")
		return
	}

	u.writeln()
	var content strings.Builder
	content.WriteString(Styles.Subtitle.Render("Session Closed"))
	content.WriteString("\n\n")
	if sessionID != "" {
		content.WriteString(fmt.Sprintf("  %s  %s\n",
			Styles.Muted.Render("ID:"),
			Styles.Highlight.Render(sessionID)))
	}
	content.WriteString(fmt.Sprintf("  %s  %d turns exchanged\n",
		IconHeart.Render(), stats.TurnCount))
	content.WriteString(fmt.Sprintf("  %s  %s session duration\n",
		IconTime.Render(), formatDuration(stats.Duration)))
	if stats.TimedOut {
		content.WriteString(fmt.Sprintf("  %s  ended by inactivity limit\n",
			IconWarning.Render()))
	}

	boxStyle := Styles.Box.Width(68)
	u.writeln(boxStyle.Render(content.String()))
	u.writeln()
	u.writeln(Styles.Highlight.Render("Take care of yourself. Goodbye!"))
}

// formatDuration formats a duration for human-readable display.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, mins)
}
