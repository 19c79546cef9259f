// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ArtifactFormat selects an export rendering.
type ArtifactFormat string

const (
	// FormatText is the plain UTF-8 text report.
	FormatText ArtifactFormat = "text"
	// FormatDocument is the paginated PDF report.
	FormatDocument ArtifactFormat = "document"
)

// ErrUnsupportedFormat is returned when an unknown format is requested. The
// artifact is absent in that case; nothing else fails.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportArtifact is a rendered, downloadable representation of a session.
// It is a pure function of (profile, transcript, summary): regenerating from
// identical inputs yields identical bytes.
type ExportArtifact struct {
	Format   ArtifactFormat
	Bytes    []byte
	Filename string
}

const (
	reportTitle    = "MindfulTalk Diagnostic Report"
	studentLabel   = "Student"
	counselorLabel = "AI Counselor"

	headerTimeLayout   = "2006-01-02 15:04:05"
	filenameTimeLayout = "20060102_150405"
)

// BuildArtifact renders one export artifact. Unsupported formats return a
// nil artifact and ErrUnsupportedFormat.
func BuildArtifact(format ArtifactFormat, sessionID string, profile IntakeProfile, transcript *Transcript, summary *DiagnosticSummary) (*ExportArtifact, error) {
	switch format {
	case FormatText:
		data := renderText(sessionID, profile, transcript, summary)
		return &ExportArtifact{
			Format:   FormatText,
			Bytes:    data,
			Filename: artifactFilename(profile.DisplayName, summary, "txt"),
		}, nil
	case FormatDocument:
		data, err := renderPDF(sessionID, profile, transcript, summary)
		if err != nil {
			return nil, err
		}
		return &ExportArtifact{
			Format:   FormatDocument,
			Bytes:    data,
			Filename: artifactFilename(profile.DisplayName, summary, "pdf"),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// BuildArtifacts renders the requested formats, skipping any that fail and
// returning the first error alongside the artifacts that did render.
func BuildArtifacts(sessionID string, profile IntakeProfile, transcript *Transcript, summary *DiagnosticSummary, formats ...ArtifactFormat) ([]ExportArtifact, error) {
	var artifacts []ExportArtifact
	var firstErr error
	for _, format := range formats {
		artifact, err := BuildArtifact(format, sessionID, profile, transcript, summary)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, firstErr
}

// artifactFilename builds diagnostic_<student>_<YYYYMMDD_HHMMSS>.<ext>.
func artifactFilename(displayName string, summary *DiagnosticSummary, ext string) string {
	return fmt.Sprintf("diagnostic_%s_%s.%s",
		sanitizeName(displayName),
		summary.GeneratedAt.Format(filenameTimeLayout),
		ext)
}

// sanitizeName reduces a display name to a filesystem-safe token.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "student"
	}
	return b.String()
}

// renderText produces the plain-text report: header block, profile block,
// summary body, then the full transcript with role labels, each turn
// separated by a blank line. Deterministic for identical inputs.
func renderText(sessionID string, profile IntakeProfile, transcript *Transcript, summary *DiagnosticSummary) []byte {
	var b bytes.Buffer
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, reportTitle)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Student:    %s\n", profile.DisplayName)
	fmt.Fprintf(&b, "Generated:  %s\n", summary.GeneratedAt.Format(headerTimeLayout))
	fmt.Fprintf(&b, "Session ID: %s\n", sessionID)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "INTAKE PROFILE")
	fmt.Fprintln(&b, strings.Repeat("-", 60))
	for _, field := range profile.Fields() {
		fmt.Fprintf(&b, "%s: %s\n", field[0], field[1])
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "DIAGNOSTIC SUMMARY")
	fmt.Fprintln(&b, strings.Repeat("-", 60))
	fmt.Fprintln(&b, summary.Body)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "FULL TRANSCRIPT")
	fmt.Fprintln(&b, strings.Repeat("-", 60))
	for _, turn := range transcript.Turns() {
		label := studentLabel
		if turn.Role == RoleCounselor {
			label = counselorLabel
		}
		fmt.Fprintf(&b, "%s: %s\n\n", label, turn.Text)
	}

	return b.Bytes()
}

// renderPDF produces the paginated report: a title page with the header and
// profile plus the diagnostic section, then a new page with the full
// transcript, role labels bolded.
func renderPDF(sessionID string, profile IntakeProfile, transcript *Transcript, summary *DiagnosticSummary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Pin the document metadata to the generation time so identical inputs
	// render identical bytes.
	pdf.SetCreationDate(summary.GeneratedAt)
	pdf.SetModificationDate(summary.GeneratedAt)
	pdf.SetMargins(20, 20, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title page: header, profile, diagnostic section.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(reportTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Student: %s", profile.DisplayName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generated: %s", summary.GeneratedAt.Format(headerTimeLayout))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Session ID: %s", sessionID)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Intake Profile", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, field := range profile.Fields() {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", field[0], field[1])), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Diagnostic Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5.5, tr(summary.Body), "", "L", false)

	// Transcript starts on its own page.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Full Transcript", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	for _, turn := range transcript.Turns() {
		label := studentLabel
		if turn.Role == RoleCounselor {
			label = counselorLabel
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 6, tr(label+":"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, tr(turn.Text), "", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF artifact: %w", err)
	}
	return buf.Bytes(), nil
}
