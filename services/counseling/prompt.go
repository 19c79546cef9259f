// Copyright (C) 2025 MindfulTalk (hello@mindfultalk.app)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package counseling

import (
	"fmt"
	"strings"

	"github.com/mindfultalk-ai/mindfultalk/services/llm"
)

// Mode selects which kind of completion the prompt builder assembles.
type Mode int

const (
	// ModeReply produces a supportive counselor reply to the latest student
	// message.
	ModeReply Mode = iota

	// ModeDiagnostic produces a clinical-style summary of the whole session.
	ModeDiagnostic
)

// Sampling parameters per mode. Replies stay warm and conversational;
// diagnostic summaries run cooler with more room for structure.
var (
	replyTemperature      float32 = 0.7
	replyMaxTokens                = 1000
	diagnosticTemperature float32 = 0.4
	diagnosticMaxTokens           = 1500
)

const personaInstruction = `You are an empathetic and supportive counselor for college students.
Your responses should be:
1. Compassionate and non-judgmental
2. Encouraging but realistic
3. Focused on helping students develop healthy coping strategies
4. Clear about your role as an AI support tool, not a replacement for professional help
5. Direct students to professional help when discussing serious issues`

const crisisDirective = `You have not yet shared crisis resources in this session.
If you detect signs of serious mental health concerns, include information about:
- The college counseling center
- The 24/7 mental health helpline: 1098
- Encouraging them to talk to trusted friends, family, or counselors`

const diagnosticInstruction = `Review the full conversation above and produce a structured
clinical-style diagnostic summary for a human counselor. Include these sections:
1. Presenting Concerns - the main issues the student raised
2. Observations - emotional state, coping patterns, notable statements
3. Urgency Level - one of: Low, Moderate, High, Critical, with a short rationale
4. Recommendations - suggested next steps and resources
Write in plain professional language. Do not address the student directly.`

// BuildInstruction produces the persona instruction for the given mode and
// profile. Pure function of its inputs: it never reads the transcript or any
// session state. includeCrisisHint is honored only in ModeReply.
func BuildInstruction(mode Mode, profile IntakeProfile, includeCrisisHint bool) string {
	var b strings.Builder
	b.WriteString(personaInstruction)

	p := profile.Normalized()
	b.WriteString("\n\nWhat you know about the student:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.DisplayName)
	fmt.Fprintf(&b, "- Age: %s\n", p.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Parental status: %s\n", p.ParentalStatus)
	fmt.Fprintf(&b, "- Financial background: %s\n", p.FinancialBackground)
	fmt.Fprintf(&b, "- Living situation: %s\n", p.LivingSituation)
	fmt.Fprintf(&b, "- Academic year: %s", p.AcademicYear)

	if mode == ModeReply && includeCrisisHint {
		b.WriteString("\n\n")
		b.WriteString(crisisDirective)
	}
	return b.String()
}

// BuildMessages assembles the full ordered message sequence for a completion
// request: the persona instruction, every prior turn translated to a
// role-tagged entry, then the new student text as the final user entry. In
// ModeDiagnostic there is no trailing student message; the diagnostic
// instruction is appended as a final user entry instead.
func BuildMessages(mode Mode, instruction string, transcript *Transcript, newStudentText string) []llm.Message {
	turns := transcript.Turns()
	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: instruction})

	for _, turn := range turns {
		role := llm.RoleUser
		if turn.Role == RoleCounselor {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}

	switch mode {
	case ModeReply:
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: newStudentText})
	case ModeDiagnostic:
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: diagnosticInstruction})
	}
	return messages
}

// SamplingParams returns the fixed sampling parameters for a mode.
func SamplingParams(mode Mode) llm.GenerationParams {
	if mode == ModeDiagnostic {
		return llm.GenerationParams{
			Temperature: &diagnosticTemperature,
			MaxTokens:   &diagnosticMaxTokens,
		}
	}
	return llm.GenerationParams{
		Temperature: &replyTemperature,
		MaxTokens:   &replyMaxTokens,
	}
}
