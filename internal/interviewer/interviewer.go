// Package interviewer renders the candidate-visible message for one turn.
// It never classifies or fact-checks; it assembles text the observer and the
// question catalog already decided on.
package interviewer

import (
	"strings"

	"github.com/abhisek/intervu/internal/textutil"
)

const (
	defaultQuestion  = "Можешь рассказать подробнее?"
	fallbackQuestion = "Расскажи подробнее?"
)

// Compose builds the visible reply: optional bridge sentence, optional
// fact-check sentence, then exactly one question line. The output never
// exceeds three lines and always contains exactly one '?'-terminated line.
func Compose(question, bridge, factCheck string) string {
	b := textutil.OneSentence(bridge)
	f := textutil.OneSentence(factCheck)
	q := textutil.OneQuestion(question)
	if q == "" {
		q = defaultQuestion
	}

	var parts []string
	if b != "" {
		parts = append(parts, b)
	}
	if f != "" {
		parts = append(parts, f)
	}
	parts = append(parts, q)

	// A bridge or fact line may itself end in '?'; only the first
	// interrogative line survives.
	var out []string
	questions := 0
	for _, line := range parts {
		line = strings.Join(strings.Fields(line), " ")
		if strings.HasSuffix(line, "?") {
			if questions == 0 {
				out = append(out, line)
				questions++
			}
			continue
		}
		out = append(out, line)
	}

	if questions == 0 {
		out = append(out, fallbackQuestion)
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return strings.Join(out, "\n")
}
