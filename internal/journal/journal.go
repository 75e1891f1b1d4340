// Package journal records the turn-by-turn transcript of a session and
// writes the final JSON document. The persisted shape is a strict public
// projection: internal metadata stays in memory and never reaches the file.
package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Thought is one hidden-reasoning note attached to a turn.
type Thought struct {
	Role    string
	Content string
}

// TurnMeta is bookkeeping kept for report aggregation only. It is not part
// of the persisted document.
type TurnMeta struct {
	Kind                string
	Topic               string
	Source              string
	QuestionAnswered    string
	QuestionAsked       string
	ExpectedAnswerShort string
}

// Turn is one completed exchange: the question shown, the candidate's
// answer, and the hidden notes produced while handling it.
type Turn struct {
	TurnID              int
	AgentVisibleMessage string
	UserMessage         string
	Thoughts            []Thought
	Meta                TurnMeta
}

// SessionMeta is per-session bookkeeping, also kept out of the document.
type SessionMeta struct {
	SessionID   string
	LLMProvider string
	LLMModel    string
	StartedAt   time.Time
	Position    string
	Grade       string
	Experience  string
	ScenarioID  int
}

// Log accumulates a session's transcript.
type Log struct {
	ParticipantName string
	Turns           []Turn
	Meta            SessionMeta
	FinalFeedback   string
}

// NewLog creates a Log with a fresh session ID.
func NewLog(participantName string, meta SessionMeta) *Log {
	meta.SessionID = uuid.NewString()
	meta.StartedAt = time.Now().UTC()
	return &Log{ParticipantName: participantName, Meta: meta}
}

// AddTurn appends a completed turn.
func (l *Log) AddTurn(t Turn) {
	l.Turns = append(l.Turns, t)
}

// FlattenThoughts renders hidden notes as "[Role]: content\n" lines, the
// format the persisted document uses for internal_thoughts.
func FlattenThoughts(thoughts []Thought) string {
	var b strings.Builder
	for _, th := range thoughts {
		role := th.Role
		if role == "" {
			role = "Agent"
		}
		content := strings.TrimSpace(strings.ReplaceAll(th.Content, "\r\n", "\n"))
		fmt.Fprintf(&b, "[%s]: %s\n", role, content)
	}
	return b.String()
}

type publicTurn struct {
	TurnID              int    `json:"turn_id"`
	AgentVisibleMessage string `json:"agent_visible_message"`
	UserMessage         string `json:"user_message"`
	InternalThoughts    string `json:"internal_thoughts"`
}

type publicLog struct {
	ParticipantName string       `json:"participant_name"`
	Turns           []publicTurn `json:"turns"`
	FinalFeedback   string       `json:"final_feedback"`
}

func (l *Log) public() publicLog {
	turns := make([]publicTurn, 0, len(l.Turns))
	for _, t := range l.Turns {
		turns = append(turns, publicTurn{
			TurnID:              t.TurnID,
			AgentVisibleMessage: t.AgentVisibleMessage,
			UserMessage:         t.UserMessage,
			InternalThoughts:    FlattenThoughts(t.Thoughts),
		})
	}
	return publicLog{
		ParticipantName: l.ParticipantName,
		Turns:           turns,
		FinalFeedback:   l.FinalFeedback,
	}
}

// Save writes the public projection to path atomically: a temp file in the
// same directory, then rename. Cyrillic content is written as-is, not
// escaped.
func (l *Log) Save(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.public()); err != nil {
		return fmt.Errorf("encoding interview log: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".intervu-log-*")
	if err != nil {
		return fmt.Errorf("creating temp log file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing interview log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing interview log: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing interview log: %w", err)
	}
	return nil
}
