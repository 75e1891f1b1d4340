package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenThoughts(t *testing.T) {
	got := FlattenThoughts([]Thought{
		{Role: "Observer", Content: "kind=STRONG diff=UP reason=ok"},
		{Role: "", Content: "взять следующий вопрос\r\n"},
	})
	want := "[Observer]: kind=STRONG diff=UP reason=ok\n[Agent]: взять следующий вопрос\n"
	assert.Equal(t, want, got)
}

func TestFlattenThoughts_Empty(t *testing.T) {
	assert.Equal(t, "", FlattenThoughts(nil))
}

func TestSave_PublicProjection(t *testing.T) {
	log := NewLog("Аня", SessionMeta{
		LLMProvider: "mock",
		Position:    "Backend Developer",
		Grade:       "middle",
		ScenarioID:  3,
	})
	require.NotEmpty(t, log.Meta.SessionID)

	log.AddTurn(Turn{
		TurnID:              1,
		AgentVisibleMessage: "Что такое горутина?",
		UserMessage:         "Лёгкий поток поверх потоков ОС",
		Thoughts: []Thought{
			{Role: "Observer", Content: "kind=STRONG diff=UP reason=relevant"},
		},
		Meta: TurnMeta{Kind: "STRONG", Topic: "go", Source: "bank"},
	})
	log.FinalFeedback = "## A) Decision"

	path := filepath.Join(t.TempDir(), "interview_log_3.json")
	require.NoError(t, log.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "Аня", doc["participant_name"])
	assert.Equal(t, "## A) Decision", doc["final_feedback"])

	turns, ok := doc["turns"].([]any)
	require.True(t, ok)
	require.Len(t, turns, 1)

	turn := turns[0].(map[string]any)
	assert.Equal(t, float64(1), turn["turn_id"])
	assert.Equal(t, "Что такое горутина?", turn["agent_visible_message"])
	assert.Equal(t, "[Observer]: kind=STRONG diff=UP reason=relevant\n", turn["internal_thoughts"])

	// Internal bookkeeping must not leak into the document.
	_, hasMeta := doc["session_meta"]
	assert.False(t, hasMeta)
	_, hasTurnMeta := turn["meta"]
	assert.False(t, hasTurnMeta)

	// Cyrillic is stored readable, not \u-escaped.
	assert.True(t, strings.Contains(string(raw), "горутина"))
}

func TestSave_EmptyTurnsMarshalsAsArray(t *testing.T) {
	log := NewLog("Боб", SessionMeta{})
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, log.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"turns": []`)
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	log := NewLog("Боб", SessionMeta{})
	log.FinalFeedback = "готово"
	require.NoError(t, log.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "готово")
	assert.NotContains(t, string(raw), "stale")
}
