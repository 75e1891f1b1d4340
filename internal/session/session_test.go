package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/intervu/internal/textutil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(Config{
		CandidateName: "Аня",
		Position:      "Backend Developer",
		Grade:         "middle",
		Experience:    "3 года Go и PostgreSQL",
		ScenarioID:    7,
		OutDir:        t.TempDir(),
	})
}

func TestIsStopSignal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/stop", true},
		{"/stop завершаем", true},
		{"СТОП", true},
		{"стоп интервью", true},
		{"давай стоп, устал", true},
		{"/stopwatch", false},
		{"беспростопно работаю", false},
		{"расскажу про go", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsStopSignal(tt.in); got != tt.want {
			t.Errorf("IsStopSignal(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_SeedsStackFromIntake(t *testing.T) {
	s := newTestSession(t)

	stack := s.Memory().TechStack
	if len(stack) == 0 || stack[0] != "go" {
		t.Fatalf("TechStack = %v, want go first", stack)
	}
	found := false
	for _, tag := range stack {
		if tag == "postgres" {
			found = true
		}
	}
	if !found {
		t.Errorf("TechStack = %v, want postgres included", stack)
	}
	if s.Memory().Difficulty != "medium" {
		t.Errorf("Difficulty = %q, want medium for a middle grade", s.Memory().Difficulty)
	}
}

func TestFirstMessage(t *testing.T) {
	s := newTestSession(t)

	msg := s.FirstMessage(context.Background())

	if !strings.Contains(msg, "Привет, Аня!") {
		t.Errorf("greeting missing: %q", msg)
	}
	if !strings.Contains(msg, "go") {
		t.Errorf("recognized stack missing: %q", msg)
	}
	if s.Memory().LastQuestion == "" {
		t.Fatal("first question was not remembered")
	}
	if !strings.HasSuffix(msg, s.Memory().LastQuestion) {
		t.Errorf("message should end with the first question:\n%s", msg)
	}
	if len(s.Log().Turns) != 0 {
		t.Errorf("greeting must not be logged, got %d turns", len(s.Log().Turns))
	}
}

func TestStep_StrongAnswerAdvances(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	s.FirstMessage(ctx)
	firstQ := s.Memory().LastQuestion

	// Shares "interface" vocabulary with the go/medium opener.
	reply, done, err := s.Step(ctx, "Interface задаёт набор методов, соответствие проверяется неявно")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Fatal("regular answer must not finish the session")
	}
	if !strings.HasSuffix(reply, "?") {
		t.Errorf("reply must end with a question: %q", reply)
	}

	turns := s.Log().Turns
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].TurnID != 1 {
		t.Errorf("TurnID = %d, want 1", turns[0].TurnID)
	}
	if turns[0].AgentVisibleMessage != firstQ {
		t.Errorf("AgentVisibleMessage = %q, want the answered question %q", turns[0].AgentVisibleMessage, firstQ)
	}
	if turns[0].Meta.Kind != "STRONG" {
		t.Errorf("Kind = %q, want STRONG via guardrail", turns[0].Meta.Kind)
	}
	if s.Memory().Difficulty != "hard" {
		t.Errorf("Difficulty = %q, want hard after STRONG", s.Memory().Difficulty)
	}
	if s.Memory().LastQuestion == firstQ {
		t.Error("a fresh question should have been picked")
	}
}

func TestStep_FollowupStreakCapped(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	s.FirstMessage(ctx)
	// Follow-ups re-ask the last question reduced to its first
	// interrogative sentence.
	wantFollowup := textutil.OneQuestion(s.Memory().LastQuestion)

	// Gibberish answers request the same question back, at most twice in a
	// row; the third forces a fresh pick.
	for i := 0; i < 2; i++ {
		if _, _, err := s.Step(ctx, "???"); err != nil {
			t.Fatal(err)
		}
		if got := s.Memory().LastQuestion; got != wantFollowup {
			t.Fatalf("turn %d: LastQuestion = %q, want follow-up %q", i+1, got, wantFollowup)
		}
	}
	if s.Memory().FollowupStreak != 2 {
		t.Fatalf("FollowupStreak = %d, want 2", s.Memory().FollowupStreak)
	}

	if _, _, err := s.Step(ctx, "???"); err != nil {
		t.Fatal(err)
	}
	if got := s.Memory().LastQuestion; got == wantFollowup {
		t.Error("third turn should have picked a fresh question")
	}
	if s.Memory().FollowupStreak != 0 {
		t.Errorf("FollowupStreak = %d, want reset to 0", s.Memory().FollowupStreak)
	}

	turns := s.Log().Turns
	if turns[0].Meta.Source != "followup" || turns[1].Meta.Source != "followup" {
		t.Errorf("sources = %q, %q, want followup twice", turns[0].Meta.Source, turns[1].Meta.Source)
	}
	if turns[2].Meta.Source == "followup" {
		t.Error("third turn source must not be followup")
	}
}

func TestStep_TurnNumbering(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	s.FirstMessage(ctx)

	answers := []string{
		"Interface задаёт набор методов",
		"Channel синхронизирует горутины",
		"Context отменяет работу по таймауту",
	}
	for _, a := range answers {
		if _, _, err := s.Step(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	turns := s.Log().Turns
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	for i, turn := range turns {
		if turn.TurnID != i+1 {
			t.Errorf("turn %d has TurnID %d", i, turn.TurnID)
		}
	}
}

func TestStep_StopFinishesAndSaves(t *testing.T) {
	outDir := t.TempDir()
	s := New(Config{
		CandidateName: "Боб",
		Position:      "Backend",
		Grade:         "junior",
		Experience:    "1 год python",
		ScenarioID:    2,
		OutDir:        outDir,
	})
	ctx := context.Background()
	s.FirstMessage(ctx)
	if _, _, err := s.Step(ctx, "List это изменяемая последовательность, например список чисел"); err != nil {
		t.Fatal(err)
	}

	feedback, done, err := s.Step(ctx, "/stop")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Fatal("stop signal must finish the session")
	}
	if !strings.Contains(feedback, "## A) Decision") {
		t.Errorf("feedback missing decision section:\n%s", feedback)
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "interview_log_2.json"))
	if err != nil {
		t.Fatalf("log document not written: %v", err)
	}
	var doc struct {
		ParticipantName string `json:"participant_name"`
		Turns           []struct {
			TurnID int `json:"turn_id"`
		} `json:"turns"`
		FinalFeedback string `json:"final_feedback"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ParticipantName != "Боб" {
		t.Errorf("participant_name = %q", doc.ParticipantName)
	}
	if len(doc.Turns) != 1 {
		t.Errorf("got %d persisted turns, want 1 (stop turn not logged)", len(doc.Turns))
	}
	if doc.FinalFeedback != feedback {
		t.Error("persisted final_feedback differs from returned feedback")
	}
}

func TestFinish_Idempotent(t *testing.T) {
	s := newTestSession(t)
	s.FirstMessage(context.Background())

	first, err := s.Finish()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Finish must return the same feedback on repeat calls")
	}
}
