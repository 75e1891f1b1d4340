package topics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
)

func TestExtractTechStack_GoFirstAndDerivedSQL(t *testing.T) {
	got := ExtractTechStack("Backend, Middle, 2 года Go и PostgreSQL")
	if len(got) == 0 || got[0] != "go" {
		t.Fatalf("got %v, want go first", got)
	}
	if !contains(got, "sql") {
		t.Errorf("got %v, want derived sql tag", got)
	}
	if !contains(got, "postgres") {
		t.Errorf("got %v, want postgres tag", got)
	}
}

func TestExtractTechStack_WordBoundary(t *testing.T) {
	got := ExtractTechStack("обычно пишу на питоне... шучу, только python")
	if !contains(got, "python") {
		t.Errorf("got %v, want python", got)
	}
	if contains(got, "go") {
		t.Errorf("got %v, 'го' inside other words must not match", got)
	}
}

func TestExtractTechStack_MixedScriptPostgres(t *testing.T) {
	got := ExtractTechStack("в проде у нас постгресql и redis")
	if !contains(got, "postgres") {
		t.Errorf("got %v, want postgres from mixed-script spelling", got)
	}
	if !contains(got, "sql") {
		t.Errorf("got %v, want derived sql tag", got)
	}
}

func TestExtractTechStack_DedupAndCap(t *testing.T) {
	got := ExtractTechStack("go go golang go и ещё раз go")
	if len(got) != 1 || got[0] != "go" {
		t.Errorf("got %v, want single go tag", got)
	}
}

func TestExtractTechStack_Empty(t *testing.T) {
	if got := ExtractTechStack("расскажу потом"); len(got) != 0 {
		t.Errorf("got %v, want empty stack", got)
	}
}

func newTestMemory(stack ...string) *memory.Memory {
	m := memory.New("Иван", "Backend", "middle", "-", stack)
	m.ApplyDefaults()
	return m
}

func TestPickNext_UsesStackTopicFirst(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("docker")

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Topic != "docker" {
		t.Errorf("topic = %q, want docker", sel.Topic)
	}
	if sel.Source != SourcePool {
		t.Errorf("source = %q, want %q", sel.Source, SourcePool)
	}
	if sel.Question != BankQuestions("docker", memory.DifficultyMedium)[0] {
		t.Errorf("got %q, want first unseen medium docker question", sel.Question)
	}
}

func TestPickNext_HintOverridesStackOrder(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("docker", "sql")

	sel := c.PickNext(context.Background(), m, "sql", "")
	if sel.Topic != "sql" {
		t.Errorf("topic = %q, want hinted sql", sel.Topic)
	}
}

func TestPickNext_InvalidHintIgnored(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("git")

	sel := c.PickNext(context.Background(), m, "cobol", "")
	if sel.Topic != "git" {
		t.Errorf("topic = %q, want git (unknown hint ignored)", sel.Topic)
	}
}

func TestPickNext_SkipsAskedQuestions(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("git")

	first := c.PickNext(context.Background(), m, "", "")
	m.RememberQuestion(first.Question, first.Topic)

	second := c.PickNext(context.Background(), m, "", "")
	if second.Question == first.Question {
		t.Errorf("second pick repeated %q", first.Question)
	}
}

func TestPickNext_DefaultTopicsWithoutStack(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory()

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Topic != "http" {
		t.Errorf("topic = %q, want http from the fixed default pair", sel.Topic)
	}
}

func TestPickNext_InfersTopicFromRecentMessages(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory()
	m.RememberUser("в основном занимаюсь kubernetes деплоями")

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Topic != "kubernetes" {
		t.Errorf("topic = %q, want kubernetes inferred from messages", sel.Topic)
	}
}

func TestPickNext_GenericFallbackWhenExhausted(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("git")
	for _, q := range BankQuestions("git", memory.DifficultyMedium) {
		m.RememberQuestion(q, "git")
	}

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Source != SourceGeneric {
		t.Errorf("source = %q, want generic fallback", sel.Source)
	}
	if sel.Topic != "" {
		t.Errorf("topic = %q, want empty for generic", sel.Topic)
	}
}

func TestPickNext_GenericRepeatsAsLastResort(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("git")
	for _, q := range BankQuestions("git", memory.DifficultyMedium) {
		m.RememberQuestion(q, "git")
	}
	for _, q := range GenericQuestions(memory.DifficultyMedium) {
		m.RememberQuestion(q, "")
	}

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Question != GenericQuestions(memory.DifficultyMedium)[0] {
		t.Errorf("got %q, want first generic question repeated", sel.Question)
	}
}

func TestPickNext_ForcedDifficulty(t *testing.T) {
	c := NewCatalog(nil)
	m := newTestMemory("go") // middle → medium

	sel := c.PickNext(context.Background(), m, "", memory.DifficultyEasy)
	if sel.Question != BankQuestions("go", memory.DifficultyEasy)[0] {
		t.Errorf("got %q, want easy go question under forced difficulty", sel.Question)
	}
}

func TestGeneration_CalledOncePerPair(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"questions":["Что такое rebase","Зачем нужен тег?"]}`)},
	)
	c := NewCatalog(mock)
	m := newTestMemory("git")

	// Exhaust bank so generated questions are reachable.
	for _, q := range BankQuestions("git", memory.DifficultyMedium) {
		m.RememberQuestion(q, "git")
	}

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Question != "Что такое rebase?" {
		t.Errorf("got %q, want generated question with appended mark", sel.Question)
	}
	m.RememberQuestion(sel.Question, sel.Topic)

	c.PickNext(context.Background(), m, "", "")
	if mock.CallCount() != 1 {
		t.Errorf("generation called %d times for (git, medium), want 1", mock.CallCount())
	}
}

func TestGeneration_FailureCachedAsEmpty(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue → every call errors
	c := NewCatalog(mock)
	m := newTestMemory("git")

	c.PickNext(context.Background(), m, "", "")
	c.PickNext(context.Background(), m, "", "")
	if mock.CallCount() != 1 {
		t.Errorf("failed generation retried: %d calls, want 1", mock.CallCount())
	}
}

func TestGeneration_DedupAgainstAskedWindow(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"questions":["Чем отличаются merge и rebase?","Новый вопрос?"]}`)},
	)
	c := NewCatalog(mock)
	m := newTestMemory("git")
	for _, q := range BankQuestions("git", memory.DifficultyMedium) {
		m.RememberQuestion(q, "git")
	}
	m.RememberQuestion("Чем отличаются merge и rebase?", "git")

	sel := c.PickNext(context.Background(), m, "", "")
	if sel.Question != "Новый вопрос?" {
		t.Errorf("got %q, want the unseen generated question", sel.Question)
	}
}
