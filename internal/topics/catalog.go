package topics

import (
	"context"
	"strings"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/textutil"
)

// Source tags where a selected question came from.
const (
	SourcePool    = "bank/gen"
	SourceGeneric = "generic"
)

// maxGeneratedLen caps a generated question's length in runes.
const maxGeneratedLen = 180

// Selection is the result of picking the next question.
type Selection struct {
	Question string
	Topic    string // "" when the generic pool served
	Source   string
}

type poolKey struct {
	topic      string
	difficulty memory.Difficulty
}

// Catalog selects interview questions for a single session. It combines the
// static bank with a lazily generated per-session pool; generation happens
// at most once per (topic, difficulty) pair, empty results included, so a
// failing provider is not called again for the same pair.
type Catalog struct {
	provider  llm.Provider // nil disables generation
	generated map[poolKey][]string
}

// NewCatalog creates a Catalog. provider may be nil for heuristics-only
// sessions.
func NewCatalog(provider llm.Provider) *Catalog {
	return &Catalog{
		provider:  provider,
		generated: make(map[poolKey][]string),
	}
}

// PickNext selects the next question for mem. topicHint, when it names a
// known topic, is tried first. forcedDifficulty overrides mem's difficulty
// when non-empty. The returned question is never one from mem's asked
// window unless every pool, generic included, is exhausted.
func (c *Catalog) PickNext(ctx context.Context, mem *memory.Memory, topicHint string, forcedDifficulty memory.Difficulty) Selection {
	difficulty := mem.Difficulty
	if forcedDifficulty != "" {
		difficulty = forcedDifficulty
	}

	candidates := topicCandidates(mem)
	if topicHint != "" && IsTopic(topicHint) {
		reordered := []string{topicHint}
		for _, t := range candidates {
			if t != topicHint {
				reordered = append(reordered, t)
			}
		}
		candidates = reordered
	}

	for _, topic := range candidates {
		c.ensureGenerated(ctx, mem, topic, difficulty)

		pool := append([]string{}, BankQuestions(topic, difficulty)...)
		pool = append(pool, c.generated[poolKey{topic, difficulty}]...)

		for _, q := range pool {
			if q != "" && !mem.AlreadyAsked(q) {
				return Selection{Question: q, Topic: topic, Source: SourcePool}
			}
		}
	}

	generic := GenericQuestions(difficulty)
	for _, q := range generic {
		if !mem.AlreadyAsked(q) {
			return Selection{Question: q, Source: SourceGeneric}
		}
	}
	// Total exhaustion: repeating a question beats silence.
	return Selection{Question: generic[0], Source: SourceGeneric}
}

// topicCandidates builds the ordered topic list for selection: the stack's
// pool-backed tags, else tags inferred from the last 3 candidate messages,
// else a fixed default. The go-front bias applies here as in extraction.
func topicCandidates(mem *memory.Memory) []string {
	var cands []string
	add := func(tag string) {
		if !IsTopic(tag) || contains(cands, tag) {
			return
		}
		cands = append(cands, tag)
	}

	for _, tag := range mem.TechStack {
		add(tag)
	}

	if len(cands) == 0 {
		msgs := mem.LastUserMessages
		if len(msgs) > 3 {
			msgs = msgs[len(msgs)-3:]
		}
		for _, msg := range msgs {
			for _, tag := range ExtractTechStack(msg) {
				add(tag)
			}
		}
	}

	if len(cands) == 0 {
		cands = []string{"http", "sql"}
	}

	return goFirst(cands)
}

// ensureGenerated fills the generated pool for (topic, difficulty) on first
// request. The result is cached for the session even when empty.
func (c *Catalog) ensureGenerated(ctx context.Context, mem *memory.Memory, topic string, difficulty memory.Difficulty) {
	key := poolKey{topic, difficulty}
	if _, done := c.generated[key]; done {
		return
	}
	if c.provider == nil {
		c.generated[key] = nil
		return
	}
	c.generated[key] = c.generateQuestions(ctx, mem, topic, difficulty)
}

// generateQuestions asks the provider for 3–5 fresh questions. Any failure
// or malformed reply yields an empty pool; the static bank still serves.
func (c *Catalog) generateQuestions(ctx context.Context, mem *memory.Memory, topic string, difficulty memory.Difficulty) []string {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	req := llm.Request{
		System: questionGenSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionGenMessage(mem, topic, difficulty)},
		},
		Schema:      QuestionListSchema,
		MaxTokens:   512,
		Temperature: 0.4,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return nil
	}

	data := textutil.ExtractJSON(resp.Text())
	if data == nil {
		return nil
	}
	rawList, _ := data["questions"].([]any)

	var out []string
	for _, item := range rawList {
		q, ok := item.(string)
		if !ok {
			continue
		}
		q = strings.Join(strings.Fields(q), " ")
		if q == "" {
			continue
		}
		if !strings.HasSuffix(q, "?") {
			q += "?"
		}
		if runes := []rune(q); len(runes) > maxGeneratedLen {
			q = string(runes[:maxGeneratedLen])
		}
		if contains(out, q) || mem.AlreadyAsked(q) {
			continue
		}
		out = append(out, q)
	}
	return out
}
