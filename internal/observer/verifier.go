package observer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/textutil"
)

// minVerifierConfidence gates the verifier stage: below it the verdict is
// discarded and the pipeline falls through to the keyword stages.
const minVerifierConfidence = 70

// maxVerifierContext bounds how many recent questions go into the prompt.
const maxVerifierContext = 12

// VerifierSchema defines the JSON shape of a verifier verdict.
var VerifierSchema = &llm.Schema{
	Name:        "answer-verdict",
	Description: "Critic verdict for one candidate answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind": map[string]any{
				"type": "string",
				"enum": []any{
					"STRONG", "NORMAL", "WEAK", "OFFTOPIC",
					"HALLUCINATION", "ROLE_REVERSAL", "REFUSAL",
				},
			},
			"confidence": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
			"reason":               map[string]any{"type": "string"},
			"fact_check_notes":     map[string]any{"type": "string"},
			"return_to_topic_text": map[string]any{"type": "string"},
			"need_followup":        map[string]any{"type": "boolean"},
			"followup_question":    map[string]any{"type": "string"},
		},
		"required":             []any{"kind", "confidence"},
		"additionalProperties": false,
	},
}

const verifierSystemPrompt = `Ты — Verifier (критик) на техсобеседовании.
Твоя задача: по последнему вопросу и ответу кандидата определить:
1) ответ по теме или нет
2) есть ли уверенные ложные/абсурдные утверждения (hallucination / misinformation)
3) если кандидат пытается сменить роль (спрашивает про компанию/условия) — отметить role_reversal
4) если кандидат отказывается отвечать — refusal
5) иначе — normal/strong/weak

Важно:
- Не придумывай факты о будущем без источников. Если кандидат говорит "в версии X удалят базовую фичу", это почти наверняка misinformation.
- Если ответ НЕ связан с вопросом, это off_topic, даже если содержит слова из IT.
- Если кандидат "не знаю/не уверен" — это weak, но по теме.
- Верни ТОЛЬКО JSON по схеме ниже. Без пояснений вне JSON.

JSON schema:
{
  "kind": "STRONG|NORMAL|WEAK|OFFTOPIC|HALLUCINATION|ROLE_REVERSAL|REFUSAL",
  "confidence": 0-100,
  "reason": "коротко почему",
  "fact_check_notes": "1 короткое предложение с корректировкой (если HALLUCINATION), иначе пусто",
  "return_to_topic_text": "мягкая фраза чтобы вернуть к вопросу (если OFFTOPIC/HALLUCINATION), иначе пусто",
  "need_followup": true/false,
  "followup_question": "один уточняющий вопрос (если need_followup=true), иначе пусто"
}`

func buildVerifierMessage(mem *memory.Memory, userMessage string) string {
	var b strings.Builder

	b.WriteString("Контекст интервью:\n")
	fmt.Fprintf(&b, "Позиция: %s\n", mem.Position)
	fmt.Fprintf(&b, "Грейд: %s\n", mem.Grade)
	fmt.Fprintf(&b, "Опыт: %s\n", mem.Experience)
	fmt.Fprintf(&b, "Текущий стек: %s\n", joinOrDash(mem.TechStack))

	b.WriteString("\nПоследний вопрос интервьюера (на него отвечает кандидат):\n")
	b.WriteString(orDash(mem.LastQuestion))

	b.WriteString("\n\nОтвет кандидата:\n")
	b.WriteString(userMessage)

	b.WriteString("\n\nНедавние вопросы (для контекста):\n")
	b.WriteString(recentList(mem.AskedQuestions, maxVerifierContext))

	b.WriteString("\n\nВерни JSON строго по schema из system.")
	return b.String()
}

// verify runs the critic call and returns a verdict only when the reply
// parses, names one of the seven verifier kinds, and clears the confidence
// gate. Any failure returns nil so the pipeline can continue.
func (o *Observer) verify(ctx context.Context, userMessage string, mem *memory.Memory) *Verdict {
	if o.provider == nil {
		return nil
	}

	resp, err := o.provider.Generate(llm.WithPurpose(ctx, llm.PurposeVerifier), llm.Request{
		System: verifierSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildVerifierMessage(mem, userMessage)},
		},
		Schema:      VerifierSchema,
		MaxTokens:   512,
		Temperature: 0.0,
	})
	if err != nil {
		return nil
	}

	data := textutil.ExtractJSON(resp.Text())
	if data == nil {
		return nil
	}

	kind := Kind(strings.ToUpper(jsonString(data, "kind")))
	confidence := jsonInt(data, "confidence")
	if confidence < minVerifierConfidence {
		return nil
	}
	if _, ok := verifierKinds[kind]; !ok {
		return nil
	}

	needFollowup := jsonBool(data, "need_followup")
	followup := ""
	if needFollowup {
		followup = textutil.OneQuestion(jsonString(data, "followup_question"))
	}

	fact := textutil.OneSentence(jsonString(data, "fact_check_notes"))
	bridge := textutil.OneSentence(jsonString(data, "return_to_topic_text"))
	if (kind == KindOfftopic || kind == KindHallucination) && bridge == "" {
		bridge = textutil.OneSentence(bridgeBack(mem.LastQuestion))
	}

	var action Action
	switch kind {
	case KindStrong:
		action = ActionUp
	case KindWeak, KindOfftopic, KindHallucination, KindRefusal:
		action = ActionDown
	default:
		action = ActionSame
	}

	return &Verdict{
		Kind:              kind,
		Reason:            fmt.Sprintf("verifier(conf=%d)", confidence),
		Instruction:       "Следовать вердикту verifier.",
		Action:            action,
		TopicHint:         mem.LastTopic,
		NeedFollowup:      needFollowup,
		FollowupQuestion:  followup,
		FactCheckNotes:    fact,
		ReturnToTopicText: bridge,
	}
}

// Tolerant accessors for LLM-produced JSON. Models occasionally emit numbers
// as strings and booleans as "true"/"false".

func jsonString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func jsonInt(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func jsonBool(data map[string]any, key string) bool {
	switch v := data[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func recentList(items []string, max int) string {
	if len(items) == 0 {
		return "-"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	return strings.Join(items, "\n")
}
