package observer

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/textutil"
)

// Context windows for the full classification prompt.
const (
	maxClassifierMessages  = 6
	maxClassifierQuestions = 20
)

// ClassificationSchema defines the JSON shape of a full classification.
var ClassificationSchema = &llm.Schema{
	Name:        "answer-classification",
	Description: "Full mentor classification of one candidate answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind": map[string]any{
				"type": "string",
				"enum": []any{
					"STRONG", "NORMAL", "WEAK", "OFFTOPIC", "HALLUCINATION",
					"ROLE_REVERSAL", "NO_STACK", "REFUSAL",
				},
			},
			"reason":      map[string]any{"type": "string"},
			"instruction": map[string]any{"type": "string"},
			"difficulty_action": map[string]any{
				"type": "string",
				"enum": []any{"UP", "DOWN", "SAME"},
			},
			"topic_hint":            map[string]any{"type": "string"},
			"need_followup":         map[string]any{"type": "boolean"},
			"followup_question":     map[string]any{"type": "string"},
			"fact_check_notes":      map[string]any{"type": "string"},
			"return_to_topic_text":  map[string]any{"type": "string"},
			"expected_answer_short": map[string]any{"type": "string"},
		},
		"required":             []any{"kind", "difficulty_action"},
		"additionalProperties": false,
	},
}

const classifierSystemPrompt = `Ты — Observer/Mentor в тренажёре тех-интервью (RU).
Ты НЕ общаешься с кандидатом напрямую. Ты анализируешь ответы и возвращаешь JSON.

Требования:
- role specialization: ты не задаёшь вопросы кандидату напрямую, только предлагаешь Interviewer'у
- hidden reflection: формируешь инструкции
- context awareness: учитывай последние сообщения и заданные вопросы, не предлагай уже отвеченное
- adaptability: если STRONG -> UP, если WEAK/плывёт -> DOWN, иначе SAME
- robustness: off-topic и "галлюцинации" не поддерживай, мягко возвращай к интервью

Верни ТОЛЬКО валидный JSON, без markdown.

Формат:
{
  "kind": "STRONG|NORMAL|WEAK|OFFTOPIC|HALLUCINATION|ROLE_REVERSAL|NO_STACK|REFUSAL",
  "reason": "кратко почему",
  "instruction": "инструкция Interviewer'у",
  "difficulty_action": "UP|DOWN|SAME",
  "topic_hint": "опционально: python/sql/http/docker/...",
  "need_followup": true/false,
  "followup_question": "если need_followup=true: ровно 1 вопрос или null",
  "fact_check_notes": "если нужно: 1 предложение или null",
  "return_to_topic_text": "если нужно: 1 предложение мостика или null",
  "expected_answer_short": "если WEAK/HALLUCINATION: 1-2 предложения шпаргалки или null"
}

Правила:
- fact_check_notes и return_to_topic_text — строго 1 предложение.
- followup_question — строго один вопрос.`

func buildClassifierMessage(mem *memory.Memory, userMessage string) string {
	var b strings.Builder

	b.WriteString("Вводные:\n")
	fmt.Fprintf(&b, "- Имя: %s\n", mem.CandidateName)
	fmt.Fprintf(&b, "- Позиция: %s\n", mem.Position)
	fmt.Fprintf(&b, "- Грейд: %s\n", mem.Grade)
	fmt.Fprintf(&b, "- Опыт: %s\n", mem.Experience)
	fmt.Fprintf(&b, "- Стек: %s\n", joinOrDash(mem.TechStack))

	b.WriteString("\nПоследний вопрос интервьюера:\n")
	b.WriteString(orDash(mem.LastQuestion))

	b.WriteString("\n\nПоследние сообщения кандидата (свежее в конце):\n")
	b.WriteString(recentList(mem.LastUserMessages, maxClassifierMessages))

	b.WriteString("\n\nСписок последних 20 вопросов (не повторять):\n")
	b.WriteString(recentList(mem.AskedQuestions, maxClassifierQuestions))

	b.WriteString("\n\nТекущий ответ кандидата:\n")
	b.WriteString(userMessage)

	b.WriteString("\n\nСделай анализ и верни JSON строго по формату.")
	return b.String()
}

// classify runs the full generative classification. Unlike the verifier it
// never rejects its own output: unknown fields default and an unparseable
// reply degrades to a NORMAL/SAME verdict.
func (o *Observer) classify(ctx context.Context, userMessage string, mem *memory.Memory) *Verdict {
	resp, err := o.provider.Generate(llm.WithPurpose(ctx, llm.PurposeClassifier), llm.Request{
		System: classifierSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildClassifierMessage(mem, userMessage)},
		},
		Schema:      ClassificationSchema,
		MaxTokens:   768,
		Temperature: 0.2,
	})

	data := map[string]any{}
	if err == nil {
		if parsed := textutil.ExtractJSON(resp.Text()); parsed != nil {
			data = parsed
		}
	}

	kind := Kind(strings.ToUpper(jsonString(data, "kind")))
	if !ValidKind(kind) {
		kind = KindNormal
	}

	// A relevant answer misread as off-topic would derail the interview, so
	// the token-overlap guardrail can demote OFFTOPIC to NORMAL but never
	// the reverse.
	if kind == KindOfftopic && mem.LastQuestion != "" && looksRelevant(userMessage, mem.LastQuestion) {
		kind = KindNormal
	}

	action := Action(strings.ToUpper(jsonString(data, "difficulty_action")))
	if !ValidAction(action) {
		action = ActionSame
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

	reason := jsonString(data, "reason")
	if reason == "" {
		reason = "llm"
	}
	instruction := jsonString(data, "instruction")
	if instruction == "" {
		instruction = "Продолжай интервью."
	}

	return &Verdict{
		Kind:                kind,
		Reason:              reason,
		Instruction:         instruction,
		Action:              action,
		TopicHint:           jsonString(data, "topic_hint"),
		NeedFollowup:        needFollowup,
		FollowupQuestion:    followup,
		FactCheckNotes:      fact,
		ReturnToTopicText:   bridge,
		ExpectedAnswerShort: jsonString(data, "expected_answer_short"),
	}
}
