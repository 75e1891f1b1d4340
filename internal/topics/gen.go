package topics

import (
	"fmt"
	"strings"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
)

// QuestionListSchema defines the JSON schema for generated question lists.
var QuestionListSchema = &llm.Schema{
	Name:        "question-list",
	Description: "A short list of interview questions for one topic and difficulty",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"minItems":    3,
				"maxItems":    5,
				"items":       map[string]any{"type": "string"},
				"description": "3-5 interview questions, each a single interrogative sentence",
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

const questionGenSystemPrompt = `Ты — генератор вопросов для тех-интервью (RU).
Верни ТОЛЬКО JSON без markdown.

Формат:
{ "questions": ["...?", "...?"] }

Правила:
- Сгенерируй 3–5 вопросов по теме и сложности.
- Не повторяй уже заданные.
- Каждый элемент — один вопрос, заканчивается '?'.`

// maxDedupQuestions bounds how much asked-history goes into the prompt.
const maxDedupQuestions = 25

// buildQuestionGenMessage renders the user message for question generation.
func buildQuestionGenMessage(mem *memory.Memory, topic string, difficulty memory.Difficulty) string {
	var b strings.Builder

	b.WriteString("Сгенерируй 3–5 вопросов.\n\n")
	fmt.Fprintf(&b, "Тема: %s\n", topic)
	fmt.Fprintf(&b, "Сложность: %s\n", difficulty)
	fmt.Fprintf(&b, "Позиция: %s\n", mem.Position)
	fmt.Fprintf(&b, "Грейд: %s\n", mem.Grade)
	fmt.Fprintf(&b, "Опыт: %s\n", mem.Experience)

	b.WriteString("\nУже задавали:\n")
	b.WriteString(recentList(mem.AskedQuestions, maxDedupQuestions))

	return b.String()
}

// recentList formats the most recent max entries, one per line, or "-" when
// empty.
func recentList(items []string, max int) string {
	if len(items) == 0 {
		return "-"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	return strings.Join(items, "\n")
}
