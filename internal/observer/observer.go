package observer

import (
	"context"
	"strings"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/textutil"
)

// Observer classifies one candidate answer per turn. A nil provider is
// valid: the LLM stages are skipped and only the deterministic ones run.
type Observer struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Observer {
	return &Observer{provider: provider}
}

// Analyze runs the classification pipeline over one candidate answer. Stages
// run in a fixed order and the first to produce a verdict wins:
//
//  1. gibberish gate
//  2. refusal phrases
//  3. role-reversal phrases
//  4. relevance guardrail (token overlap with the last question)
//  5. LLM verifier, confidence-gated
//  6. off-topic keywords
//  7. uncertainty phrases
//  8. full LLM classification
//  9. NORMAL/SAME default
//
// The guardrail runs before the keyword stages on purpose: an answer that
// shares vocabulary with the question must never be ruled off-topic by a
// stray keyword.
func (o *Observer) Analyze(ctx context.Context, userMessage string, mem *memory.Memory) *Verdict {
	low := textutil.Normalize(userMessage)

	if looksLikeGibberish(userMessage) {
		followup := mem.LastQuestion
		if followup == "" {
			followup = "Ответь, пожалуйста, на последний вопрос?"
		}
		return &Verdict{
			Kind:              KindOfftopic,
			Reason:            "empty/gibberish input",
			Instruction:       "Мягко верни к последнему вопросу и попроси ответ по сути.",
			Action:            ActionSame,
			TopicHint:         mem.LastTopic,
			NeedFollowup:      true,
			FollowupQuestion:  followup,
			ReturnToTopicText: textutil.OneSentence(bridgeBack(mem.LastQuestion)),
		}
	}

	for _, ph := range refusalWords {
		if strings.Contains(low, ph) {
			return &Verdict{
				Kind:              KindRefusal,
				Reason:            "candidate refusal",
				Instruction:       "Предложи /stop или вернуться к интервью по стеку.",
				Action:            ActionSame,
				TopicHint:         mem.LastTopic,
				NeedFollowup:      true,
				FollowupQuestion:  "Хочешь завершить интервью командой /stop или продолжим?",
				ReturnToTopicText: "Ок, понимаю.",
			}
		}
	}

	for _, ph := range roleReversalWords {
		if strings.Contains(low, ph) {
			followup := mem.LastQuestion
			if followup == "" {
				followup = "Вернёмся к интервью: ответь на последний вопрос?"
			}
			return &Verdict{
				Kind:              KindRoleReversal,
				Reason:            "role reversal",
				Instruction:       "Коротко ответь 1 предложением и верни к интервью.",
				Action:            ActionSame,
				TopicHint:         mem.LastTopic,
				NeedFollowup:      true,
				FollowupQuestion:  followup,
				ReturnToTopicText: "Коротко: это тренажёр, без реального оффера — давай продолжим интервью.",
			}
		}
	}

	if mem.LastQuestion != "" && looksRelevant(userMessage, mem.LastQuestion) {
		for _, ph := range weakWords {
			if strings.Contains(low, ph) {
				return &Verdict{
					Kind:                KindWeak,
					Reason:              "relevant but uncertain",
					Instruction:         "Упрости вопрос и уточни в этой же теме.",
					Action:              ActionDown,
					TopicHint:           mem.LastTopic,
					NeedFollowup:        true,
					FollowupQuestion:    mem.LastQuestion,
					ExpectedAnswerShort: "Схема ответа: определение → 2–3 ключевых пункта → короткий пример.",
				}
			}
		}
		return &Verdict{
			Kind:        KindStrong,
			Reason:      "relevant answer (guardrail)",
			Instruction: "Ответ релевантный: можно усложнить или перейти к следующей подтеме в этом же топике.",
			Action:      ActionUp,
			TopicHint:   mem.LastTopic,
		}
	}

	if v := o.verify(ctx, userMessage, mem); v != nil {
		return v
	}

	for _, w := range offtopicWords {
		if textutil.ContainsWord(low, w) {
			followup := mem.LastQuestion
			if followup == "" {
				followup = "Ответь, пожалуйста, по теме интервью?"
			}
			return &Verdict{
				Kind:              KindOfftopic,
				Reason:            "off-topic keyword",
				Instruction:       "Мягко верни к последнему вопросу.",
				Action:            ActionSame,
				TopicHint:         mem.LastTopic,
				NeedFollowup:      true,
				FollowupQuestion:  followup,
				ReturnToTopicText: textutil.OneSentence(bridgeBack(mem.LastQuestion)),
			}
		}
	}

	for _, ph := range weakWords {
		if strings.Contains(low, ph) {
			followup := mem.LastQuestion
			if followup == "" {
				followup = "Можешь объяснить проще, своими словами?"
			}
			return &Verdict{
				Kind:                KindWeak,
				Reason:              "candidate unsure",
				Instruction:         "Упрости вопрос/задай уточнение в той же теме.",
				Action:              ActionDown,
				TopicHint:           mem.LastTopic,
				NeedFollowup:        true,
				FollowupQuestion:    followup,
				ExpectedAnswerShort: "Схема ответа: определение → 2–3 пункта → пример.",
			}
		}
	}

	if o.provider != nil {
		return o.classify(ctx, userMessage, mem)
	}

	return &Verdict{
		Kind:        KindNormal,
		Reason:      "fallback",
		Instruction: "Продолжай интервью по текущей теме.",
		Action:      ActionSame,
		TopicHint:   mem.LastTopic,
	}
}
