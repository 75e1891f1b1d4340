// Package report aggregates a session transcript into the final feedback
// document: hiring decision, per-topic technical review, communication
// notes, and a study roadmap.
package report

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/intervu/internal/journal"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/textutil"
)

// maxExcerpt caps quoted question/answer text in the document.
const maxExcerpt = 180

// maxGapExamples caps how many knowledge-gap triples are quoted per topic.
const maxGapExamples = 2

// connectiveWords signal a structured answer for the clarity proxy.
var connectiveWords = []string{
	"это", "потому", "например", "отличается", "затем", "в итоге",
}

type qa struct {
	question string
	answer   string
}

type gap struct {
	question string
	answer   string
	expected string
}

type topicStats struct {
	confirmed int
	gaps      int
	examples  []qa
	gapItems  []gap
	offtopic  []qa
}

// decision maps verdict counts onto the hiring recommendation ladder.
// Thresholds are checked top-down; the first match wins.
func decision(counts map[string]int, gradeHint memory.Grade) (grade, rec string, confidence int) {
	strong := counts["STRONG"]
	bad := counts["WEAK"] + counts["HALLUCINATION"]
	focusRisk := counts["OFFTOPIC"] + counts["REFUSAL"]

	grade = capitalize(string(gradeHint))
	if grade == "" {
		grade = "Junior"
	}

	switch {
	case counts["REFUSAL"] >= 2:
		return grade, "No Hire", 30
	case bad >= 4:
		return grade, "No Hire", 55
	case bad >= 2 || focusRisk >= 3:
		return grade, "Hire", 70
	case strong >= 4 && bad == 0 && focusRisk == 0:
		return grade, "Strong Hire", 85
	default:
		return grade, "Hire", 75
	}
}

// Build renders the four-section feedback document from the turn log.
func Build(turns []journal.Turn, gradeHint memory.Grade) string {
	counts := make(map[string]int)
	stats := make(map[string]*topicStats)
	var topicOrder []string

	offtopicEvents := 0
	clarityGood := 0
	clarityBad := 0
	counterQuestions := 0

	for _, t := range turns {
		kind := strings.ToUpper(t.Meta.Kind)
		topic := t.Meta.Topic
		if topic == "" {
			topic = "generic"
		}
		counts[kind]++

		answer := t.UserMessage
		if strings.Contains(answer, "?") {
			counterQuestions++
		}

		short := textutil.Short(answer, maxExcerpt)
		if utf8.RuneCountInString(short) >= 40 && hasConnective(answer) {
			clarityGood++
		} else if utf8.RuneCountInString(short) < 10 {
			clarityBad++
		}

		st := stats[topic]
		if st == nil {
			st = &topicStats{}
			stats[topic] = st
			topicOrder = append(topicOrder, topic)
		}

		switch kind {
		case "STRONG":
			st.confirmed++
			if t.Meta.QuestionAnswered != "" && answer != "" {
				st.examples = append(st.examples, qa{t.Meta.QuestionAnswered, answer})
			}
		case "WEAK", "HALLUCINATION":
			st.gaps++
			st.gapItems = append(st.gapItems, gap{
				question: t.Meta.QuestionAnswered,
				answer:   answer,
				expected: t.Meta.ExpectedAnswerShort,
			})
		case "OFFTOPIC":
			offtopicEvents++
			st.offtopic = append(st.offtopic, qa{t.Meta.QuestionAnswered, answer})
		}
	}

	grade, rec, conf := decision(counts, gradeHint)

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("## A) Decision")
	add("- Grade: **%s**", grade)
	add("- Hiring Recommendation: **%s**", rec)
	add("- Confidence Score: **%d%%**", conf)
	add("")

	add("## B) Hard Skills (Technical Review)")
	if len(topicOrder) == 0 {
		add("- Недостаточно данных.")
	}
	for _, topic := range topicOrder {
		st := stats[topic]
		add("- **%s**", topic)

		if st.confirmed > 0 {
			add("  - ✅ Confirmed Skills: %d", st.confirmed)
			if len(st.examples) > 0 {
				ex := st.examples[0]
				add("    - Пример: Q: %s | A: %s", textutil.Short(ex.question, maxExcerpt), textutil.Short(ex.answer, maxExcerpt))
			}
		}

		if st.gaps > 0 {
			add("  - ❌ Knowledge Gaps: %d", st.gaps)
			items := st.gapItems
			if len(items) > maxGapExamples {
				items = items[:maxGapExamples]
			}
			for _, g := range items {
				if g.question != "" {
					add("    - Вопрос: %s", textutil.Short(g.question, maxExcerpt))
				}
				if g.answer != "" {
					add("      Ответ: %s", textutil.Short(g.answer, maxExcerpt))
				}
				if g.expected != "" {
					add("      Правильно: %s", textutil.Short(g.expected, maxExcerpt))
				}
			}
		}

		if len(st.offtopic) > 0 {
			add("  - ⚠️ Off-topic/уход от вопроса: %d", len(st.offtopic))
			ex := st.offtopic[0]
			add("    - Пример: Q: %s | A: %s", textutil.Short(ex.question, maxExcerpt), textutil.Short(ex.answer, maxExcerpt))
		}
	}

	add("")
	add("## C) Soft Skills & Communication")
	clarity := "есть проблемы: ответы часто короткие/обрывочные"
	if clarityGood >= clarityBad {
		clarity = "в целом хорошо: ответы чаще структурные"
	}
	add("- Clarity: %s (good=%d, weak=%d).", clarity, clarityGood, clarityBad)
	add("- Honesty: честное «не знаю» — нормально; плохо, когда вместо ответа идёт уход в сторону.")
	add("- Engagement: встречные вопросы от кандидата: %d.", counterQuestions)
	if offtopicEvents > 0 {
		add("- Focus: были попытки сменить тему/оффтопик: %d (снижает оценку коммуникации).", offtopicEvents)
	} else {
		add("- Focus: оффтопика почти не было — плюс.")
	}

	add("")
	add("## D) Next Steps (Roadmap)")
	var gapTopics []string
	for _, topic := range topicOrder {
		if stats[topic].gaps > 0 {
			gapTopics = append(gapTopics, topic)
		}
	}
	if len(gapTopics) > 0 {
		add("- Темы для подтягивания по результатам интервью:")
		for _, topic := range gapTopics {
			add("  - %s: закрыть пробелы по вопросам из раздела Hard Skills (5–10 практических задач).", topic)
		}
	} else {
		add("- Явных технических провалов по заданным вопросам не видно. Следующий шаг — расширить покрытие тем и усложнить кейсы.")
	}
	if offtopicEvents > 0 {
		add("- Отдельно: тренировать дисциплину ответа (сначала по вопросу, потом уточнения/контекст).")
	}

	return strings.Join(lines, "\n")
}

func hasConnective(answer string) bool {
	low := strings.ToLower(answer)
	for _, w := range connectiveWords {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
