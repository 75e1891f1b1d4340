package observer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/intervu/internal/textutil"
)

// Deterministic phrase lists. Substring checks run on normalized text;
// offtopicWords additionally require a word boundary because several are
// short enough to hide inside legitimate tech vocabulary.
var (
	offtopicWords = []string{
		"погода", "кот", "коты", "котик", "собака", "собаки",
		"анекдот", "фильм", "сериал", "музыка", "гороскоп",
	}

	roleReversalWords = []string{
		"зарплата", "оффер", "компания", "условия", "отпуск", "бенефиты",
		"что за проект", "какая команда", "сколько платите",
	}

	refusalWords = []string{
		"не хочу", "не буду", "отстань", "не надо", "не интересно",
	}

	weakWords = []string{
		"не знаю", "не уверен", "затрудняюсь", "не помню", "сложно сказать",
	}
)

var slashCommandRE = regexp.MustCompile(`^/(stop|help)\b`)

// looksLikeGibberish flags input that cannot carry an answer: empty, one or
// two characters, no letters, under 30% letters, or an unknown slash command.
func looksLikeGibberish(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return true
	}
	if utf8.RuneCountInString(s) <= 2 {
		return true
	}
	var alpha, total int
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha == 0 {
		return true
	}
	if float64(alpha)/float64(total) < 0.30 {
		return true
	}
	if s[0] == '/' && !slashCommandRE.MatchString(textutil.Normalize(s)) {
		return true
	}
	return false
}

// looksRelevant reports whether answer shares at least one normalized content
// token with lastQuestion. Either side tokenizing to nothing means no
// evidence of relevance.
func looksRelevant(answer, lastQuestion string) bool {
	if answer == "" || lastQuestion == "" {
		return false
	}
	a := textutil.TokenSet(answer)
	q := textutil.TokenSet(lastQuestion)
	if len(a) == 0 || len(q) == 0 {
		return false
	}
	for tok := range a {
		if _, ok := q[tok]; ok {
			return true
		}
	}
	return false
}

// bridgeBack builds the default one-sentence pull back to the interview.
func bridgeBack(lastQuestion string) string {
	if lastQuestion != "" {
		return "Понял(а), давай вернёмся к интервью: " + lastQuestion
	}
	return "Понял(а), давай вернёмся к интервью и продолжим."
}
