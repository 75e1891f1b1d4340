// Package textutil holds the small lexical helpers shared by the interview
// pipeline: sentence/question truncation, tolerant JSON extraction, and
// RU/EN-aware tokenization. These are scenario-specific heuristics, not a
// general NLP toolkit.
package textutil

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	spaceRE    = regexp.MustCompile(`\s+`)
	sentenceRE = regexp.MustCompile(`[.!?]( |$)`)
	questionRE = regexp.MustCompile(`^(.*?\?)`)
	tokenRE    = regexp.MustCompile(`[^a-zа-яё0-9_+\s-]`)
	jsonSpanRE = regexp.MustCompile(`(?s)\{.*\}`)
)

// stopWords are filtered out of content tokens. Bilingual because candidates
// answer in a mix of Russian and English tech vocabulary.
var stopWords = map[string]struct{}{
	"и": {}, "в": {}, "на": {}, "что": {}, "это": {}, "как": {},
	"чем": {}, "когда": {}, "где": {}, "почему": {},
	"the": {}, "a": {}, "an": {}, "to": {}, "in": {}, "on": {},
	"and": {}, "or": {}, "of": {}, "for": {},
}

// Normalize lower-cases and collapses whitespace.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	return spaceRE.ReplaceAllString(t, " ")
}

// OneSentence reduces text to its first sentence, guaranteeing terminal
// punctuation. A terminator only counts when followed by a space or the end
// of text, so decimals and version numbers stay intact. Returns "" for
// empty input.
func OneSentence(text string) string {
	x := spaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	if x == "" {
		return ""
	}
	if loc := sentenceRE.FindStringIndex(x); loc != nil {
		x = strings.TrimSpace(x[:loc[0]+1])
	}
	if !strings.HasSuffix(x, ".") && !strings.HasSuffix(x, "!") && !strings.HasSuffix(x, "?") {
		x += "."
	}
	return x
}

// OneQuestion reduces text to a single interrogative sentence: the first
// '?'-terminated span when present, otherwise the whole text with '?' appended.
func OneQuestion(text string) string {
	x := spaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	if x == "" {
		return ""
	}
	if m := questionRE.FindStringSubmatch(x); m != nil {
		return strings.TrimSpace(m[1])
	}
	if !strings.HasSuffix(x, "?") {
		x += "?"
	}
	return x
}

// ExtractJSON locates the first {...} span in raw text and parses it.
// LLMs wrap JSON in prose or markdown fences often enough that strict
// parsing of the whole reply is a losing game. Returns nil on any failure.
func ExtractJSON(raw string) map[string]any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if span := jsonSpanRE.FindString(s); span != "" {
		s = span
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// Tokens extracts normalized content tokens: lower-cased, alphanumeric plus
// _+-, at least 3 runes, stop words removed.
func Tokens(text string) []string {
	t := tokenRE.ReplaceAllString(Normalize(text), " ")
	var parts []string
	for _, p := range strings.Fields(t) {
		p = strings.Trim(p, "-_+")
		if utf8.RuneCountInString(p) < 3 {
			continue
		}
		if _, stop := stopWords[p]; stop {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// TokenSet is Tokens as a membership set.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		set[tok] = struct{}{}
	}
	return set
}

// wordBoundaryCache avoids recompiling per-word regexps on every call; the
// vocabulary is small and fixed.
var wordBoundaryCache sync.Map // map[string]*regexp.Regexp

// ContainsWord reports whether text contains word at a RU/EN word boundary.
// Go's regexp \b only understands ASCII word characters, so the boundary
// class is spelled out.
func ContainsWord(text, word string) bool {
	if cached, ok := wordBoundaryCache.Load(word); ok {
		return cached.(*regexp.Regexp).MatchString(text)
	}
	re := regexp.MustCompile(`(^|[^a-zа-яё0-9_])` + regexp.QuoteMeta(word) + `([^a-zа-яё0-9_]|$)`)
	wordBoundaryCache.Store(word, re)
	return re.MatchString(text)
}

// Short collapses whitespace and truncates to limit runes with an ellipsis.
func Short(text string, limit int) string {
	t := spaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	runes := []rune(t)
	if len(runes) <= limit {
		return t
	}
	return string(runes[:limit]) + "…"
}
