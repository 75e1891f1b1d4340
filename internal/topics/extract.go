package topics

import (
	"strings"

	"github.com/abhisek/intervu/internal/textutil"
)

// ExtractTechStack scans free text for topic aliases and returns canonical
// tags in first-seen order, capped at MaxStackTags. Two fixed rules apply:
// "sql" is derived when a concrete SQL engine is mentioned without it, and
// "go" always moves to the front.
func ExtractTechStack(text string) []string {
	t := strings.ReplaceAll(textutil.Normalize(text), "postgresql", "postgres")

	var found []string
	add := func(tag string) {
		for _, have := range found {
			if have == tag {
				return
			}
		}
		found = append(found, tag)
	}

	for _, canonical := range aliasOrder {
		for _, alias := range aliasVocab[canonical] {
			if textutil.ContainsWord(t, alias) {
				add(canonical)
				break
			}
		}
	}

	if (contains(found, "postgres") || contains(found, "mysql")) && !contains(found, "sql") {
		add("sql")
	}

	found = goFirst(found)

	if len(found) > MaxStackTags {
		found = found[:MaxStackTags]
	}
	return found
}

// goFirst moves the "go" tag to the front, preserving relative order of the
// rest.
func goFirst(tags []string) []string {
	if !contains(tags, "go") {
		return tags
	}
	out := make([]string, 0, len(tags))
	out = append(out, "go")
	for _, tag := range tags {
		if tag != "go" {
			out = append(out, tag)
		}
	}
	return out
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
