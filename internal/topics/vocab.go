// Package topics owns the canonical topic vocabulary, the static question
// bank, tech-stack extraction, and per-session question selection with
// deduplication and lazy LLM-backed pool generation.
package topics

// aliasVocab maps canonical topic tags to the spellings candidates actually
// use, Cyrillic and Latin.
var aliasVocab = map[string][]string{
	// languages
	"go":         {"go", "golang", "го", "голанг"},
	"python":     {"python", "питон", "py"},
	"java":       {"java"},
	"javascript": {"javascript", "js", "жаваскрипт"},
	"typescript": {"typescript", "ts", "тайпскрипт"},

	// data
	"sql":      {"sql"},
	"postgres": {"postgres", "postgresql", "постгрес", "постгресql", "pg"},
	"mysql":    {"mysql"},

	// backend/web
	"http":    {"http", "https"},
	"rest":    {"rest", "restful"},
	"grpc":    {"grpc"},
	"graphql": {"graphql"},

	// infra
	"docker":     {"docker", "докер"},
	"kubernetes": {"kubernetes", "k8s", "кубер", "кубернетес"},
	"linux":      {"linux", "линух", "ubuntu", "debian", "centos"},
	"git":        {"git", "github", "gitlab"},

	// go ecosystem
	"gin":   {"gin"},
	"echo":  {"echo"},
	"fiber": {"fiber"},
}

// aliasOrder fixes the scan order over aliasVocab; Go map iteration is
// randomized and extraction order must be deterministic.
var aliasOrder = []string{
	"go", "python", "java", "javascript", "typescript",
	"sql", "postgres", "mysql",
	"http", "rest", "grpc", "graphql",
	"docker", "kubernetes", "linux", "git",
	"gin", "echo", "fiber",
}

// Topics lists the tags that have question pools. Extraction may recognize
// more tags than this (e.g. postgres, gin); those influence the derived
// stack but map to no pool of their own.
var Topics = []string{
	"go", "python",
	"sql",
	"http",
	"docker", "kubernetes",
	"git", "linux",
}

// IsTopic reports whether tag has a question pool.
func IsTopic(tag string) bool {
	for _, t := range Topics {
		if t == tag {
			return true
		}
	}
	return false
}

// MaxStackTags caps the extracted tech stack.
const MaxStackTags = 12
