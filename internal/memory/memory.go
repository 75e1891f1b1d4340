// Package memory holds the per-session mutable state: candidate profile,
// difficulty, bounded history windows, and streak counters. A single
// goroutine owns a Memory for the lifetime of its session, so there is no
// locking here.
package memory

import "strings"

// Grade is the candidate's seniority rank.
type Grade string

const (
	GradeJunior Grade = "junior"
	GradeMiddle Grade = "middle"
	GradeSenior Grade = "senior"
)

// Difficulty is the current question difficulty rank.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Window caps. Oldest entries are evicted first.
const (
	MaxUserMessages   = 6
	MaxAskedQuestions = 60
)

// MaxFollowupStreak caps consecutive follow-ups on the same question.
const MaxFollowupStreak = 2

// Memory is the session state threaded through every pipeline stage.
type Memory struct {
	CandidateName string
	Position      string
	Grade         Grade
	Experience    string
	TechStack     []string // canonical topic tags, deduplicated, order-preserving

	Difficulty   Difficulty
	LastQuestion string
	LastTopic    string

	LastUserMessages []string // sliding window, newest last
	AskedQuestions   []string // sliding window for dedup, newest last

	FollowupStreak int

	TopicWeakStreak   map[string]int
	TopicStrongStreak map[string]int
}

// New creates a Memory with the raw intake fields and empty streak maps.
// Call ApplyDefaults before use.
func New(candidateName, position, grade, experience string, techStack []string) *Memory {
	return &Memory{
		CandidateName:     candidateName,
		Position:          position,
		Grade:             Grade(grade),
		Experience:        experience,
		TechStack:         techStack,
		Difficulty:        DifficultyEasy,
		TopicWeakStreak:   make(map[string]int),
		TopicStrongStreak: make(map[string]int),
	}
}

// NormalizeGrade maps a free-form grade string onto the three-rank enum.
// Tolerates Russian and English spellings and abbreviations.
func NormalizeGrade(raw string) Grade {
	g := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(g, "sen") || strings.Contains(g, "сень"):
		return GradeSenior
	case strings.Contains(g, "mid") || strings.Contains(g, "мид"):
		return GradeMiddle
	default:
		return GradeJunior
	}
}

// DifficultyForGrade mirrors the grade onto the starting difficulty.
func DifficultyForGrade(g Grade) Difficulty {
	switch g {
	case GradeSenior:
		return DifficultyHard
	case GradeMiddle:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// ApplyDefaults normalizes the grade and sets the initial difficulty.
func (m *Memory) ApplyDefaults() {
	m.Grade = NormalizeGrade(string(m.Grade))
	m.Difficulty = DifficultyForGrade(m.Grade)
}

// BumpUp moves difficulty one rank up, saturating at hard.
func (m *Memory) BumpUp() {
	switch m.Difficulty {
	case DifficultyEasy:
		m.Difficulty = DifficultyMedium
	case DifficultyMedium:
		m.Difficulty = DifficultyHard
	}
}

// BumpDown moves difficulty one rank down, saturating at easy.
func (m *Memory) BumpDown() {
	switch m.Difficulty {
	case DifficultyHard:
		m.Difficulty = DifficultyMedium
	case DifficultyMedium:
		m.Difficulty = DifficultyEasy
	}
}

// RememberUser appends a candidate message, evicting beyond the window cap.
func (m *Memory) RememberUser(msg string) {
	m.LastUserMessages = append(m.LastUserMessages, msg)
	if len(m.LastUserMessages) > MaxUserMessages {
		m.LastUserMessages = m.LastUserMessages[len(m.LastUserMessages)-MaxUserMessages:]
	}
}

// RememberQuestion records q as the last asked question with its topic and
// appends it to the dedup window.
func (m *Memory) RememberQuestion(q, topic string) {
	m.LastQuestion = q
	m.LastTopic = topic
	m.AskedQuestions = append(m.AskedQuestions, q)
	if len(m.AskedQuestions) > MaxAskedQuestions {
		m.AskedQuestions = m.AskedQuestions[len(m.AskedQuestions)-MaxAskedQuestions:]
	}
}

// AlreadyAsked reports whether q is in the asked-question window.
func (m *Memory) AlreadyAsked(q string) bool {
	for _, asked := range m.AskedQuestions {
		if asked == q {
			return true
		}
	}
	return false
}

// AddStack merges tags into the tech stack, preserving order and suppressing
// duplicates.
func (m *Memory) AddStack(tags []string) {
	for _, tag := range tags {
		seen := false
		for _, have := range m.TechStack {
			if have == tag {
				seen = true
				break
			}
		}
		if !seen {
			m.TechStack = append(m.TechStack, tag)
		}
	}
}

// MarkTopic updates the topic streak counters for a classified turn.
// STRONG extends the strong streak; WEAK and HALLUCINATION extend the weak
// streak; any other kind resets both. Kind strings come from the observer
// verdict enum.
func (m *Memory) MarkTopic(topic, kind string) {
	if topic == "" {
		return
	}
	switch strings.ToUpper(kind) {
	case "STRONG":
		m.TopicStrongStreak[topic]++
		m.TopicWeakStreak[topic] = 0
	case "WEAK", "HALLUCINATION":
		m.TopicWeakStreak[topic]++
		m.TopicStrongStreak[topic] = 0
	default:
		m.TopicWeakStreak[topic] = 0
		m.TopicStrongStreak[topic] = 0
	}
}
