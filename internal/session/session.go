// Package session orchestrates one interview: it owns the memory, runs the
// classifier over each answer, adapts difficulty, picks the next question,
// and records the transcript. A Session is single-goroutine; concurrent use
// requires one Session per conversation.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abhisek/intervu/internal/interviewer"
	"github.com/abhisek/intervu/internal/journal"
	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/memory"
	"github.com/abhisek/intervu/internal/observer"
	"github.com/abhisek/intervu/internal/report"
	"github.com/abhisek/intervu/internal/textutil"
	"github.com/abhisek/intervu/internal/topics"
)

var stopCommandRE = regexp.MustCompile(`^/stop\b`)

// IsStopSignal reports whether msg ends the interview: a /stop command or a
// standalone Russian stop word. Substrings inside larger words do not count.
func IsStopSignal(msg string) bool {
	low := textutil.Normalize(msg)
	if stopCommandRE.MatchString(low) {
		return true
	}
	return textutil.ContainsWord(low, "стоп интервью") || textutil.ContainsWord(low, "стоп")
}

// Config carries everything a Session needs. There is no global state; two
// sessions with different configs can run side by side.
type Config struct {
	CandidateName string
	Position      string
	Grade         string
	Experience    string
	ScenarioID    int

	// Provider may be nil: the session then runs on deterministic
	// heuristics and the static question bank only.
	Provider     llm.Provider
	ProviderName string

	// OutDir is where the final log document is written. Empty means the
	// current directory.
	OutDir string
}

// Session is one interview in progress.
type Session struct {
	mem      *memory.Memory
	observer *observer.Observer
	catalog  *topics.Catalog
	log      *journal.Log

	providerName string
	outDir       string
	scenarioID   int
	turnID       int
	finished     bool
}

// New builds a session, seeding the tech stack from the intake fields.
func New(cfg Config) *Session {
	intake := fmt.Sprintf("%s %s %s", cfg.Position, cfg.Grade, cfg.Experience)
	stack := topics.ExtractTechStack(intake)

	mem := memory.New(cfg.CandidateName, cfg.Position, cfg.Grade, cfg.Experience, stack)
	mem.ApplyDefaults()

	providerName := cfg.ProviderName
	if providerName == "" {
		providerName = "dummy"
	}

	modelID := ""
	if cfg.Provider != nil {
		modelID = cfg.Provider.ModelID()
	}

	return &Session{
		mem:      mem,
		observer: observer.New(cfg.Provider),
		catalog:  topics.NewCatalog(cfg.Provider),
		log: journal.NewLog(cfg.CandidateName, journal.SessionMeta{
			LLMProvider: providerName,
			LLMModel:    modelID,
			Position:    cfg.Position,
			Grade:       cfg.Grade,
			Experience:  cfg.Experience,
			ScenarioID:  cfg.ScenarioID,
		}),
		providerName: providerName,
		outDir:       cfg.OutDir,
		scenarioID:   cfg.ScenarioID,
	}
}

// FirstMessage returns the greeting plus the opening question. The opening
// question is remembered as asked but the greeting turn itself is not
// logged; turn 1 starts with the candidate's first answer.
func (s *Session) FirstMessage(ctx context.Context) string {
	stack := "пока не распознан (скажи 2–3 технологии)"
	if len(s.mem.TechStack) > 0 {
		stack = strings.Join(s.mem.TechStack, ", ")
	}
	greeting := fmt.Sprintf(
		"Привет, %s! Я тренажёр тех-интервью (LLM: %s). По вводным вижу стек: %s. Коротко расскажи про опыт и основной стек.",
		s.mem.CandidateName, strings.ToUpper(s.providerName), stack,
	)

	hint := ""
	if len(s.mem.TechStack) > 0 {
		hint = s.mem.TechStack[0]
	}
	sel := s.catalog.PickNext(ctx, s.mem, hint, "")
	s.mem.RememberQuestion(sel.Question, sel.Topic)

	return greeting + "\n\n" + sel.Question
}

// Step processes one candidate message and returns the next visible reply.
// done is true when the message was a stop signal; the reply is then the
// final feedback document.
func (s *Session) Step(ctx context.Context, userMessage string) (reply string, done bool, err error) {
	if IsStopSignal(userMessage) {
		feedback, err := s.Finish()
		return feedback, true, err
	}

	s.turnID++
	questionAnswered := s.mem.LastQuestion
	topicAnswered := s.mem.LastTopic

	s.mem.RememberUser(userMessage)
	if extra := topics.ExtractTechStack(userMessage); len(extra) > 0 {
		s.mem.AddStack(extra)
	}

	verdict := s.observer.Analyze(ctx, userMessage, s.mem)
	s.applyDifficulty(verdict.Action)
	s.mem.MarkTopic(s.mem.LastTopic, string(verdict.Kind))

	stickyHint := verdict.TopicHint
	if stickyHint == "" {
		stickyHint = s.mem.LastTopic
	}
	switch verdict.Kind {
	case observer.KindWeak, observer.KindOfftopic, observer.KindHallucination, observer.KindRefusal:
		// Struggling is not a reason to change topics.
		if s.mem.LastTopic != "" {
			stickyHint = s.mem.LastTopic
		}
	}

	var nextQuestion, source string
	if s.mem.FollowupStreak < memory.MaxFollowupStreak && verdict.NeedFollowup && verdict.FollowupQuestion != "" {
		nextQuestion = textutil.OneQuestion(verdict.FollowupQuestion)
		if nextQuestion == "" {
			nextQuestion = questionAnswered
		}
		if nextQuestion == "" {
			nextQuestion = "Ответь на последний вопрос."
		}
		s.mem.RememberQuestion(nextQuestion, s.mem.LastTopic)
		s.mem.FollowupStreak++
		source = "followup"
	} else {
		var forced memory.Difficulty
		if verdict.Kind == observer.KindHallucination {
			forced = memory.DifficultyEasy
		}
		sel := s.catalog.PickNext(ctx, s.mem, stickyHint, forced)
		s.mem.RememberQuestion(sel.Question, sel.Topic)
		s.mem.FollowupStreak = 0
		nextQuestion = sel.Question
		source = sel.Source
	}

	reply = interviewer.Compose(nextQuestion, verdict.ReturnToTopicText, verdict.FactCheckNotes)

	topic := topicAnswered
	if topic == "" {
		topic = "generic"
	}
	s.log.AddTurn(journal.Turn{
		TurnID:              s.turnID,
		AgentVisibleMessage: questionAnswered,
		UserMessage:         userMessage,
		Thoughts: []journal.Thought{
			{Role: "Observer", Content: fmt.Sprintf("kind=%s diff=%s reason=%s", verdict.Kind, verdict.Action, verdict.Reason)},
			{Role: "Interviewer", Content: "Сформулировать краткий вывод и задать следующий вопрос по теме."},
		},
		Meta: journal.TurnMeta{
			Kind:                string(verdict.Kind),
			Topic:               topic,
			Source:              source,
			QuestionAnswered:    questionAnswered,
			QuestionAsked:       nextQuestion,
			ExpectedAnswerShort: verdict.ExpectedAnswerShort,
		},
	})

	return reply, false, nil
}

// Finish builds the final feedback, saves the log document, and returns the
// feedback text. Calling Finish twice saves only once.
func (s *Session) Finish() (string, error) {
	if s.finished {
		return s.log.FinalFeedback, nil
	}
	s.finished = true

	s.log.FinalFeedback = report.Build(s.log.Turns, s.mem.Grade)

	name := fmt.Sprintf("interview_log_%d.json", s.scenarioID)
	path := name
	if s.outDir != "" {
		path = filepath.Join(s.outDir, name)
	}
	if err := s.log.Save(path); err != nil {
		return s.log.FinalFeedback, fmt.Errorf("saving interview log: %w", err)
	}
	return s.log.FinalFeedback, nil
}

// Log exposes the transcript, mainly for tests and the CLI summary view.
func (s *Session) Log() *journal.Log {
	return s.log
}

// Memory exposes the session state for inspection.
func (s *Session) Memory() *memory.Memory {
	return s.mem
}

func (s *Session) applyDifficulty(a observer.Action) {
	switch a {
	case observer.ActionUp:
		s.mem.BumpUp()
	case observer.ActionDown:
		s.mem.BumpDown()
	}
}
