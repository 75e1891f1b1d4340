// Package observer classifies candidate answers. It runs a strictly
// ordered decision pipeline: cheap deterministic gates first, then a
// confidence-gated LLM verifier, then keyword fallbacks, and finally a full
// LLM classification. The first matching stage wins.
package observer

// Kind is the classification outcome for one candidate answer.
type Kind string

const (
	KindStrong        Kind = "STRONG"
	KindNormal        Kind = "NORMAL"
	KindWeak          Kind = "WEAK"
	KindOfftopic      Kind = "OFFTOPIC"
	KindHallucination Kind = "HALLUCINATION"
	KindRoleReversal  Kind = "ROLE_REVERSAL"
	KindNoStack       Kind = "NO_STACK"
	KindRefusal       Kind = "REFUSAL"
)

// allKinds is the full 8-tag enum accepted from the full classifier.
var allKinds = map[Kind]struct{}{
	KindStrong: {}, KindNormal: {}, KindWeak: {}, KindOfftopic: {},
	KindHallucination: {}, KindRoleReversal: {}, KindNoStack: {}, KindRefusal: {},
}

// verifierKinds is the 7-tag subset the verifier stage may return
// (NO_STACK is not a verifier concept).
var verifierKinds = map[Kind]struct{}{
	KindStrong: {}, KindNormal: {}, KindWeak: {}, KindOfftopic: {},
	KindHallucination: {}, KindRoleReversal: {}, KindRefusal: {},
}

// ValidKind reports whether k is in the full enum.
func ValidKind(k Kind) bool {
	_, ok := allKinds[k]
	return ok
}

// Action directs the difficulty adaptation for the next question.
type Action string

const (
	ActionUp   Action = "UP"
	ActionDown Action = "DOWN"
	ActionSame Action = "SAME"
)

// ValidAction reports whether a is a recognized adaptation action.
func ValidAction(a Action) bool {
	return a == ActionUp || a == ActionDown || a == ActionSame
}

// Verdict is the result of one classification pass. It is built fresh each
// turn and consumed immediately; only a reduced projection reaches the turn
// log.
type Verdict struct {
	Kind Kind

	// Reason is the machine-readable cause ("off-topic keyword",
	// "verifier(conf=82)", ...).
	Reason string

	// Instruction is an informational note for the interviewer side.
	Instruction string

	Action Action

	// TopicHint optionally names the topic to stay on.
	TopicHint string

	// NeedFollowup asks the orchestrator to re-ask rather than pick fresh.
	// FollowupQuestion is set iff NeedFollowup, always a single
	// interrogative sentence.
	NeedFollowup     bool
	FollowupQuestion string

	// FactCheckNotes is one sentence of correction, when warranted.
	FactCheckNotes string

	// ReturnToTopicText is one bridging sentence pulling the candidate
	// back to the interview.
	ReturnToTopicText string

	// ExpectedAnswerShort is a brief answer scaffold, set only for
	// WEAK/HALLUCINATION verdicts.
	ExpectedAnswerShort string
}
