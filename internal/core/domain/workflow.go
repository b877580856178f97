package domain

import "time"

// Phase is the current step of a newsletter workflow session.
type Phase string

// Workflow phases, in order.
const (
	PhaseAskNewsTopic        Phase = "ask_news_topic"
	PhaseSetNewsTopic        Phase = "set_news_topic"
	PhaseAwaitingNewsPick    Phase = "awaiting_news_pick"
	PhaseAskConsultTopic     Phase = "ask_consult_topic"
	PhaseSetConsultTopic     Phase = "set_consult_topic"
	PhaseAwaitingConsultPick Phase = "awaiting_consult_pick"
	PhasePolicySelect        Phase = "policy_select"
	PhaseAwaitingPolicyPick  Phase = "awaiting_policy_pick"
	PhaseReadyToGenerate     Phase = "ready_to_generate"
)

// IsValid returns true if the phase is recognised.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseAskNewsTopic, PhaseSetNewsTopic, PhaseAwaitingNewsPick,
		PhaseAskConsultTopic, PhaseSetConsultTopic, PhaseAwaitingConsultPick,
		PhasePolicySelect, PhaseAwaitingPolicyPick, PhaseReadyToGenerate:
		return true
	default:
		return false
	}
}

// IsAwaitingPick reports whether the session is waiting for a selection
// rather than for free-text input.
func (p Phase) IsAwaitingPick() bool {
	switch p {
	case PhaseAwaitingNewsPick, PhaseAwaitingConsultPick, PhaseAwaitingPolicyPick:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// Description returns a short prompt-style description of the phase.
func (p Phase) Description() string {
	switch p {
	case PhaseAskNewsTopic, PhaseSetNewsTopic:
		return "News topic"
	case PhaseAwaitingNewsPick:
		return "Choose a news article"
	case PhaseAskConsultTopic, PhaseSetConsultTopic:
		return "Consultation topic"
	case PhaseAwaitingConsultPick:
		return "Choose a consultation case"
	case PhasePolicySelect, PhaseAwaitingPolicyPick:
		return "Choose policy announcements"
	case PhaseReadyToGenerate:
		return "Ready to generate"
	default:
		return unknownDescription
	}
}

// SessionState is the complete state of one workflow conversation.
// It is a value: transitions return a new state and leave the input alone.
type SessionState struct {
	ID    string
	Phase Phase

	NewsTopic    string
	ConsultTopic string

	NewsOptions    []Candidate
	ConsultOptions []Candidate
	PolicyOptions  []Candidate

	SelectedNews    *Candidate
	SelectedConsult *Candidate
	SelectedPolicy  []Candidate

	// NewsText is the full text of the selected article.
	NewsText string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSessionState returns a session in its initial phase.
func NewSessionState(id string, now time.Time) SessionState {
	return SessionState{
		ID:        id,
		Phase:     PhaseAskNewsTopic,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can transition without aliasing
// option slices or selections.
func (s SessionState) Clone() SessionState {
	out := s
	out.NewsOptions = cloneCandidates(s.NewsOptions)
	out.ConsultOptions = cloneCandidates(s.ConsultOptions)
	out.PolicyOptions = cloneCandidates(s.PolicyOptions)
	out.SelectedPolicy = cloneCandidates(s.SelectedPolicy)
	if s.SelectedNews != nil {
		c := *s.SelectedNews
		out.SelectedNews = &c
	}
	if s.SelectedConsult != nil {
		c := *s.SelectedConsult
		out.SelectedConsult = &c
	}
	return out
}

func cloneCandidates(in []Candidate) []Candidate {
	if in == nil {
		return nil
	}
	out := make([]Candidate, len(in))
	copy(out, in)
	return out
}

// StepType classifies what a transition produced.
type StepType string

// Step result types.
const (
	StepMessage        StepType = "message"
	StepNewsOptions    StepType = "options_news"
	StepConsultOptions StepType = "options_consult"
	StepPolicyOptions  StepType = "options_policy"
	StepDocument       StepType = "document"
)

// StepResult is what the workflow hands back to the user after a transition.
type StepResult struct {
	Type     StepType
	Message  string
	Options  []Candidate
	Document *RenderedDocument
}
