package model

// Email is one fetched inbox message. Immutable once fetched.
type Email struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Sender  string `json:"sender"` // raw From header
	Date    string `json:"date"`   // raw Date header
	BodyB64 string `json:"body_b64"`
	Preview string `json:"preview"`
}

// SenderGroup collects the emails sharing one normalized sender address.
// Count is kept equal to len(Emails).
type SenderGroup struct {
	Sender string
	Emails []Email
	Count  int
}

// Decision is the per-sender choice for one run. Only two values exist;
// a sender absent from the decisions map behaves exactly like DecisionSkip.
type Decision string

const (
	DecisionSkip   Decision = "skip"
	DecisionDelete Decision = "delete"
)

// Valid reports whether d is one of the two known decisions.
func (d Decision) Valid() bool {
	return d == DecisionSkip || d == DecisionDelete
}

// RunState threads the outcome of each stage through a run. Stages return a
// new value instead of mutating the one they received, so each stage stays
// independently testable.
type RunState struct {
	Emails     []Email
	Groups     map[string]*SenderGroup
	Decisions  map[string]Decision
	SavedPaths []string
	TrashedIDs []string
	MaxFetch   int64
	RunStarted string
}

// NewRunState seeds a run with its fetch bound and start timestamp.
func NewRunState(maxFetch int64, started string) RunState {
	return RunState{MaxFetch: maxFetch, RunStarted: started}
}

// WithEmails returns a copy of s carrying the fetched set.
func (s RunState) WithEmails(emails []Email) RunState {
	s.Emails = emails
	return s
}

// WithGroups returns a copy of s carrying the sender groups.
func (s RunState) WithGroups(groups map[string]*SenderGroup) RunState {
	s.Groups = groups
	return s
}

// WithDecisions returns a copy of s carrying the review outcome.
func (s RunState) WithDecisions(decisions map[string]Decision) RunState {
	s.Decisions = decisions
	return s
}

// WithResults returns a copy of s carrying the execute outputs.
func (s RunState) WithResults(saved, trashed []string) RunState {
	s.SavedPaths = saved
	s.TrashedIDs = trashed
	return s
}
