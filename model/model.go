package model

// Kind is the type of a proposed file mutation.
type Kind string

const (
	KindWrite Kind = "write"
	KindEdit  Kind = "edit"
)

// Mutation is a proposed change to a file, as received from the host.
// Write mutations carry Content; edit mutations carry OldText and NewText.
type Mutation struct {
	RequestID string
	Kind      Kind
	Path      string
	Content   string
	OldText   string
	NewText   string
}

// Valid reports whether the mutation carries the fields its kind needs.
func (m Mutation) Valid() bool {
	if m.Path == "" {
		return false
	}
	switch m.Kind {
	case KindWrite:
		return true
	case KindEdit:
		return m.OldText != "" || m.NewText != ""
	default:
		return false
	}
}

// Decision is the outcome of one review session.
type Decision int

const (
	DecisionNone Decision = iota
	Approve
	Reject
	EditAgain
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	case EditAgain:
		return "edit"
	default:
		return "none"
	}
}

// Action tells the host what to do with a mutation.
type Action string

const (
	Proceed Action = "proceed"
	Block   Action = "block"
)

// Outcome is the gate's answer for one mutation.
type Outcome struct {
	RequestID string `json:"request_id,omitempty"`
	Action    Action `json:"action"`
	// Replaced is set when Content (write) or NewText (edit) differ from
	// the proposal because the reviewer edited them. Both are always
	// encoded since an emptied file is a valid replacement.
	Replaced bool   `json:"replaced,omitempty"`
	Content  string `json:"content"`
	NewText  string `json:"new_text"`
	Reason   string `json:"reason,omitempty"`
}

// Substitution records that reviewed content replaced the proposal.
type Substitution struct {
	Path     string
	Original string
	Edited   string
}
