package model

// TieRole marks how a note head participates in tie constructs.
type TieRole string

const (
	RoleNone  TieRole = "none"
	RoleStart TieRole = "start"
	RoleEnd   TieRole = "end"
	RoleBoth  TieRole = "both"
)

// NoteHead is one notated note head. Position is filled in by the geometry
// extractor after rendering; role and correlation ref are the resolver's
// markers, passed through the extractor unchanged.
type NoteHead struct {
	ID             string
	Pitch          string
	X              float64
	Y              float64
	Role           TieRole
	CorrelationRef string
}

// Tie links the two note heads of one tie construct.
type Tie struct {
	CorrelationID string
	LeftID        string
	RightID       string
}

// SquashedNote is one logical note: a tie chain collapsed onto its first
// member, or a chain of length 1 for an untied head.
type SquashedNote struct {
	ID            string
	Pitch         string
	X             float64
	Y             float64
	OnsetOrder    int
	DurationUnits int
	MemberIDs     []string
}

// NoteEvent is one sounding event from the timing export. Tied notes arrive
// pre-merged upstream, so one event can cover several note heads.
type NoteEvent struct {
	OrdinalIndex int
	Pitch        string
	Midi         uint8
	Channel      uint8
	OnsetMs      int64
	DurationMs   int64
}

// AlignedNote is the final per-note animation record.
type AlignedNote struct {
	ID         string  `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	OnsetMs    int64   `json:"onsetMs"`
	DurationMs int64   `json:"durationMs"`
	Pitch      string  `json:"pitch"`
}

// ScoreNote is one note head as the renderer emits it, in score-traversal
// order. StartsTie reflects an outgoing tie marking on its source event.
type ScoreNote struct {
	Pitch     string `json:"pitch"`
	StartsTie bool   `json:"startsTie"`
}

// TieSpan is a tie construct's own view of its endpoints: score-order
// indexes of the exact left and right note heads.
type TieSpan struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// ScoreInput is the renderer export consumed by the resolver. Ties may be
// empty when the upstream renderer does not expose construct references.
type ScoreInput struct {
	Notes []ScoreNote `json:"notes"`
	Ties  []TieSpan   `json:"ties,omitempty"`
}
