// Package resolver assigns tie identities during rendering: every note head
// gets a locally unique id, and each tie construct's two note heads get
// mutual correlation references plus start/end/both role markers.
//
// Two strategies exist. Direct reads the tie constructs themselves, which
// carry unambiguous references to their exact left and right note heads, and
// is authoritative. Heuristic re-matches tie starts to later note heads by
// pitch class and is a fallback for renderers that do not expose construct
// references; it is known to mis-pair simultaneous voices holding the same
// pitch.
package resolver

import (
	"fmt"

	"github.com/cthiebaud/bwv-zeug/model"
	"github.com/cthiebaud/bwv-zeug/pitch"
)

const stage = "resolve"

// Resolution is the outcome of one resolver pass. Dropped lists note heads
// whose outgoing tie never found an end; the heads themselves survive.
type Resolution struct {
	Heads   []model.NoteHead
	Ties    []model.Tie
	Dropped []string
}

// Strategy resolves tie identities over one renderer export.
type Strategy interface {
	Resolve(score model.ScoreInput) (Resolution, error)
}

// ForInput picks the authoritative strategy whenever the export carries
// tie construct references.
func ForInput(score model.ScoreInput) Strategy {
	if len(score.Ties) > 0 {
		return Direct{}
	}
	return Heuristic{}
}

// pass scopes the id counters to one resolver invocation.
type pass struct {
	notes int
	ties  int
}

func (p *pass) noteID() string {
	p.notes++
	return fmt.Sprintf("n%d", p.notes)
}

func (p *pass) tieID() string {
	p.ties++
	return fmt.Sprintf("t%d", p.ties)
}

func (p *pass) makeHeads(notes []model.ScoreNote) []model.NoteHead {
	heads := make([]model.NoteHead, len(notes))
	for i, n := range notes {
		heads[i] = model.NoteHead{ID: p.noteID(), Pitch: n.Pitch, Role: model.RoleNone}
	}
	return heads
}

// Direct resolves each tie from its construct's own endpoint references.
type Direct struct{}

func (Direct) Resolve(score model.ScoreInput) (Resolution, error) {
	var p pass
	heads := p.makeHeads(score.Notes)

	var res Resolution
	for i, span := range score.Ties {
		if span.Left < 0 || span.Right >= len(heads) || span.Left >= span.Right {
			return Resolution{}, model.NewStageError(stage, i, model.ErrMalformedInput,
				"tie span %d..%d outside score of %d notes", span.Left, span.Right, len(heads))
		}
		left, right := &heads[span.Left], &heads[span.Right]

		switch left.Role {
		case model.RoleNone:
			left.Role = model.RoleStart
		case model.RoleEnd:
			left.Role = model.RoleBoth
		default:
			return Resolution{}, model.NewStageError(stage, i, model.ErrMalformedInput,
				"note head %s starts two ties", left.ID)
		}
		switch right.Role {
		case model.RoleNone:
			right.Role = model.RoleEnd
		case model.RoleStart:
			right.Role = model.RoleBoth
		default:
			return Resolution{}, model.NewStageError(stage, i, model.ErrMalformedInput,
				"note head %s ends two ties", right.ID)
		}

		// The start side always points forward so chain walking can follow
		// it; the end side points back unless it already points forward.
		left.CorrelationRef = right.ID
		if right.CorrelationRef == "" {
			right.CorrelationRef = left.ID
		}
		res.Ties = append(res.Ties, model.Tie{
			CorrelationID: p.tieID(),
			LeftID:        left.ID,
			RightID:       right.ID,
		})
	}
	res.Heads = heads
	return res, nil
}

// Heuristic matches each new note head against a pending set of open tie
// starts by pitch class, FIFO within a class.
type Heuristic struct{}

func (Heuristic) Resolve(score model.ScoreInput) (Resolution, error) {
	var p pass
	heads := p.makeHeads(score.Notes)
	pending := make(map[string][]int)
	unmatched := make([]bool, len(heads))

	var res Resolution
	for i, n := range score.Notes {
		class := pitch.Class(n.Pitch)

		if open := pending[class]; len(open) > 0 {
			j := open[0]
			pending[class] = open[1:]
			unmatched[j] = false
			start, end := &heads[j], &heads[i]
			end.Role = model.RoleEnd
			end.CorrelationRef = start.ID
			start.CorrelationRef = end.ID
			res.Ties = append(res.Ties, model.Tie{
				CorrelationID: p.tieID(),
				LeftID:        start.ID,
				RightID:       end.ID,
			})
		}

		if n.StartsTie {
			if heads[i].Role == model.RoleEnd {
				heads[i].Role = model.RoleBoth
			} else {
				heads[i].Role = model.RoleStart
			}
			pending[class] = append(pending[class], i)
			unmatched[i] = true
		}
	}

	// Unmatched starts are dropped, never invalidated: the head stays, its
	// tie just never materializes. A both-role head loses its start half so
	// the chain it sits in still terminates there.
	for i, open := range unmatched {
		if !open {
			continue
		}
		if heads[i].Role == model.RoleBoth {
			heads[i].Role = model.RoleEnd
		}
		res.Dropped = append(res.Dropped, heads[i].ID)
	}
	res.Heads = heads
	return res, nil
}
