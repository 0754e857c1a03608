// Package squash collapses tie chains into logical notes: one SquashedNote
// per chain, anchored at the chain's first member, plus one per untied head.
package squash

import (
	"github.com/cthiebaud/bwv-zeug/model"
)

const stage = "squash"

// ApplyTies grafts a separate Tie table onto note heads whose markers were
// not embedded by the renderer. Existing markers win; only heads still
// untouched by any marker are annotated.
func ApplyTies(heads []model.NoteHead, ties []model.Tie) []model.NoteHead {
	index := make(map[string]int, len(heads))
	for i, h := range heads {
		index[h.ID] = i
	}
	out := make([]model.NoteHead, len(heads))
	copy(out, heads)

	for _, tie := range ties {
		li, lok := index[tie.LeftID]
		ri, rok := index[tie.RightID]
		if !lok || !rok {
			continue
		}
		left, right := &out[li], &out[ri]
		switch left.Role {
		case model.RoleNone:
			left.Role = model.RoleStart
		case model.RoleEnd:
			left.Role = model.RoleBoth
		}
		switch right.Role {
		case model.RoleNone:
			right.Role = model.RoleEnd
		case model.RoleStart:
			right.Role = model.RoleBoth
		}
		left.CorrelationRef = right.ID
		if right.CorrelationRef == "" || right.Role == model.RoleEnd {
			right.CorrelationRef = left.ID
		}
	}
	return out
}

// Squash walks the heads in score order and emits one SquashedNote per tie
// chain. Chain members other than the head are consumed and never emitted on
// their own. A dangling correlation ref truncates the chain instead of
// failing; a cyclic one is malformed input.
func Squash(heads []model.NoteHead) ([]model.SquashedNote, error) {
	index := make(map[string]int, len(heads))
	for i, h := range heads {
		index[h.ID] = i
	}

	consumed := make(map[string]bool, len(heads))
	emitted := make(map[string]bool, len(heads))
	var out []model.SquashedNote

	for i, h := range heads {
		if consumed[h.ID] || h.Role == model.RoleEnd || h.Role == model.RoleBoth {
			continue
		}

		members := []string{h.ID}
		visited := map[string]bool{h.ID: true}
		cur := h
		for cur.Role == model.RoleStart || cur.Role == model.RoleBoth {
			if cur.CorrelationRef == "" {
				break // dropped tie, chain ends here
			}
			next, ok := index[cur.CorrelationRef]
			if !ok {
				break // dangling ref, chain ends here
			}
			if visited[heads[next].ID] {
				return nil, model.NewStageError(stage, i, model.ErrMalformedInput,
					"cyclic tie reference at %s via %s", h.ID, cur.CorrelationRef)
			}
			cur = heads[next]
			visited[cur.ID] = true
			consumed[cur.ID] = true
			members = append(members, cur.ID)
		}

		emitted[h.ID] = true
		out = append(out, model.SquashedNote{
			ID:            h.ID,
			Pitch:         h.Pitch,
			X:             h.X,
			Y:             h.Y,
			OnsetOrder:    i,
			DurationUnits: len(members),
			MemberIDs:     members,
		})
	}

	// A cycle made only of end/both heads has no chain head, so the walk
	// above never enters it. Any head left untouched whose ref leads to
	// another untouched head closes such a cycle.
	for i, h := range heads {
		if consumed[h.ID] || emitted[h.ID] || h.CorrelationRef == "" {
			continue
		}
		next, ok := index[h.CorrelationRef]
		if !ok {
			continue
		}
		if t := heads[next]; !consumed[t.ID] && !emitted[t.ID] {
			return nil, model.NewStageError(stage, i, model.ErrMalformedInput,
				"cyclic tie reference at %s via %s", h.ID, h.CorrelationRef)
		}
	}
	return out, nil
}
