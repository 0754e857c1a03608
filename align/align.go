// Package align zips the squashed visual note sequence with the performance
// event sequence by ordinal position into the final animation records.
// Pairing is positional, never by pitch: pitch alone is ambiguous across
// simultaneous voices, but both sequences enumerate the same score in the
// same relative order.
package align

import (
	"github.com/cthiebaud/bwv-zeug/model"
	"github.com/cthiebaud/bwv-zeug/pitch"
)

const stage = "align"

// DefaultMaxMismatchRun is how many consecutive pitch-class mismatches
// count as a structural misalignment rather than extractor noise.
const DefaultMaxMismatchRun = 3

// Options tunes the per-pair validation.
type Options struct {
	// MaxMismatchRun is the fatal run length; zero means the default.
	MaxMismatchRun int
}

// Warning records one tolerated pitch-class mismatch.
type Warning struct {
	Index      int
	NotePitch  string
	EventPitch string
}

// Align pairs squashed notes with events index by index. A count mismatch is
// fatal. Per pair, the pitch classes are compared: an isolated mismatch is
// returned as a warning (octave and enharmonic normalization differ between
// extractors), but a run of consecutive mismatches means the orderings have
// desynchronized and is fatal.
func Align(notes []model.SquashedNote, events []model.NoteEvent, opts Options) ([]model.AlignedNote, []Warning, error) {
	maxRun := opts.MaxMismatchRun
	if maxRun <= 0 {
		maxRun = DefaultMaxMismatchRun
	}

	if len(notes) != len(events) {
		first := len(notes)
		if len(events) < first {
			first = len(events)
		}
		return nil, nil, model.NewStageError(stage, first, model.ErrCountMismatch,
			"%d squashed notes vs %d events", len(notes), len(events))
	}

	out := make([]model.AlignedNote, 0, len(notes))
	var warnings []Warning
	run := 0
	runStart := 0

	for i, n := range notes {
		ev := events[i]
		if !pitch.SameClass(n.Pitch, ev.Pitch) {
			if run == 0 {
				runStart = i
			}
			run++
			warnings = append(warnings, Warning{Index: i, NotePitch: n.Pitch, EventPitch: ev.Pitch})
			if run >= maxRun {
				return nil, warnings, model.NewStageError(stage, runStart, model.ErrMisalignment,
					"%d consecutive pitch mismatches starting at %q vs %q",
					run, notes[runStart].Pitch, events[runStart].Pitch)
			}
		} else {
			run = 0
		}

		out = append(out, model.AlignedNote{
			ID:         n.ID,
			X:          n.X,
			Y:          n.Y,
			OnsetMs:    ev.OnsetMs,
			DurationMs: ev.DurationMs,
			Pitch:      ev.Pitch,
		})
	}
	return out, warnings, nil
}
