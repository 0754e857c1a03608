// Package timing extracts note events from a MIDI performance export and
// maps them onto a real audio timeline. MIDI tempo is deliberately ignored:
// exported tempo maps are often corrupt, so events are distributed linearly
// by tick position across the known audio duration instead.
package timing

import (
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cthiebaud/bwv-zeug/model"
	"github.com/cthiebaud/bwv-zeug/pitch"
)

const stage = "extract"

type rawEvent struct {
	tick    int64
	isOff   bool
	note    uint8
	channel uint8
}

type openNote struct {
	tick    int64
	channel uint8
}

// Extract walks all tracks of the SMF, pairs note on/off messages through a
// FIFO stack per pitch (overlapping notes of the same pitch pop in order),
// and scales tick positions linearly to audioDurationSeconds. Events are
// sorted by onset, then channel descending (melody channels first), then
// pitch ascending, and numbered in that order.
func Extract(s *smf.SMF, audioDurationSeconds float64) ([]model.NoteEvent, error) {
	if audioDurationSeconds <= 0 {
		return nil, model.NewStageError(stage, 0, model.ErrMalformedInput,
			"audio duration must be positive, got %v", audioDurationSeconds)
	}

	var raw []rawEvent
	var maxTick int64
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				// velocity 0 is a note off in disguise, per the MIDI standard
				raw = append(raw, rawEvent{tick: absTicks, isOff: velocity == 0, note: key, channel: channel})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				raw = append(raw, rawEvent{tick: absTicks, isOff: true, note: key, channel: channel})
			}
			if absTicks > maxTick {
				maxTick = absTicks
			}
		}
	}

	// merge tracks; note offs win at equal ticks so re-struck notes close
	// before they reopen
	sort.SliceStable(raw, func(i, j int) bool {
		if raw[i].tick != raw[j].tick {
			return raw[i].tick < raw[j].tick
		}
		return raw[i].isOff && !raw[j].isOff
	})

	type interval struct {
		onTick  int64
		offTick int64
		note    uint8
		channel uint8
	}
	stack := make(map[uint8][]openNote)
	var intervals []interval
	for _, ev := range raw {
		if ev.isOff {
			open := stack[ev.note]
			if len(open) == 0 {
				continue // stray note off
			}
			stack[ev.note] = open[1:]
			intervals = append(intervals, interval{
				onTick:  open[0].tick,
				offTick: ev.tick,
				note:    ev.note,
				channel: open[0].channel,
			})
		} else {
			stack[ev.note] = append(stack[ev.note], openNote{tick: ev.tick, channel: ev.channel})
		}
	}

	// A file whose events all sit at tick 0 still yields intervals; they
	// land at onset 0 with zero duration rather than being discarded.
	scale := func(tick int64) float64 {
		if maxTick == 0 {
			return 0
		}
		return float64(tick) / float64(maxTick) * audioDurationSeconds
	}

	events := make([]model.NoteEvent, 0, len(intervals))
	for _, iv := range intervals {
		on := scale(iv.onTick)
		off := scale(iv.offTick)
		events = append(events, model.NoteEvent{
			Pitch:      pitch.FromMidi(iv.note),
			Midi:       iv.note,
			Channel:    iv.channel,
			OnsetMs:    int64(on*1000 + 0.5),
			DurationMs: int64((off-on)*1000 + 0.5),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].OnsetMs != events[j].OnsetMs {
			return events[i].OnsetMs < events[j].OnsetMs
		}
		if events[i].Channel != events[j].Channel {
			return events[i].Channel > events[j].Channel
		}
		return events[i].Midi < events[j].Midi
	})
	for i := range events {
		events[i].OrdinalIndex = i
	}
	return events, nil
}
