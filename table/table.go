// Package table reads and writes the flat tables the pipeline exchanges
// with the external extractors, plus the final JSON artifact.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/cthiebaud/bwv-zeug/model"
)

var noteHeadHeader = []string{"id", "pitch", "x", "y", "tie_role", "correlation_ref"}
var tieMarkerHeader = []string{"id", "pitch", "tie_role", "correlation_ref"}
var tieHeader = []string{"correlation_id", "left_id", "right_id"}
var eventHeader = []string{"pitch", "midi", "channel", "on", "off"}

func readRows(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.NewStageError("table", 0, model.ErrMalformedInput,
			"%s: missing header row", path)
	}
	for i, col := range header {
		if i >= len(rows[0]) || rows[0][i] != col {
			return nil, model.NewStageError("table", 0, model.ErrMalformedInput,
				"%s: expected column %q at position %d", path, col, i)
		}
	}
	return rows[1:], nil
}

func writeRows(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func parseRole(s string, row int) (model.TieRole, error) {
	switch r := model.TieRole(s); r {
	case model.RoleNone, model.RoleStart, model.RoleEnd, model.RoleBoth:
		return r, nil
	case "":
		return model.RoleNone, nil
	default:
		return "", model.NewStageError("table", row, model.ErrMalformedInput,
			"unknown tie role %q", s)
	}
}

// ReadNoteHeads loads the geometry extractor's table: one row per note head
// with screen position and the resolver's passed-through markers.
func ReadNoteHeads(path string) ([]model.NoteHead, error) {
	rows, err := readRows(path, noteHeadHeader)
	if err != nil {
		return nil, err
	}
	heads := make([]model.NoteHead, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" || row[1] == "" {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput,
				"note head row needs id and pitch")
		}
		x, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad x %q", row[2])
		}
		y, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad y %q", row[3])
		}
		role, err := parseRole(row[4], i)
		if err != nil {
			return nil, err
		}
		heads = append(heads, model.NoteHead{
			ID: row[0], Pitch: row[1], X: x, Y: y, Role: role, CorrelationRef: row[5],
		})
	}
	return heads, nil
}

// WriteNoteHeads writes a full note head table in the geometry extractor's
// format, positions included.
func WriteNoteHeads(path string, heads []model.NoteHead) error {
	rows := make([][]string, 0, len(heads))
	for _, h := range heads {
		rows = append(rows, []string{
			h.ID, h.Pitch,
			strconv.FormatFloat(h.X, 'f', -1, 64),
			strconv.FormatFloat(h.Y, 'f', -1, 64),
			string(h.Role), h.CorrelationRef,
		})
	}
	return writeRows(path, noteHeadHeader, rows)
}

// WriteTieMarkers writes the resolver's externally visible effect: per note
// head, a role tag and a cross-reference token for the geometry extractor to
// pass through unchanged.
func WriteTieMarkers(path string, heads []model.NoteHead) error {
	rows := make([][]string, 0, len(heads))
	for _, h := range heads {
		rows = append(rows, []string{h.ID, h.Pitch, string(h.Role), h.CorrelationRef})
	}
	return writeRows(path, tieMarkerHeader, rows)
}

func ReadTies(path string) ([]model.Tie, error) {
	rows, err := readRows(path, tieHeader)
	if err != nil {
		return nil, err
	}
	ties := make([]model.Tie, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" || row[1] == "" || row[2] == "" {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput,
				"tie row needs correlation_id, left_id and right_id")
		}
		ties = append(ties, model.Tie{CorrelationID: row[0], LeftID: row[1], RightID: row[2]})
	}
	return ties, nil
}

func WriteTies(path string, ties []model.Tie) error {
	rows := make([][]string, 0, len(ties))
	for _, tie := range ties {
		rows = append(rows, []string{tie.CorrelationID, tie.LeftID, tie.RightID})
	}
	return writeRows(path, tieHeader, rows)
}

// ReadNoteEvents loads the timing table. The wire format keeps the
// extractor's columns (seconds); onset and duration come out in millis and
// the ordinal index is the row position.
func ReadNoteEvents(path string) ([]model.NoteEvent, error) {
	rows, err := readRows(path, eventHeader)
	if err != nil {
		return nil, err
	}
	events := make([]model.NoteEvent, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "event row needs pitch")
		}
		note, err := strconv.ParseUint(row[1], 10, 8)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad midi %q", row[1])
		}
		channel, err := strconv.ParseUint(row[2], 10, 8)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad channel %q", row[2])
		}
		on, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad on %q", row[3])
		}
		off, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, model.NewStageError("table", i, model.ErrMalformedInput, "bad off %q", row[4])
		}
		events = append(events, model.NoteEvent{
			OrdinalIndex: i,
			Pitch:        row[0],
			Midi:         uint8(note),
			Channel:      uint8(channel),
			OnsetMs:      int64(on*1000 + 0.5),
			DurationMs:   int64((off-on)*1000 + 0.5),
		})
	}
	return events, nil
}

func WriteNoteEvents(path string, events []model.NoteEvent) error {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		on := float64(ev.OnsetMs) / 1000
		off := float64(ev.OnsetMs+ev.DurationMs) / 1000
		rows = append(rows, []string{
			ev.Pitch,
			strconv.Itoa(int(ev.Midi)),
			strconv.Itoa(int(ev.Channel)),
			strconv.FormatFloat(on, 'f', -1, 64),
			strconv.FormatFloat(off, 'f', -1, 64),
		})
	}
	return writeRows(path, eventHeader, rows)
}

// ReadScoreInput loads the renderer export consumed by the resolver.
func ReadScoreInput(path string) (model.ScoreInput, error) {
	var score model.ScoreInput
	dat, err := os.ReadFile(path)
	if err != nil {
		return score, err
	}
	if err := json.Unmarshal(dat, &score); err != nil {
		return score, model.NewStageError("table", 0, model.ErrMalformedInput,
			"%s: %v", path, err)
	}
	return score, nil
}

// WriteAligned writes the final artifact atomically: the JSON goes to a
// uniquely named temp file first and is renamed into place only when
// complete, so a failed run never leaves a partial artifact.
func WriteAligned(path string, notes []model.AlignedNote) error {
	dat, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
	if err := os.WriteFile(tmp, dat, 0666); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func ReadAligned(path string) ([]model.AlignedNote, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var notes []model.AlignedNote
	if err := json.Unmarshal(dat, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
