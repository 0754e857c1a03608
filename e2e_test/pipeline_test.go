//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cthiebaud/bwv-zeug/cmd"
	"github.com/cthiebaud/bwv-zeug/model"
	"github.com/cthiebaud/bwv-zeug/resolver"
	"github.com/cthiebaud/bwv-zeug/table"
)

// The score under test: c' tied over three note heads, then d', then e'.
// The performance export has pre-merged the tied notes into one event.
var score = model.ScoreInput{
	Notes: []model.ScoreNote{
		{Pitch: "c'", StartsTie: true},
		{Pitch: "c'", StartsTie: true},
		{Pitch: "c'"},
		{Pitch: "d'"},
		{Pitch: "e'"},
	},
	Ties: []model.TieSpan{{Left: 0, Right: 1}, {Left: 1, Right: 2}},
}

func writeScore(t *testing.T, dir string) string {
	t.Helper()
	dat, err := json.Marshal(score)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "score.json")
	if err := os.WriteFile(path, dat, 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeGeometry plays the external geometry extractor: it attaches screen
// positions to the resolver's note heads and passes the markers through.
func fakeGeometry(t *testing.T, dir string, heads []model.NoteHead) string {
	t.Helper()
	for i := range heads {
		heads[i].X = float64(10 + 20*i)
		heads[i].Y = 100
	}
	path := filepath.Join(dir, "noteheads.csv")
	if err := table.WriteNoteHeads(path, heads); err != nil {
		t.Fatal(err)
	}
	return path
}

func fakeTiming(t *testing.T, dir string, events []model.NoteEvent) string {
	t.Helper()
	path := filepath.Join(dir, "notes.csv")
	if err := table.WriteNoteEvents(path, events); err != nil {
		t.Fatal(err)
	}
	return path
}

func goodTiming() []model.NoteEvent {
	return []model.NoteEvent{
		{OrdinalIndex: 0, Pitch: "c'", Midi: 72, Channel: 1, OnsetMs: 0, DurationMs: 3000},
		{OrdinalIndex: 1, Pitch: "d'", Midi: 74, Channel: 1, OnsetMs: 3000, DurationMs: 1000},
		{OrdinalIndex: 2, Pitch: "e'", Midi: 76, Channel: 1, OnsetMs: 4000, DurationMs: 1000},
	}
}

func TestFullPipeline(t *testing.T) {
	dir := t.TempDir()
	scorePath := writeScore(t, dir)
	markers := filepath.Join(dir, "markers.csv")
	tiesPath := filepath.Join(dir, "ties.csv")

	assert := assert.New(t)
	assert.NoError(cmd.RunResolve(scorePath, markers, tiesPath, false))

	ties, err := table.ReadTies(tiesPath)
	assert.NoError(err)
	assert.Equal([]model.Tie{
		{CorrelationID: "t1", LeftID: "n1", RightID: "n2"},
		{CorrelationID: "t2", LeftID: "n2", RightID: "n3"},
	}, ties)

	res, err := resolver.Direct{}.Resolve(score)
	assert.NoError(err)
	noteheads := fakeGeometry(t, dir, res.Heads)
	timingPath := fakeTiming(t, dir, goodTiming())

	artifact := filepath.Join(dir, "sync.json")
	assert.NoError(cmd.RunSync(cmd.SyncOptions{
		NoteHeads: noteheads,
		Timing:    timingPath,
		Output:    artifact,
	}))

	aligned, err := table.ReadAligned(artifact)
	assert.NoError(err)
	assert.Equal([]model.AlignedNote{
		{ID: "n1", X: 10, Y: 100, OnsetMs: 0, DurationMs: 3000, Pitch: "c'"},
		{ID: "n4", X: 70, Y: 100, OnsetMs: 3000, DurationMs: 1000, Pitch: "d'"},
		{ID: "n5", X: 90, Y: 100, OnsetMs: 4000, DurationMs: 1000, Pitch: "e'"},
	}, aligned)
}

func TestFullPipelineViaTieTable(t *testing.T) {
	dir := t.TempDir()

	// markers stripped: the squasher must reconstruct roles from the tie table
	res, err := resolver.Direct{}.Resolve(score)
	assert := assert.New(t)
	assert.NoError(err)
	for i := range res.Heads {
		res.Heads[i].Role = model.RoleNone
		res.Heads[i].CorrelationRef = ""
	}
	noteheads := fakeGeometry(t, dir, res.Heads)
	tiesPath := filepath.Join(dir, "ties.csv")
	assert.NoError(table.WriteTies(tiesPath, res.Ties))
	timingPath := fakeTiming(t, dir, goodTiming())

	artifact := filepath.Join(dir, "sync.json")
	assert.NoError(cmd.RunSync(cmd.SyncOptions{
		NoteHeads: noteheads,
		Timing:    timingPath,
		Ties:      tiesPath,
		Output:    artifact,
	}))

	aligned, err := table.ReadAligned(artifact)
	assert.NoError(err)
	assert.Len(aligned, 3)
	assert.Equal("n1", aligned[0].ID)
}

func TestCountMismatchAbortsWithoutArtifact(t *testing.T) {
	dir := t.TempDir()
	res, err := resolver.Direct{}.Resolve(score)
	assert := assert.New(t)
	assert.NoError(err)
	noteheads := fakeGeometry(t, dir, res.Heads)

	short := goodTiming()[:2]
	timingPath := fakeTiming(t, dir, short)

	artifact := filepath.Join(dir, "sync.json")
	err = cmd.RunSync(cmd.SyncOptions{
		NoteHeads: noteheads,
		Timing:    timingPath,
		Output:    artifact,
	})
	assert.ErrorIs(err, model.ErrCountMismatch)

	_, statErr := os.Stat(artifact)
	assert.True(os.IsNotExist(statErr)) // no partial output
}

func TestIsolatedMismatchStillProducesArtifact(t *testing.T) {
	dir := t.TempDir()
	res, err := resolver.Direct{}.Resolve(score)
	assert := assert.New(t)
	assert.NoError(err)

	events := goodTiming()
	events[1].Pitch = "dis'" // one disagreement, surrounded by matches
	noteheads := fakeGeometry(t, dir, res.Heads)
	timingPath := fakeTiming(t, dir, events)

	artifact := filepath.Join(dir, "sync.json")
	assert.NoError(cmd.RunSync(cmd.SyncOptions{
		NoteHeads: noteheads,
		Timing:    timingPath,
		Output:    artifact,
	}))

	aligned, err := table.ReadAligned(artifact)
	assert.NoError(err)
	assert.Len(aligned, 3)
	assert.Equal("dis'", aligned[1].Pitch) // event pitch wins in the artifact
}

func TestServeHandlers(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "sync.json")
	notes := []model.AlignedNote{
		{ID: "n1", X: 10, Y: 100, OnsetMs: 0, DurationMs: 500, Pitch: "c'"},
		{ID: "n2", X: 30, Y: 100, OnsetMs: 500, DurationMs: 500, Pitch: "d'"},
	}
	assert := assert.New(t)
	assert.NoError(table.WriteAligned(artifact, notes))
	assert.NoError(cmd.LoadArtifact(artifact))

	router := cmd.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(200, resp.StatusCode)
	var got []model.AlignedNote
	assert.NoError(json.Unmarshal(body, &got))
	assert.Equal(notes, got)

	req = httptest.NewRequest(http.MethodGet, "/notes/n2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	resp = w.Result()
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(200, resp.StatusCode)
	var one model.AlignedNote
	assert.NoError(json.Unmarshal(body, &one))
	assert.Equal(notes[1], one)

	req = httptest.NewRequest(http.MethodGet, "/notes/n9", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(404, w.Result().StatusCode)
}
