// Package midi reads standard MIDI files for the timing extractor.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// ReadFile parses an SMF from disk. The smf reader can panic on corrupt
// input (https://github.com/gomidi/midi/issues/20), so that is recovered
// into an ordinary error and the caller just skips the file.
func ReadFile(path string) (s *smf.SMF, e error) {
	var blank smf.SMF

	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return &blank, fmt.Errorf("could not read midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("could not parse midi file: %w", err)
	}
	return res, nil
}
