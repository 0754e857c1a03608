// Package pitch converts between MIDI note numbers and LilyPond absolute
// pitch notation, and compares pitches at class level (octave ignored).
package pitch

import "strings"

var noteNames = []string{"c", "cis", "d", "dis", "e", "f", "fis", "g", "gis", "a", "ais", "b"}

// FromMidi renders a MIDI note number as LilyPond notation. Octave marks
// count from octave 4, so 60 -> "c", 72 -> "c'", 48 -> "c,".
func FromMidi(note uint8) string {
	name := noteNames[int(note)%12]
	marks := int(note)/12 - 1 - 4
	if marks > 0 {
		return name + strings.Repeat("'", marks)
	}
	return name + strings.Repeat(",", -marks)
}

// Class strips octave marks, leaving the pitch class key ("cis'" -> "cis").
func Class(p string) string {
	return strings.TrimRight(p, "',")
}

// SameClass reports whether two pitches share a pitch class. Octave
// differences are tolerated since rendering and timing export may normalize
// octaves differently.
func SameClass(a, b string) bool {
	return Class(a) == Class(b)
}
