// Package chime plays short synthesized cues, independent of the
// configured sound files: a ready tick at startup and a low double-beep
// when a listener dies.
package chime

var disabled bool

// Disable turns all cues into no-ops (tests, headless machines).
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Ready cue: high pitch, short
	readyFreq   = 1200
	readyVolume = 0.5
	readyDecay  = 60

	// Error cue: low pitch double-beep
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)
