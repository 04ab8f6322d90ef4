package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Rain bed
const (
	// AudioRainFullDrops is the drop count at which the bed reaches full level
	AudioRainFullDrops = 300

	// AudioRainFloor keeps a narrow window audible
	AudioRainFloor = 0.2

	// AudioRainGain is the peak amplitude of the filtered noise
	AudioRainGain = 0.18

	// AudioRainCutoff is the one-pole lowpass coefficient, lower is darker
	AudioRainCutoff = 0.08

	// AudioDripRate is drip transients per second at full density
	AudioDripRate = 14.0

	// AudioDripDecay is the per-sample decay of a drip transient
	AudioDripDecay = 0.9975
)

// Result cues
const (
	ChimeDuration  = 600 * time.Millisecond
	ChimeFrequency = 880.0
	BuzzDuration   = 150 * time.Millisecond
	BuzzFrequency  = 120.0
)

// AudioDefaultVolume is the master level when none is configured
const AudioDefaultVolume = 0.4
