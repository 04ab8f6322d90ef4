package audio

import (
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/audwanee/parameter"
	"github.com/lixenwraith/audwanee/vmath"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager owns the speaker and the ambience mix
// Every method is a no-op until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	rain        *RainGenerator
	rainCtrl    *beep.Ctrl
	volume      float64
	muted       bool
	initialized bool
}

// NewSoundManager creates a sound manager at the given master volume
func NewSoundManager(volume float64) *SoundManager {
	mixer := &beep.Mixer{}
	sm := &SoundManager{
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
		rain:   NewRainGenerator(0),
	}
	sm.applyVolume(volume)
	return sm
}

// Initialize opens the speaker
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration))
	if err != nil {
		return err
	}

	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Cleanup silences every stream
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.rainCtrl != nil {
		sm.rainCtrl.Paused = true
		sm.rainCtrl = nil
	}
	sm.mixer.Clear()
	speaker.Unlock()

	sm.initialized = false
}

// IsInitialized reports whether the speaker is open
func (sm *SoundManager) IsInitialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// StartRain begins the looping rain bed, repeated calls keep one bed
func (sm *SoundManager) StartRain() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if sm.rainCtrl != nil {
		sm.rainCtrl.Paused = false
		return
	}
	sm.rainCtrl = &beep.Ctrl{Streamer: sm.rain}
	sm.mixer.Add(sm.rainCtrl)
}

// StopRain pauses the rain bed
func (sm *SoundManager) StopRain() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.rainCtrl == nil {
		return
	}
	speaker.Lock()
	sm.rainCtrl.Paused = true
	speaker.Unlock()
}

// SetDropCount scales the rain bed by the number of live drops
func (sm *SoundManager) SetDropCount(n int) {
	sm.rain.SetDensity(DensityFor(n))
}

// PlayChime plays the completion cue
func (sm *SoundManager) PlayChime() {
	sm.play(beep.Take(sampleRate.N(parameter.ChimeDuration), NewChimeGenerator(sampleRate, parameter.ChimeFrequency)))
}

// PlayBuzz plays the failure cue
func (sm *SoundManager) PlayBuzz() {
	sm.play(beep.Take(sampleRate.N(parameter.BuzzDuration), NewBuzzGenerator(sampleRate, parameter.BuzzFrequency)))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// ToggleMute flips output and returns the new muted state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	if sm.initialized {
		speaker.Lock()
		sm.master.Silent = sm.muted || sm.volume <= 0
		speaker.Unlock()
	} else {
		sm.master.Silent = sm.muted || sm.volume <= 0
	}
	return sm.muted
}

// IsMuted reports the mute state
func (sm *SoundManager) IsMuted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// SetVolume sets the linear master level in [0,1]
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	sm.applyVolume(v)
}

// applyVolume converts linear level to the base-2 exponent effects.Volume expects
func (sm *SoundManager) applyVolume(v float64) {
	v = vmath.Clamp(v, 0, 1)
	sm.volume = v
	sm.master.Silent = sm.muted || v <= 0
	if v > 0 {
		sm.master.Volume = math.Log2(v)
	}
}

// DensityFor maps a live drop count to bed level in [AudioRainFloor,1]
func DensityFor(drops int) float64 {
	if drops <= 0 {
		return 0
	}
	d := float64(drops) / parameter.AudioRainFullDrops
	return vmath.Clamp(d, parameter.AudioRainFloor, 1)
}
