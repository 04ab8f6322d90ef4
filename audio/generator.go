package audio

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/audwanee/parameter"
	"github.com/lixenwraith/audwanee/vmath"
)

// RainGenerator streams lowpassed noise with sparse drip transients
// Density may be changed from any goroutine while streaming
type RainGenerator struct {
	density atomic.Uint64
	rng     *vmath.FastRand
	low     float64
	drip    float64
	dripHz  float64
}

// NewRainGenerator creates a rain bed, seed 0 uses the clock
func NewRainGenerator(seed uint64) *RainGenerator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RainGenerator{rng: vmath.NewFastRand(seed), dripHz: 900}
}

// SetDensity sets the bed level in [0,1]
func (g *RainGenerator) SetDensity(d float64) {
	g.density.Store(math.Float64bits(vmath.Clamp(d, 0, 1)))
}

// Density returns the current bed level
func (g *RainGenerator) Density() float64 {
	return math.Float64frombits(g.density.Load())
}

func (g *RainGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	d := g.Density()
	gain := parameter.AudioRainGain * d
	dripChance := parameter.AudioDripRate * d / float64(sampleRate)

	for i := range samples {
		white := g.rng.Float64()*2 - 1
		g.low += parameter.AudioRainCutoff * (white - g.low)

		if g.rng.Float64() < dripChance {
			g.drip = 0.6 + 0.4*g.rng.Float64()
		}
		g.drip *= parameter.AudioDripDecay
		tick := g.drip * white

		s := gain * (g.low*3 + 0.5*tick)
		// Slight decorrelation between channels widens the bed
		samples[i][0] = s
		samples[i][1] = gain * (g.low*3 - 0.5*tick)
	}
	return len(samples), true
}

func (g *RainGenerator) Err() error {
	return nil
}

// ChimeGenerator generates a decaying bell partial pair
type ChimeGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewChimeGenerator creates a chime at the given fundamental
func NewChimeGenerator(sr beep.SampleRate, freq float64) *ChimeGenerator {
	return &ChimeGenerator{sr: sr, freq: freq}
}

func (g *ChimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := math.Exp(-t*6) * math.Min(t/0.005, 1)
		s := 0.25 * env * (math.Sin(2*math.Pi*g.freq*t) + 0.4*math.Sin(2*math.Pi*g.freq*2.76*t))
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *ChimeGenerator) Err() error {
	return nil
}

// BuzzGenerator generates a low-pitch buzz sound
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates a buzz sound generator
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.3*math.Sin(2*math.Pi*g.freq*t) +
			0.15*math.Sin(2*math.Pi*g.freq*2*t) +
			0.075*math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.2

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}
