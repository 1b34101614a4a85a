// Package cue plays short synthesized tones for macro state changes.
package cue

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cue identifies a notification sound.
type Cue int

const (
	Enabled Cue = iota
	Disabled
	FocusLost
)

func (c Cue) String() string {
	switch c {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	case FocusLost:
		return "focus-lost"
	}
	return "unknown"
}

const volume = 0.25

var format = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// tones lists the notes of each cue, played back to back.
var tones = map[Cue][]note{
	Enabled:   {{660, 60 * time.Millisecond}, {880, 90 * time.Millisecond}},
	Disabled:  {{880, 60 * time.Millisecond}, {440, 90 * time.Millisecond}},
	FocusLost: {{330, 140 * time.Millisecond}},
}

type note struct {
	freq float64
	dur  time.Duration
}

// Player plays cues on the default audio device.
type Player struct {
	enabled func() bool
	logger  *slog.Logger

	mu      sync.Mutex
	buffers map[Cue]*beep.Buffer
}

// NewPlayer initializes the speaker and renders every cue. When no audio
// device is available the player stays silent. enabled is consulted on every
// Play so cues follow the live configuration.
func NewPlayer(logger *slog.Logger, enabled func() bool) *Player {
	p := &Player{enabled: enabled, logger: logger.With("component", "cue")}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		p.logger.Warn("audio disabled: failed to initialize speaker", "error", err)
		return p
	}
	p.buffers = render()
	return p
}

func render() map[Cue]*beep.Buffer {
	out := make(map[Cue]*beep.Buffer, len(tones))
	for c, notes := range tones {
		buf := beep.NewBuffer(format)
		for _, n := range notes {
			buf.Append(beep.Take(format.SampleRate.N(n.dur), tone(n.freq, format.SampleRate)))
		}
		out[c] = buf
	}
	return out
}

// tone is an endless sine wave.
func tone(freq float64, sr beep.SampleRate) beep.Streamer {
	step := 2 * math.Pi * freq / float64(sr)
	var phase float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := volume * math.Sin(phase)
			samples[i][0], samples[i][1] = v, v
			phase += step
			if phase > 2*math.Pi {
				phase -= 2 * math.Pi
			}
		}
		return len(samples), true
	})
}

// Play starts c without waiting for it to finish.
func (p *Player) Play(c Cue) {
	if p == nil || (p.enabled != nil && !p.enabled()) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.buffers[c]
	if !ok {
		return
	}
	speaker.Play(b.Streamer(0, b.Len()))
}
