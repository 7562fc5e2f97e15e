package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const sampleRate = beep.SampleRate(44100)

// Player mixes cues onto the speaker. A nil or silent Player drops every cue.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	active bool
}

// New opens the speaker when enabled. Failure to open it is logged and yields a silent
// player; sound is never required.
func New(enabled bool, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Player{mixer: &beep.Mixer{}, volume: 0.6}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		logger.Info("audio unavailable, running silent", zap.Error(err))
		return p
	}
	speaker.Play(p.mixer)
	p.active = true
	return p
}

// Active reports whether cues reach a device.
func (p *Player) Active() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Player) Play(e Effect) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	s := Streamer(e, sampleRate, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.active = false
}
