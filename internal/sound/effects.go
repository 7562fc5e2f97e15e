// Package sound plays short UI cues. Without an audio device every call is a no-op.
package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Effect names a cue.
type Effect int

const (
	Coin  Effect = iota // swap, key trade
	Chime               // deploy, connect
	Buzz                // rejected action
)

func (e Effect) String() string {
	switch e {
	case Coin:
		return "coin"
	case Chime:
		return "chime"
	case Buzz:
		return "buzz"
	}
	return "unknown"
}

type wave int

const (
	sine wave = iota
	square
	saw
)

// tone is a fixed-frequency oscillator with a linear attack and release.
type tone struct {
	freq    float64
	wave    wave
	rate    beep.SampleRate
	total   int
	attack  int
	release int
	pos     int
	phase   float64
}

func newTone(freq float64, w wave, d, attack, release time.Duration, rate beep.SampleRate) *tone {
	return &tone{
		freq:    freq,
		wave:    w,
		rate:    rate,
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		var v float64
		switch t.wave {
		case sine:
			v = math.Sin(2 * math.Pi * t.phase)
		case square:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case saw:
			v = 2 * (t.phase - 0.5)
		}
		v *= t.gain()
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) gain() float64 {
	if t.attack > 0 && t.pos < t.attack {
		return float64(t.pos) / float64(t.attack)
	}
	if left := t.total - t.pos; t.release > 0 && left < t.release {
		return float64(left) / float64(t.release)
	}
	return 1
}

func (t *tone) Err() error { return nil }

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// Streamer builds a fresh streamer for e at the given volume in [0, 1].
func Streamer(e Effect, rate beep.SampleRate, vol float64) beep.Streamer {
	switch e {
	case Coin:
		// B5 then E6
		return volume(beep.Seq(
			newTone(987.77, square, 80*time.Millisecond, 2*time.Millisecond, 30*time.Millisecond, rate),
			newTone(1318.51, square, 220*time.Millisecond, 2*time.Millisecond, 180*time.Millisecond, rate),
		), vol*0.4)
	case Chime:
		return volume(beep.Mix(
			volume(newTone(880, sine, 400*time.Millisecond, 5*time.Millisecond, 380*time.Millisecond, rate), 0.7),
			volume(newTone(1760, sine, 400*time.Millisecond, 5*time.Millisecond, 200*time.Millisecond, rate), 0.3),
		), vol)
	case Buzz:
		return volume(newTone(110, saw, 150*time.Millisecond, 5*time.Millisecond, 60*time.Millisecond, rate), vol*0.5)
	}
	return nil
}
