package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	n, peak := drain(newTone(440, sine, 100*time.Millisecond, 5*time.Millisecond, 20*time.Millisecond, rate))
	if n != rate.N(100*time.Millisecond) {
		t.Errorf("expected %d samples, got %d", rate.N(100*time.Millisecond), n)
	}
	if peak > 1 || peak == 0 {
		t.Errorf("peak out of range: %f", peak)
	}
}

func TestToneEnvelope(t *testing.T) {
	rate := beep.SampleRate(1000)
	tn := newTone(100, square, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)
	if g := tn.gain(); g != 0 {
		t.Errorf("expected silent start, got %f", g)
	}
	tn.pos = 50
	if g := tn.gain(); g != 1 {
		t.Errorf("expected full sustain, got %f", g)
	}
	tn.pos = 95
	if g := tn.gain(); g >= 1 || g <= 0 {
		t.Errorf("expected release gain in (0, 1), got %f", g)
	}
}

func TestEffects(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, e := range []Effect{Coin, Chime, Buzz} {
		s := Streamer(e, rate, 0.5)
		if s == nil {
			t.Fatalf("%s: expected a streamer", e)
		}
		n, _ := drain(s)
		if n == 0 {
			t.Errorf("%s: produced no samples", e)
		}
	}
	if Streamer(Effect(99), rate, 1) != nil {
		t.Error("unknown effect should have no streamer")
	}
}

func TestSilentPlayer(t *testing.T) {
	var nilPlayer *Player
	nilPlayer.Play(Coin)
	nilPlayer.Close()
	if nilPlayer.Active() {
		t.Error("nil player should be inactive")
	}

	p := New(false, nil)
	if p.Active() {
		t.Error("disabled player should be inactive")
	}
	p.Play(Buzz)
	p.Close()
}
