package view

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeSampleRate = beep.SampleRate(44100)
	chimeFreq       = 660
	chimeLength     = 60 * time.Millisecond
)

// Chime plays a short tone whenever a new cave is shown.
type Chime struct {
	sr beep.SampleRate
}

// NewChime initializes the speaker. Callers treat an error as "run silently".
func NewChime() (*Chime, error) {
	if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Chime{sr: chimeSampleRate}, nil
}

// Play queues the tone. A nil Chime is silent.
func (c *Chime) Play() {
	if c == nil {
		return
	}
	s, err := tone(c.sr, chimeFreq, chimeLength)
	if err != nil {
		return
	}
	speaker.Play(s)
}

func tone(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sr.N(d), sine), nil
}
