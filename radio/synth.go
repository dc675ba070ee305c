package radio

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Carrier is a continuous tone at an absolute frequency.
type Carrier struct {
	Freq      float64 `yaml:"freq"`
	Amplitude float64 `yaml:"amplitude"`
}

// SynthSDR is a Device producing gaussian noise plus carriers, for demos and tests.
type SynthSDR struct {
	Carriers []Carrier
	Noise    float64

	mu     sync.Mutex
	center uint32
	rate   uint32
	n      uint64
	rng    *rand.Rand
}

func NewSynthSDR(seed uint64, noise float64, carriers ...Carrier) *SynthSDR {
	return &SynthSDR{
		Carriers: carriers,
		Noise:    noise,
		center:   100000000,
		rate:     2048000,
		rng:      rand.New(rand.NewPCG(seed, seed^0x5eed)),
	}
}

func (s *SynthSDR) SetCenterFreq(hz uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = hz
	return nil
}

func (s *SynthSDR) SetSampleRate(hz uint32) error {
	if hz == 0 {
		return ErrRateOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = hz
	return nil
}

func (s *SynthSDR) ReadSamples(n int) ([]complex64, error) {
	if !s.mu.TryLock() {
		return nil, newAcqError(ErrDeviceBusy, "read samples", nil)
	}
	defer s.mu.Unlock()
	samps := make([]complex64, n)
	fc, fs := float64(s.center), float64(s.rate)
	for i := range samps {
		t := float64(s.n+uint64(i)) / fs
		v := complex(s.rng.NormFloat64()*s.Noise, s.rng.NormFloat64()*s.Noise)
		for _, c := range s.Carriers {
			off := c.Freq - fc
			if math.Abs(off) >= fs/2 {
				continue
			}
			ph := 2 * math.Pi * off * t
			v += complex(c.Amplitude*math.Cos(ph), c.Amplitude*math.Sin(ph))
		}
		samps[i] = complex64(v)
	}
	s.n += uint64(n)
	return samps, nil
}

func (s *SynthSDR) Close() error { return nil }
