package radio

import (
	"fmt"
	"math"
	"sync"

	"github.com/runningwild/go-fftw/fftw32"
)

// MinDetail is the smallest number of bins a segment is estimated with.
const MinDetail = 8

// DefaultOversample is how many FFT blocks are averaged per estimate.
const DefaultOversample = 8

// floorDB keeps empty bins finite after the log.
const floorDB = -200.0

// Bin is one point of a power spectrum.
type Bin struct {
	Freq  float64 // Hz
	Power float64 // dB
}

// Spectrum is a power curve sorted by ascending frequency.
type Spectrum []Bin

// MinMax returns the weakest and strongest bin powers.
func (s Spectrum) MinMax() (lo, hi float64) {
	if len(s) == 0 {
		return 0, 0
	}
	lo, hi = s[0].Power, s[0].Power
	for _, b := range s[1:] {
		lo, hi = math.Min(lo, b.Power), math.Max(hi, b.Power)
	}
	return lo, hi
}

// SpectrumEstimator turns one band-limited acquisition into a Spectrum.
type SpectrumEstimator interface {
	Estimate(center, bandwidth float64, detail int) (Spectrum, error)
}

// Detail rounds a requested bin count up to the FFT size actually used.
func Detail(requested int) int {
	d := MinDetail
	for d < requested {
		d <<= 1
	}
	return d
}

// Estimator computes averaged, windowed periodograms from tuner samples.
type Estimator struct {
	tuner *Tuner

	Oversample int
	// HideDC replaces the center bin, where the receiver's DC spike lands,
	// with the mean of its neighbors.
	HideDC bool

	mu      sync.Mutex
	windows map[int][]float32
}

func NewEstimator(t *Tuner) *Estimator {
	return &Estimator{
		tuner:      t,
		Oversample: DefaultOversample,
		windows:    make(map[int][]float32),
	}
}

// Estimate tunes to center with the given bandwidth as the sample rate and
// returns Detail(requested) bins covering [center-bw/2, center+bw/2).
func (e *Estimator) Estimate(center, bandwidth float64, requested int) (Spectrum, error) {
	if bandwidth <= 0 || bandwidth > MaxBandwidth*(1+1e-9) {
		panic(fmt.Sprintf("bandwidth %gHz outside (0, %g]", bandwidth, MaxBandwidth))
	}
	detail := Detail(requested)
	oversample := e.Oversample
	if oversample < 1 {
		oversample = 1
	}
	samps, err := e.tuner.Acquire(center, bandwidth, oversample*detail)
	if err != nil {
		return nil, err
	}
	psd := e.periodogram(samps, detail, bandwidth)

	binHz := bandwidth / float64(detail)
	ret := make(Spectrum, detail)
	for i := range ret {
		db := floorDB
		if psd[i] > 0 {
			db = math.Max(10*math.Log10(psd[i]), floorDB)
		}
		ret[i] = Bin{
			Freq:  center + float64(i-detail/2)*binHz,
			Power: db,
		}
	}
	return ret, nil
}

// periodogram averages |FFT|^2 over consecutive blocks, scaled as a density
// per MHz, and orders the result so the lowest frequency comes first.
func (e *Estimator) periodogram(samps []complex64, bins int, rate float64) []float64 {
	win := e.window(bins)
	winPower := 0.0
	for _, w := range win {
		winPower += float64(w) * float64(w)
	}

	acc := make([]float64, bins)
	blocks := len(samps) / bins
	arr := &fftw32.Array{}
	block := make([]complex64, bins)
	for n := 0; n < blocks; n++ {
		for i, v := range samps[n*bins : (n+1)*bins] {
			block[i] = v * complex(win[i], 0)
		}
		arr.Elems = block
		for i, v := range fftw32.FFT(arr).Elems {
			idx := i + bins/2
			if i >= bins/2 {
				idx = i - bins/2
			}
			re, im := float64(real(v)), float64(imag(v))
			acc[idx] += re*re + im*im
		}
	}

	scale := 1.0 / (float64(blocks) * (rate / 1e6) * winPower)
	for i := range acc {
		acc[i] *= scale
	}
	if e.HideDC {
		acc[bins/2] = (acc[bins/2-1] + acc[bins/2+1]) / 2.0
	}
	return acc
}

// window returns a cached Hann window of n points.
func (e *Estimator) window(n int) []float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if w, ok := e.windows[n]; ok {
		return w
	}
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	e.windows[n] = w
	return w
}
