package radio

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SettleDelay is how long the tuner PLL needs before samples are valid.
const SettleDelay = 40 * time.Millisecond

const flushSamples = 1 << 11

// TunerState is the last configuration written to the device.
type TunerState struct {
	Center float64
	Rate   float64
}

// Tuner wraps a Device and only touches the hardware when the requested
// configuration differs from what was last applied.
type Tuner struct {
	dev Device

	mu        sync.Mutex
	state     TunerState
	hasCenter bool
	hasRate   bool
	retunes   int

	settle time.Duration
	sleep  func(time.Duration)
}

func NewTuner(dev Device) *Tuner {
	return &Tuner{dev: dev, settle: SettleDelay, sleep: time.Sleep}
}

// SetSettle overrides SettleDelay, e.g. for receivers without a PLL.
func (t *Tuner) SetSettle(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settle = d
}

func (t *Tuner) State() TunerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Retunes counts how many times the hardware was reconfigured.
func (t *Tuner) Retunes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retunes
}

func (t *Tuner) Tune(center, bandwidth float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tune(center, bandwidth)
}

func (t *Tuner) tune(center, rate float64) error {
	centerChanged := !t.hasCenter || center != t.state.Center
	rateChanged := !t.hasRate || rate != t.state.Rate
	if !centerChanged && !rateChanged {
		return nil
	}
	if centerChanged {
		if err := t.dev.SetCenterFreq(uint32(math.Round(center))); err != nil {
			return fmt.Errorf("set center %0.0fHz: %w", center, err)
		}
		t.state.Center, t.hasCenter = center, true
	}
	if rateChanged {
		if err := t.dev.SetSampleRate(uint32(math.Round(rate))); err != nil {
			return fmt.Errorf("set rate %0.0fHz: %w", rate, err)
		}
		t.state.Rate, t.hasRate = rate, true
	}
	t.retunes++
	t.sleep(t.settle)
	// Discard whatever was buffered under the old tuning.
	if _, err := t.read(flushSamples); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Read returns exactly count samples at the current tuning.
func (t *Tuner) Read(count int) ([]complex64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read(count)
}

// Acquire tunes and reads without letting another caller retune in between.
func (t *Tuner) Acquire(center, bandwidth float64, count int) ([]complex64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.tune(center, bandwidth); err != nil {
		return nil, err
	}
	return t.read(count)
}

func (t *Tuner) read(count int) ([]complex64, error) {
	samps, err := t.dev.ReadSamples(count)
	if err != nil {
		if IsAcquisitionError(err) {
			return nil, err
		}
		return nil, newAcqError(ErrDeviceUnavailable, "read samples", err)
	}
	if len(samps) != count {
		return nil, newAcqError(ErrShortRead, "read samples",
			fmt.Errorf("got %d of %d samples", len(samps), count))
	}
	return samps, nil
}
