package gnuwaterfall

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

// Frame is one finished sweep, or the error that ended it.
type Frame struct {
	Spectrum radio.Spectrum
	Range    radio.FrequencyRange
	Err      error
}

// Acquirer sweeps in the background so a slow receiver does not stall
// drawing. One sweep is in flight at a time and at most one finished frame
// waits to be consumed.
type Acquirer struct {
	sw     *radio.Sweeper
	framec chan Frame

	mu     sync.Mutex
	bounds radio.FrequencyRange
	detail int
}

func NewAcquirer(sw *radio.Sweeper, bounds radio.FrequencyRange, detail int) *Acquirer {
	return &Acquirer{
		sw:     sw,
		framec: make(chan Frame, 1),
		bounds: bounds,
		detail: detail,
	}
}

// SetBounds changes the range of the next sweep to start.
func (a *Acquirer) SetBounds(fr radio.FrequencyRange) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bounds = fr
}

func (a *Acquirer) SetDetail(detail int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detail = detail
}

func (a *Acquirer) request() (radio.FrequencyRange, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bounds, a.detail
}

// Frames is closed once Run returns.
func (a *Acquirer) Frames() <-chan Frame { return a.framec }

// Run sweeps until ctx is canceled.
func (a *Acquirer) Run(ctx context.Context) {
	defer close(a.framec)
	for ctx.Err() == nil {
		fr, detail := a.request()
		s, err := a.sw.Sweep(fr.Lower, fr.Upper, detail)
		if err != nil && !radio.IsAcquisitionError(err) {
			glog.Errorf("sweep %v: %v", fr, err)
		}
		select {
		case a.framec <- Frame{Spectrum: s, Range: fr, Err: err}:
		case <-ctx.Done():
			return
		}
	}
}
