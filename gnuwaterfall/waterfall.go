// Package gnuwaterfall ties the receiver, the strip buffer and the viewport
// into a live waterfall that advances once per tick.
package gnuwaterfall

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"github.com/chzchzchz/gnuwaterfall/radio"
	"github.com/chzchzchz/gnuwaterfall/viewport"
	"github.com/chzchzchz/gnuwaterfall/waterfall"
)

// Renderer draws strips and labels; the SDL window in cmd/gnuwaterfall is one.
type Renderer interface {
	waterfall.Allocator
	SetProjection(p viewport.Projection)
	DrawStrip(s waterfall.Strip) error
	// DrawLabel draws text centered on the screen pixel (x, y).
	DrawLabel(text string, x, y, size float64, c color.RGBA) error
	Clear() error
	Present()
}

var LabelColor = color.RGBA{255, 255, 255, 64}

// labelInset is how far in from each edge, as a fraction of the span, the
// frequency labels sit; labelAge is how many seconds below the newest strip.
const (
	labelInset = 0.15
	labelAge   = 5.0
)

var ErrAcquirerStopped = errors.New("acquirer stopped")

type Waterfall struct {
	cfg Config
	r   Renderer

	view    *viewport.Model
	buf     *waterfall.Buffer
	tuner   *radio.Tuner
	sweeper *radio.Sweeper

	acq    *Acquirer
	cancel context.CancelFunc
	donec  chan struct{}

	ticks   int
	skipped int
}

// New builds a waterfall sweeping [lower, upper] on dev. The waterfall does
// not own dev; the caller closes it after Close.
func New(cfg Config, dev radio.Device, r Renderer, lower, upper float64) (*Waterfall, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	view, err := viewport.New(lower, upper, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	tuner := radio.NewTuner(dev)
	tuner.SetSettle(time.Duration(cfg.Settle))
	est := radio.NewEstimator(tuner)
	est.Oversample, est.HideDC = cfg.Oversample, cfg.HideDC
	return &Waterfall{
		cfg:     cfg,
		r:       r,
		view:    view,
		buf:     waterfall.NewBuffer(r),
		tuner:   tuner,
		sweeper: radio.NewSweeper(est),
	}, nil
}

// Start launches background acquisition when the config asks for it.
func (w *Waterfall) Start(ctx context.Context) {
	if !w.cfg.Async || w.acq != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.donec = make(chan struct{})
	w.acq = NewAcquirer(w.sweeper, w.view.Bounds(), w.detail())
	go func() {
		defer close(w.donec)
		w.acq.Run(ctx)
	}()
	glog.Infof("acquiring in background")
}

// detail is the bin count a full sweep aims for: one per horizontal pixel.
func (w *Waterfall) detail() int {
	width, _ := w.view.Size()
	return width
}

// Tick acquires one sweep stamped now, covering [now-dt, now], and redraws.
// Receiver failures are logged and skip the tick; other errors are returned.
func (w *Waterfall) Tick(now, dt float64) error {
	w.ticks++
	s, err := w.acquire()
	if err != nil {
		if radio.IsAcquisitionError(err) {
			w.skipped++
			glog.Warningf("skipping tick %d: %v", w.ticks, err)
			return nil
		}
		return err
	}
	if s != nil {
		if _, err := w.buf.Append(now, dt, s); err != nil {
			return fmt.Errorf("tick %d: %w", w.ticks, err)
		}
		if glog.V(1) {
			lo, hi := s.MinMax()
			glog.Infof("tick %d at %.2fs: %d bins, %.1f..%.1f dB, %d strips", w.ticks, now, len(s), lo, hi, w.buf.Len())
		}
	}
	if err := w.draw(now); err != nil {
		return err
	}
	w.buf.Evict(now, w.cfg.History.Seconds())
	return nil
}

// acquire returns the next spectrum; nil without error means an async
// sweep has not finished yet.
func (w *Waterfall) acquire() (radio.Spectrum, error) {
	if w.acq == nil {
		b := w.view.Bounds()
		return w.sweeper.Sweep(b.Lower, b.Upper, w.detail())
	}
	select {
	case f, ok := <-w.acq.Frames():
		if !ok {
			return nil, ErrAcquirerStopped
		}
		if b := w.view.Bounds(); f.Err == nil && f.Range != b {
			glog.V(1).Infof("sweep of %v arrived after retarget to %v", f.Range, b)
		}
		return f.Spectrum, f.Err
	default:
		return nil, nil
	}
}

func (w *Waterfall) draw(now float64) error {
	b := w.view.Bounds()
	proj := w.view.Project(b.LowerMHz(), b.UpperMHz(), now-w.cfg.History.Seconds(), now)
	w.r.SetProjection(proj)
	if glog.V(1) {
		glog.Infof("view %.3f..%.3f MHz over %dx%d, distortion %.3g", b.LowerMHz(), b.UpperMHz(), proj.Width, proj.Height, proj.Distortion())
	}
	if err := w.r.Clear(); err != nil {
		return err
	}
	if err := w.buf.DrawAll(func(e waterfall.Entry) error { return w.r.DrawStrip(e.Strip) }); err != nil {
		return err
	}
	if err := w.drawLabels(b, now); err != nil {
		return err
	}
	w.r.Present()
	return nil
}

func (w *Waterfall) drawLabels(b radio.FrequencyRange, now float64) error {
	inset := (b.UpperMHz() - b.LowerMHz()) * labelInset
	labels := []struct {
		hz, x float64
	}{
		{b.Lower, b.LowerMHz() + inset},
		{b.Upper, b.UpperMHz() - inset},
	}
	for _, l := range labels {
		x, y := w.view.OverlayPosition(l.x, now-labelAge)
		if err := w.r.DrawLabel(FormatHz(l.hz), x, y, w.cfg.LabelSize, LabelColor); err != nil {
			return err
		}
	}
	return nil
}

// FormatHz renders a frequency with an SI prefix, e.g. "88.000MHz".
func FormatHz(hz float64) string {
	v, prefix := humanize.ComputeSI(hz)
	return fmt.Sprintf("%0.3f%sHz", v, prefix)
}

// Pan moves or zooms the view; the next sweep covers the new range.
func (w *Waterfall) Pan(d viewport.Direction) {
	w.view.Pan(d)
	b := w.view.Bounds()
	if w.acq != nil {
		w.acq.SetBounds(b)
	}
	glog.V(1).Infof("pan %v: %v", d, b)
}

func (w *Waterfall) Resize(width, height int) {
	w.view.Resize(width, height)
	if w.acq != nil {
		w.acq.SetDetail(w.detail())
	}
}

func (w *Waterfall) Bounds() radio.FrequencyRange { return w.view.Bounds() }

func (w *Waterfall) Buffer() *waterfall.Buffer { return w.buf }

func (w *Waterfall) Tuner() *radio.Tuner { return w.tuner }

// Skipped counts ticks lost to receiver failures.
func (w *Waterfall) Skipped() int { return w.skipped }

// Close stops background acquisition and releases every strip.
func (w *Waterfall) Close() {
	if w.cancel != nil {
		w.cancel()
		<-w.donec
	}
	w.buf.Close()
	glog.Infof("closed after %d ticks, %d skipped, %d retunes, %d strips released", w.ticks, w.skipped, w.tuner.Retunes(), w.buf.Released())
}
