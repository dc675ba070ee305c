package main

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/gnuwaterfall/gnuwaterfall"
	"github.com/chzchzchz/gnuwaterfall/viewport"
)

type waterfallWindow struct {
	win *sdl.Window
	r   *sdl.Renderer
	sr  *sdlRenderer

	start time.Time
	last  float64
}

func newWaterfallWindow(title string, w, h int) (ww *waterfallWindow, err error) {
	win, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(w),
		int32(h),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			win.Destroy()
		}
	}()

	// Bins are flat shaded; never blend neighboring texels.
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	r, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()
	info, err := r.GetInfo()
	if err != nil {
		return nil, err
	}
	if (info.Flags & sdl.RENDERER_ACCELERATED) == 0 {
		glog.Warning("no hw acceleration")
	}

	sr, err := newSDLRenderer(r)
	if err != nil {
		return nil, err
	}
	return &waterfallWindow{win: win, r: r, sr: sr}, nil
}

func (ww *waterfallWindow) Close() {
	ww.sr.Destroy()
	ww.r.Destroy()
	ww.win.Destroy()
}

// outputSize is the drawable size, which differs from the window size on
// high dpi displays.
func (ww *waterfallWindow) outputSize() (int, int) {
	w, h, err := ww.r.GetOutputSize()
	if err != nil {
		glog.Warningf("output size: %v", err)
		ww32, wh32 := ww.win.GetSize()
		return int(ww32), int(wh32)
	}
	return int(w), int(h)
}

// Run ticks wf at interval until the window closes or Esc is pressed.
func (ww *waterfallWindow) Run(wf *gnuwaterfall.Waterfall, interval time.Duration) error {
	wf.Resize(ww.outputSize())
	ww.start = time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ww.processEvents(wf) {
		<-ticker.C
		now := time.Since(ww.start).Seconds()
		if now <= ww.last {
			continue
		}
		dt := now - ww.last
		if err := wf.Tick(now, dt); err != nil {
			return fmt.Errorf("tick at %.2fs: %w", now, err)
		}
		ww.last = now
		ww.win.SetTitle(fmt.Sprintf("gnuwaterfall %s", wf.Bounds()))
	}
	return nil
}

func (ww *waterfallWindow) handleEvent(wf *gnuwaterfall.Waterfall, event sdl.Event) bool {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.WindowEvent:
		if ev.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			wf.Resize(ww.outputSize())
		}
	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYDOWN {
			break
		}
		switch ev.Keysym.Sym {
		case sdl.K_ESCAPE:
			return false
		case sdl.K_LEFT:
			wf.Pan(viewport.Left)
		case sdl.K_RIGHT:
			wf.Pan(viewport.Right)
		case sdl.K_UP:
			wf.Pan(viewport.Up)
		case sdl.K_DOWN:
			wf.Pan(viewport.Down)
		}
	}
	return true
}

func (ww *waterfallWindow) processEvents(wf *gnuwaterfall.Waterfall) bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if !ww.handleEvent(wf, event) {
			return false
		}
	}
	return true
}
