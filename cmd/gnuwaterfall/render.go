package main

import (
	"fmt"
	"image/color"

	"github.com/golang/glog"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/gnuwaterfall/viewport"
	"github.com/chzchzchz/gnuwaterfall/waterfall"
)

// sdlStrip is one waterfall row: a texel per bin, split over textures no
// wider than the renderer allows, drawn as one quad per bin so uneven bin
// spacing survives.
type sdlStrip struct {
	texs  []*sdl.Texture
	chunk int
	quads []waterfall.Quad
}

func (s *sdlStrip) Release() {
	for _, tex := range s.texs {
		tex.Destroy()
	}
}

// fallbackTextureWidth is used when the driver does not report a limit.
const fallbackTextureWidth = 2048

// chunkWidths splits n texels into consecutive textures of at most max
// texels each. Texel i lives in texture i/max at column i%max.
func chunkWidths(n, max int) []int {
	if max < 1 {
		max = n
	}
	var ws []int
	for n > 0 {
		w := min(n, max)
		ws = append(ws, w)
		n -= w
	}
	return ws
}

type labelKey struct {
	text string
	size float64
}

type labelTexture struct {
	tex  *sdl.Texture
	w, h int32
	used bool
}

type sdlRenderer struct {
	r        *sdl.Renderer
	proj     viewport.Projection
	maxWidth int

	li     *labelImage
	labels map[labelKey]*labelTexture

	verts []sdl.Vertex
	idx   []int32
}

func newSDLRenderer(r *sdl.Renderer) (*sdlRenderer, error) {
	info, err := r.GetInfo()
	if err != nil {
		return nil, err
	}
	maxWidth := int(info.MaxTextureWidth)
	if maxWidth < 1 {
		maxWidth = fallbackTextureWidth
	}
	glog.V(1).Infof("renderer %s, max texture width %d", info.Name, maxWidth)
	li, err := newLabelImage()
	if err != nil {
		return nil, err
	}
	return &sdlRenderer{r: r, maxWidth: maxWidth, li: li, labels: make(map[labelKey]*labelTexture)}, nil
}

func (sr *sdlRenderer) NewStrip(g waterfall.Geometry) (waterfall.Strip, error) {
	n := len(g.Quads)
	if n == 0 {
		return nil, waterfall.ErrEmptySpectrum
	}
	ss := &sdlStrip{chunk: sr.maxWidth, quads: g.Quads}
	off := 0
	for _, w := range chunkWidths(n, sr.maxWidth) {
		// ABGR8888 is R, G, B, A in memory on little endian hosts.
		tex, err := sr.r.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STATIC, int32(w), 1)
		if err != nil {
			ss.Release()
			return nil, fmt.Errorf("strip texture %d of width %d: %w", len(ss.texs), w, err)
		}
		ss.texs = append(ss.texs, tex)
		row := make([]byte, 4*w)
		for i, q := range g.Quads[off : off+w] {
			row[4*i], row[4*i+1], row[4*i+2], row[4*i+3] = q.Color.R, q.Color.G, q.Color.B, 0xff
		}
		if err := tex.Update(nil, row, 4*w); err != nil {
			ss.Release()
			return nil, err
		}
		off += w
	}
	return ss, nil
}

func (sr *sdlRenderer) SetProjection(p viewport.Projection) { sr.proj = p }

func (sr *sdlRenderer) DrawStrip(s waterfall.Strip) error {
	ss, ok := s.(*sdlStrip)
	if !ok {
		return fmt.Errorf("not an sdl strip: %T", s)
	}
	// Strips swept before a pan can lie entirely outside the view.
	xMin, xMax, _, _ := waterfall.Geometry{Quads: ss.quads}.Bounds()
	if xMax < sr.proj.Data.XMin || xMin > sr.proj.Data.XMax {
		return nil
	}
	off := 0
	for c, tex := range ss.texs {
		w := min(ss.chunk, len(ss.quads)-off)
		if err := sr.drawChunk(tex, ss.quads[off:off+w]); err != nil {
			return fmt.Errorf("strip texture %d: %w", c, err)
		}
		off += w
	}
	return nil
}

func (sr *sdlRenderer) drawChunk(tex *sdl.Texture, quads []waterfall.Quad) error {
	n := len(quads)
	sr.verts, sr.idx = sr.verts[:0], sr.idx[:0]
	white := sdl.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for i, q := range quads {
		x0, y0 := sr.proj.ToScreen(q.X0, q.Y1)
		x1, y1 := sr.proj.ToScreen(q.X1, q.Y0)
		if x1 < 0 || x0 > float64(sr.proj.Width) {
			continue
		}
		// Sample the middle of texel i so every corner gets the same color.
		tc := sdl.FPoint{X: (float32(i) + 0.5) / float32(n), Y: 0.5}
		base := int32(len(sr.verts))
		sr.verts = append(sr.verts,
			sdl.Vertex{Position: sdl.FPoint{X: float32(x0), Y: float32(y0)}, Color: white, TexCoord: tc},
			sdl.Vertex{Position: sdl.FPoint{X: float32(x1), Y: float32(y0)}, Color: white, TexCoord: tc},
			sdl.Vertex{Position: sdl.FPoint{X: float32(x1), Y: float32(y1)}, Color: white, TexCoord: tc},
			sdl.Vertex{Position: sdl.FPoint{X: float32(x0), Y: float32(y1)}, Color: white, TexCoord: tc},
		)
		sr.idx = append(sr.idx, base, base+1, base+2, base, base+2, base+3)
	}
	if len(sr.verts) == 0 {
		return nil
	}
	return sr.r.RenderGeometry(tex, sr.verts, sr.idx)
}

func (sr *sdlRenderer) DrawLabel(text string, x, y, size float64, c color.RGBA) error {
	lt, err := sr.label(text, size)
	if err != nil {
		return err
	}
	lt.used = true
	if err := lt.tex.SetColorMod(c.R, c.G, c.B); err != nil {
		return err
	}
	if err := lt.tex.SetAlphaMod(c.A); err != nil {
		return err
	}
	dst := &sdl.Rect{X: int32(x) - lt.w/2, Y: int32(y) - lt.h/2, W: lt.w, H: lt.h}
	return sr.r.Copy(lt.tex, nil, dst)
}

func (sr *sdlRenderer) label(text string, size float64) (*labelTexture, error) {
	k := labelKey{text, size}
	if lt := sr.labels[k]; lt != nil {
		return lt, nil
	}
	img, err := sr.li.render(text, size)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	tex, err := sr.r.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STATIC, int32(b.Dx()), int32(b.Dy()))
	if err != nil {
		return nil, err
	}
	if err := tex.Update(nil, img.Pix, img.Stride); err != nil {
		tex.Destroy()
		return nil, err
	}
	if err := tex.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		tex.Destroy()
		return nil, err
	}
	lt := &labelTexture{tex: tex, w: int32(b.Dx()), h: int32(b.Dy())}
	sr.labels[k] = lt
	return lt, nil
}

func (sr *sdlRenderer) Clear() error {
	if err := sr.r.SetDrawColor(0, 0, 0, 0xff); err != nil {
		return err
	}
	return sr.r.Clear()
}

// Present shows the frame and drops label textures it did not use.
func (sr *sdlRenderer) Present() {
	sr.r.Present()
	for k, lt := range sr.labels {
		if !lt.used {
			lt.tex.Destroy()
			delete(sr.labels, k)
			continue
		}
		lt.used = false
	}
}

func (sr *sdlRenderer) Destroy() {
	for k, lt := range sr.labels {
		lt.tex.Destroy()
		delete(sr.labels, k)
	}
}
