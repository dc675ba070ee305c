package viewport

// Rect is a data-space rectangle.
type Rect struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (r Rect) Width() float64  { return r.XMax - r.XMin }
func (r Rect) Height() float64 { return r.YMax - r.YMin }

// Projection is an orthographic mapping of Data onto a Width x Height
// display, going through normalized device coordinates on the way.
type Projection struct {
	Data          Rect
	Width, Height int
}

func (p Projection) Valid() bool {
	return p.Data.Width() > 0 && p.Data.Height() > 0 && p.Width > 0 && p.Height > 0
}

// ToNDC maps data space to [-1, 1] on both axes, y pointing up.
func (p Projection) ToNDC(x, y float64) (float64, float64) {
	if !p.Valid() {
		return 0, 0
	}
	nx := 2*(x-p.Data.XMin)/p.Data.Width() - 1
	ny := 2*(y-p.Data.YMin)/p.Data.Height() - 1
	return nx, ny
}

// NDCToScreen maps normalized coordinates to pixels, y pointing down.
func (p Projection) NDCToScreen(nx, ny float64) (float64, float64) {
	return (nx + 1) / 2 * float64(p.Width), (1 - ny) / 2 * float64(p.Height)
}

func (p Projection) ToScreen(x, y float64) (float64, float64) {
	return p.NDCToScreen(p.ToNDC(x, y))
}

// Distortion is how much taller a data unit is drawn than it is wide,
// relative to a square pixel.
func (p Projection) Distortion() float64 {
	if !p.Valid() {
		return 1
	}
	return (p.Data.Height() / float64(p.Height)) / (p.Data.Width() / float64(p.Width))
}
