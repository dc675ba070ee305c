package main

import (
	"fmt"
	"image"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const dpi = 72

// labelImage rasterizes text in white; the renderer tints it when drawing.
type labelImage struct {
	font *truetype.Font
	ctx  *freetype.Context
}

func newLabelImage() (*labelImage, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(f)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.White)
	return &labelImage{font: f, ctx: ctx}, nil
}

func (l *labelImage) render(text string, size float64) (*image.NRGBA, error) {
	face := truetype.NewFace(l.font, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull})
	defer face.Close()
	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty label %q", text)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	l.ctx.SetFontSize(size)
	l.ctx.SetClip(img.Bounds())
	l.ctx.SetDst(img)
	if _, err := l.ctx.DrawString(text, fixed.Point26_6{X: 0, Y: m.Ascent}); err != nil {
		return nil, fmt.Errorf("drawing label %q: %w", text, err)
	}
	return img, nil
}
