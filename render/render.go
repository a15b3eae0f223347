// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package render rasterizes text and pictures into a 1 bit draw.Image, like
// the framebuffer of a ssd1315.Dev.
//
// Nothing here is specific to the controller; the functions only rely on
// draw.Image and the image1bit color model.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// DefaultLevel is the luminance from which a pixel is lit.
const DefaultLevel = 0x80

var (
	regularOnce sync.Once
	regular     *truetype.Font
	regularErr  error
)

// goRegular returns a Go Regular face of size points.
func goRegular(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return truetype.NewFace(regular, &truetype.Options{Size: size}), nil
}

// Text draws s over dst with the Go Regular font at size points, starting at
// the top left corner. Lines are wrapped at the width of dst.
//
// Only the lit pixels of the glyphs are drawn; the rest of dst is kept.
func Text(dst draw.Image, s string, size float64) error {
	face, err := goRegular(size)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(face)
	dc.DrawStringWrapped(s, 0, 0, 0, 0, float64(b.Dx()), 1, gg.AlignLeft)
	overlay(dst, b, dc.Image())
	return nil
}

// Label draws s over dst with the 7x13 bitmap font, the top left corner of
// the first glyph at (x, y). It returns the x coordinate following the last
// glyph.
//
// The bitmap font stays crisp at 1 bit per pixel, which suits small labels
// better than Text.
func Label(dst draw.Image, x, y int, s string) int {
	f := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(image1bit.On),
		Face: f,
		Dot:  fixed.P(x, y+f.Ascent),
	}
	d.DrawString(s)
	return d.Dot.X.Round()
}

// PictureOpts represents the options available for Picture.
type PictureOpts struct {
	// Dither uses Floyd-Steinberg error diffusion instead of a threshold,
	// which renders photos better.
	Dither bool
	// Level is the threshold luminance. Defaults to DefaultLevel.
	Level uint8

	_ struct{}
}

// Picture scales src to fit dst keeping the aspect ratio, converts it to
// grayscale and draws it centered. The area of dst around the picture is
// turned off. A nil opts uses the defaults.
func Picture(dst draw.Image, src image.Image, opts *PictureOpts) {
	if opts == nil {
		opts = &PictureOpts{}
	}
	b := dst.Bounds()
	fitted := imaging.Grayscale(imaging.Fit(src, b.Dx(), b.Dy(), imaging.Lanczos))
	draw.Draw(dst, b, image.NewUniform(image1bit.Off), image.Point{}, draw.Src)

	r := fitted.Bounds()
	r = r.Add(b.Min.Add(image.Pt((b.Dx()-r.Dx())/2, (b.Dy()-r.Dy())/2)).Sub(r.Min))
	if opts.Dither {
		draw.FloydSteinberg.Draw(dst, r, fitted, fitted.Bounds().Min)
		return
	}
	level := opts.Level
	if level == 0 {
		level = DefaultLevel
	}
	Threshold(dst, r, fitted, fitted.Bounds().Min, level)
}

// Threshold draws src into the rectangle r of dst, lighting the pixels whose
// luminance is at least level and turning off the others.
func Threshold(dst draw.Image, r image.Rectangle, src image.Image, sp image.Point, level uint8) {
	d := sp.Sub(r.Min)
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x+d.X, y+d.Y)).(color.Gray)
			dst.Set(x, y, image1bit.Bit(g.Y >= level))
		}
	}
}

// overlay lights the pixels of dst where src is lit; src is aligned on r.Min.
func overlay(dst draw.Image, r image.Rectangle, src image.Image) {
	sb := src.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(sb.Min.X+x-r.Min.X, sb.Min.Y+y-r.Min.Y)).(color.Gray)
			if g.Y >= DefaultLevel {
				dst.Set(x, y, image1bit.On)
			}
		}
	}
}
