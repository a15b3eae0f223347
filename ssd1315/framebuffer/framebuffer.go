// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuffer implements the 128x64 one bit per pixel memory layout
// used by the SSD1315 controller.
//
// The memory is split in 8 pages, each covering an horizontal band of 8 pixels
// high. A page holds 128 bytes, one per column, and bit b of the byte at
// column x in page p is the pixel at (x, p*8+b). This is the same layout as
// periph's image1bit.VerticalLSB, so a Buffer can be streamed to the
// controller page by page without any conversion.
package framebuffer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Geometry of the panel.
const (
	Width      = 128
	Height     = 64
	PageHeight = 8
	Pages      = Height / PageHeight
	// Size is the number of bytes needed to hold a full frame.
	Size = Pages * Width
)

// ErrOutOfBounds is returned when a coordinate falls outside the 128x64 area.
var ErrOutOfBounds = errors.New("framebuffer: pixel out of bounds")

// Raw is the in-memory image of the controller's display RAM, indexed by page
// then column.
type Raw [Pages][Width]byte

// RawFromBytes reshapes a page-major stream of Size bytes, as accepted by
// periph display drivers' Write method, into a Raw.
func RawFromBytes(p []byte) (Raw, error) {
	var r Raw
	if len(p) != Size {
		return r, fmt.Errorf("framebuffer: invalid pixel stream length; expected %d bytes, got %d bytes", Size, len(p))
	}
	for page := range r {
		copy(r[page][:], p[page*Width:(page+1)*Width])
	}
	return r, nil
}

// Pixel is a single (coordinate, color) pair as produced by a rasterizer.
type Pixel struct {
	image.Point
	C image1bit.Bit
}

// Buffer is a 128x64 monochrome framebuffer. The zero value is a blank
// screen.
//
// Buffer implements draw.Image so it can be used as the destination of
// draw.Draw, font.Drawer or any other rasterizer.
type Buffer struct {
	pix Raw
}

// SetPixel turns the pixel at (x, y) on or off.
//
// Unlike Set, coordinates outside the panel are reported as an error wrapping
// ErrOutOfBounds and the buffer is left untouched.
func (b *Buffer) SetPixel(x, y int, on bool) error {
	if !inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	b.set(x, y, on)
	return nil
}

// Pixel returns the state of the pixel at (x, y).
func (b *Buffer) Pixel(x, y int) (bool, error) {
	if !inBounds(x, y) {
		return false, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return b.get(x, y), nil
}

// DrawPixels applies a sequence of pixels.
//
// Every pixel inside the panel is drawn even if some are not; the ones outside
// are counted and reported once as an error wrapping ErrOutOfBounds.
func (b *Buffer) DrawPixels(pixels []Pixel) error {
	clipped := 0
	var first image.Point
	for _, p := range pixels {
		if !inBounds(p.X, p.Y) {
			if clipped == 0 {
				first = p.Point
			}
			clipped++
			continue
		}
		b.set(p.X, p.Y, bool(p.C))
	}
	if clipped != 0 {
		return fmt.Errorf("%w: %d pixel(s) clipped, first at %v", ErrOutOfBounds, clipped, first)
	}
	return nil
}

// ReplaceFromRaw overwrites the whole buffer with raw.
func (b *Buffer) ReplaceFromRaw(raw *Raw) {
	b.pix = *raw
}

// Raw returns a copy of the buffer content.
func (b *Buffer) Raw() Raw {
	return b.pix
}

// Page returns the 128 bytes of page p. The slice aliases the buffer.
//
// p must be in [0, Pages). Like a slice index, any other value panics; it is
// a programming error, not a pixel coordinate to clip.
func (b *Buffer) Page(p int) []byte {
	return b.pix[p][:]
}

// Clear turns every pixel off.
func (b *Buffer) Clear() {
	b.pix = Raw{}
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image. Min is always {0, 0}.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return b.BitAt(x, y)
}

// BitAt is the typed version of At. Pixels outside the panel are Off.
func (b *Buffer) BitAt(x, y int) image1bit.Bit {
	if !inBounds(x, y) {
		return image1bit.Off
	}
	return image1bit.Bit(b.get(x, y))
}

// Set implements draw.Image. Pixels outside the panel are ignored.
func (b *Buffer) Set(x, y int, c color.Color) {
	if inBounds(x, y) {
		b.set(x, y, bool(image1bit.BitModel.Convert(c).(image1bit.Bit)))
	}
}

// SetBit is the typed version of Set.
func (b *Buffer) SetBit(x, y int, c image1bit.Bit) {
	if inBounds(x, y) {
		b.set(x, y, bool(c))
	}
}

func (b *Buffer) set(x, y int, on bool) {
	mask := byte(1) << uint(y%PageHeight)
	if on {
		b.pix[y/PageHeight][x] |= mask
	} else {
		b.pix[y/PageHeight][x] &^= mask
	}
}

func (b *Buffer) get(x, y int) bool {
	return b.pix[y/PageHeight][x]&(1<<uint(y%PageHeight)) != 0
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
