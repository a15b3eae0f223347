// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/GermanBionicSystems/oled/ssd1315/bus"
	"github.com/GermanBionicSystems/oled/ssd1315/framebuffer"
)

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use: a Flush interleaved with drawing would
// send a half updated frame.
type Dev struct {
	bus bus.Interface
	cfg Config

	// See page 25 of the datasheet for the GDDRAM pages structure. There is 8
	// pages, each covering an horizontal band of 8 pixels high (1 byte) for
	// 128 bytes.
	buffer framebuffer.Buffer
}

// New returns a Dev talking through b, with DefaultConfig and a blank
// framebuffer.
//
// No transmission happens until Init is called.
func New(b bus.Interface) *Dev {
	return &Dev{bus: b, cfg: DefaultConfig}
}

// NewI2C returns a Dev on an I²C bus at addr. Use 0 for bus.DefaultAddr.
func NewI2C(b i2c.Bus, addr uint16) *Dev {
	if addr == 0 {
		addr = bus.DefaultAddr
	}
	return New(bus.NewI2CCustom(b, addr))
}

// NewSPI returns a Dev on 4-wire SPI, dc being the data/command line.
func NewSPI(p spi.Port, dc gpio.PinOut) (*Dev, error) {
	s, err := bus.NewSPI(p, dc)
	if err != nil {
		return nil, err
	}
	return New(s), nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1315.Dev{%v}", d.bus)
}

// SetConfig replaces the configuration used by the next Init.
func (d *Dev) SetConfig(cfg Config) {
	d.cfg = cfg
}

// Config returns the configuration used by Init.
func (d *Dev) Config() Config {
	return d.cfg
}

// Init sends the initialization sequence built from the current Config.
//
// Each register write is its own transmission. On failure the remaining writes
// are not sent and a *BusError is returned.
func (d *Dev) Init() error {
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	return send(d.bus, "init", InitSequence(&d.cfg))
}

// Flush sends the framebuffer to the controller, page 0 to 7.
//
// For each page the write cursor is moved to column 0, then the 128 bytes
// of the page are sent as one data transmission. The framebuffer is kept
// as is, so drawing can continue on top of what is displayed.
//
// A failure aborts the remaining pages; the pages already sent stay on the
// screen.
func (d *Dev) Flush() error {
	return d.sendPages("flush", d.buffer.Page)
}

// ClearScreen blanks the display RAM without touching the framebuffer.
func (d *Dev) ClearScreen() error {
	var zero [framebuffer.Width]byte
	return d.sendPages("clear", func(int) []byte { return zero[:] })
}

func (d *Dev) sendPages(op string, page func(int) []byte) error {
	for p := 0; p < framebuffer.Pages; p++ {
		if err := send(d.bus, op, CursorSequence(byte(p), 0)); err != nil {
			return err
		}
		if err := d.bus.SendData(page(p)); err != nil {
			return &BusError{Op: op, Step: fmt.Sprintf("page %d data", p), Err: err}
		}
	}
	return nil
}

// SetPixel turns the pixel at (x, y) on or off in the framebuffer.
//
// Coordinates outside of 128x64 return an error wrapping
// framebuffer.ErrOutOfBounds.
func (d *Dev) SetPixel(x, y int, on bool) error {
	return d.buffer.SetPixel(x, y, on)
}

// DrawPixels draws a sequence of pixels in the framebuffer. See
// framebuffer.Buffer.DrawPixels.
func (d *Dev) DrawPixels(pixels []framebuffer.Pixel) error {
	return d.buffer.DrawPixels(pixels)
}

// DrawFromRaw replaces the whole framebuffer with raw.
func (d *Dev) DrawFromRaw(raw *framebuffer.Raw) {
	d.buffer.ReplaceFromRaw(raw)
}

// Buffer returns the framebuffer, to be used as a draw.Image.
func (d *Dev) Buffer() *framebuffer.Buffer {
	return &d.buffer
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
//
// src is drawn into the framebuffer, which is then flushed. It draws
// synchronously: once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if img, ok := src.(*framebuffer.Buffer); ok && r == d.Bounds() && sp == (image.Point{}) {
		// Full frame from another framebuffer: fast path!
		raw := img.Raw()
		d.buffer.ReplaceFromRaw(&raw)
	} else {
		draw.Src.Draw(&d.buffer, r, src, sp)
	}
	return d.Flush()
}

// Write replaces the framebuffer with pixels and flushes it.
//
// The format is unusual as each byte represent 8 vertical pixels at a time.
// The format is horizontal bands of 8 pixels high, 128 bytes each.
//
// This function accepts the content of image1bit.VerticalLSB.Pix.
func (d *Dev) Write(pixels []byte) (int, error) {
	raw, err := framebuffer.RawFromBytes(pixels)
	if err != nil {
		return 0, err
	}
	d.buffer.ReplaceFromRaw(&raw)
	if err := d.Flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Halt turns off the display. Init turns it back on.
func (d *Dev) Halt() error {
	return send(d.bus, "halt", []Command{DisplayOff()})
}

var _ display.Drawer = &Dev{}
