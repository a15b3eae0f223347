// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts represents the options available for a Terminal.
type TerminalOpts struct {
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Plain prints '#' and ' ' instead of ANSI colored blocks, for outputs
	// which are not a terminal.
	Plain bool
	// Lit is the color of a lit pixel. Defaults to a pale blue.
	Lit color.NRGBA

	_ struct{}
}

// Terminal prints a Panel to a console.
type Terminal struct {
	w       io.Writer
	plain   bool
	palette ansi256.Palette
	lit     color.NRGBA

	buf bytes.Buffer
}

// NewTerminal returns a Terminal printing to w, or to stdout when w is nil.
// A nil opts uses the defaults.
func NewTerminal(w io.Writer, opts *TerminalOpts) *Terminal {
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	if opts == nil {
		opts = &TerminalOpts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	lit := opts.Lit
	if lit == (color.NRGBA{}) {
		lit = color.NRGBA{0x80, 0xD0, 0xFF, 0xFF}
	}
	return &Terminal{w: w, plain: opts.Plain, palette: *p, lit: lit}
}

func (t *Terminal) String() string {
	return "oledsim.Terminal"
}

// Render prints the glass of p, one line per row.
func (t *Terminal) Render(p *Panel) error {
	img := p.Image()
	dark := color.NRGBA{A: 0xFF}
	b := img.Bounds()
	// This code is designed to minimize the amount of memory allocated per call.
	t.buf.Reset()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if !t.plain {
			_, _ = t.buf.WriteString("\033[0m")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			on := img.GrayAt(x, y).Y != 0
			switch {
			case t.plain && on:
				_ = t.buf.WriteByte('#')
			case t.plain:
				_ = t.buf.WriteByte(' ')
			case on:
				_, _ = io.WriteString(&t.buf, t.palette.Block(t.lit))
			default:
				_, _ = io.WriteString(&t.buf, t.palette.Block(dark))
			}
		}
		if !t.plain {
			_, _ = t.buf.WriteString("\033[0m")
		}
		_ = t.buf.WriteByte('\n')
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}
