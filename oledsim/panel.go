// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oledsim is a software model of a SSD1315 controller and its 128x64
// panel.
//
// A Panel is a bus.Interface: give it to ssd1315.New in place of a real
// transport and it decodes the command stream, keeps the display RAM and
// the register state, and shows what the glass would show. It is meant for
// developing display output on a host machine and for testing the driver
// end to end.
//
// The result can be printed to a terminal with ANSI colors or served over
// HTTP as PNG or JPEG images.
package oledsim

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/GermanBionicSystems/oled/ssd1315/bus"
	"github.com/GermanBionicSystems/oled/ssd1315/framebuffer"
)

// ErrUnsupported is returned for an opcode the model does not implement.
var ErrUnsupported = errors.New("oledsim: unsupported command")

// State is the register state of the controller.
type State struct {
	// On is false while the panel sleeps (0xAE).
	On bool
	// EntireOn lights every pixel regardless of the display RAM (0xA5).
	EntireOn bool
	// Inverse lights the pixels whose bit is 0 (0xA7).
	Inverse bool

	Contrast       byte
	ChargePump     byte
	ClockDivide    byte
	MultiplexRatio byte
	DisplayOffset  byte
	StartLine      byte
	ComPins        byte
	Precharge      byte
	VComH          byte

	// SegmentRemap maps column 127 to SEG0 (0xA1).
	SegmentRemap bool
	// ComScanRemapped scans from COM[N-1] to COM0 (0xC8).
	ComScanRemapped bool

	// Write cursor, in page addressing mode.
	Page   byte
	Column byte
}

// ResetState is the state after power on.
var ResetState = State{
	Contrast:       0x7F,
	ChargePump:     0x10,
	ClockDivide:    0x80,
	MultiplexRatio: 0x3F,
	ComPins:        0x12,
	Precharge:      0x22,
	VComH:          0x20,
}

// Panel emulates the controller behind a bus.
//
// It is safe for concurrent use.
type Panel struct {
	mu    sync.Mutex
	state State
	ram   framebuffer.Raw

	// Opcode of a two bytes command waiting for its operand. The operand may
	// come in the next transmission.
	pending byte
	waiting bool

	clients map[*client]struct{}
}

// New returns a Panel in its power on state, with a blank display RAM.
func New() *Panel {
	return &Panel{state: ResetState, clients: map[*client]struct{}{}}
}

func (p *Panel) String() string {
	return "oledsim.Panel"
}

// Halt implements conn.Resource. It terminates the HTTP streams
// asynchronously; the panel stays usable.
func (p *Panel) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for c := range p.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

// SendCommands implements bus.Interface.
//
// Decoding stops at the first unsupported opcode; the commands before it are
// applied.
func (p *Panel) SendCommands(b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.changedLocked()
	for _, v := range b {
		if p.waiting {
			p.waiting = false
			p.operandLocked(p.pending, v)
			continue
		}
		if err := p.opcodeLocked(v); err != nil {
			return err
		}
	}
	return nil
}

// SendData implements bus.Interface.
//
// Bytes are written at the cursor. The column auto-increments and wraps to 0
// at the end of the page, which stays the same.
func (p *Panel) SendData(b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &p.state
	for _, v := range b {
		p.ram[s.Page][s.Column] = v
		s.Column = (s.Column + 1) % framebuffer.Width
	}
	p.changedLocked()
	return nil
}

func (p *Panel) opcodeLocked(op byte) error {
	s := &p.state
	switch {
	case op <= 0x0F:
		s.Column = s.Column&0x70 | op
	case op <= 0x1F:
		s.Column = (s.Column&0x0F | (op&0x0F)<<4) % framebuffer.Width
	case op >= 0x40 && op <= 0x7F:
		s.StartLine = op & 0x3F
	case op == 0xA0 || op == 0xA1:
		s.SegmentRemap = op == 0xA1
	case op == 0xA4 || op == 0xA5:
		s.EntireOn = op == 0xA5
	case op == 0xA6 || op == 0xA7:
		s.Inverse = op == 0xA7
	case op == 0xAE || op == 0xAF:
		s.On = op == 0xAF
	case op >= 0xB0 && op <= 0xB7:
		s.Page = op & 0x07
	case op >= 0xC0 && op <= 0xCF:
		s.ComScanRemapped = op&0x08 != 0
	case op == 0xE3:
		// NOP
	case op == 0x81, op == 0x8D, op == 0xA8, op == 0xD3, op == 0xD5, op == 0xD9, op == 0xDA, op == 0xDB:
		p.pending = op
		p.waiting = true
	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnsupported, op)
	}
	return nil
}

func (p *Panel) operandLocked(op, v byte) {
	s := &p.state
	switch op {
	case 0x81:
		s.Contrast = v
	case 0x8D:
		s.ChargePump = v
	case 0xA8:
		s.MultiplexRatio = v & 0x3F
	case 0xD3:
		s.DisplayOffset = v & 0x3F
	case 0xD5:
		s.ClockDivide = v
	case 0xD9:
		s.Precharge = v
	case 0xDA:
		s.ComPins = v
	case 0xDB:
		s.VComH = v
	}
}

// State returns a copy of the register state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// GDDRAM returns a copy of the display RAM.
func (p *Panel) GDDRAM() framebuffer.Raw {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ram
}

// Image returns what the glass shows: lit pixels are white.
//
// The display RAM goes through the same mapping as on the controller:
// segment remap mirrors horizontally, COM scan direction vertically, start
// line and display offset scroll. Rows beyond the multiplex ratio stay dark.
func (p *Panel) Image() *image.Gray {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageLocked()
}

func (p *Panel) imageLocked() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, framebuffer.Width, framebuffer.Height))
	s := &p.state
	if !s.On {
		return img
	}
	rows := int(s.MultiplexRatio) + 1
	for y := 0; y < rows && y < framebuffer.Height; y++ {
		com := y
		if s.ComScanRemapped {
			com = rows - 1 - y
		}
		line := (com + int(s.StartLine) + int(s.DisplayOffset)) % framebuffer.Height
		for x := 0; x < framebuffer.Width; x++ {
			col := x
			if s.SegmentRemap {
				col = framebuffer.Width - 1 - x
			}
			lit := p.ram[line/framebuffer.PageHeight][col]&(1<<uint(line%framebuffer.PageHeight)) != 0
			if s.EntireOn {
				lit = true
			} else if s.Inverse {
				lit = !lit
			}
			if lit {
				img.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

var _ bus.Interface = &Panel{}
