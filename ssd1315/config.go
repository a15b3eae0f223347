// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Init when a Config holds a value outside of
// the hardware states its type declares.
var ErrInvalidConfig = errors.New("ssd1315: invalid config")

// SegmentRemap selects the column to SEG mapping.
type SegmentRemap uint8

// Possible segment remaps.
const (
	// SegmentNormal maps column address 0 to SEG0. Power on reset value.
	SegmentNormal SegmentRemap = iota
	// SegmentRemapped maps column address 127 to SEG0.
	SegmentRemapped
)

func (r SegmentRemap) opcode() byte {
	if r == SegmentRemapped {
		return 0xA1
	}
	return 0xA0
}

func (r SegmentRemap) String() string {
	switch r {
	case SegmentNormal:
		return "Normal"
	case SegmentRemapped:
		return "Remapped"
	}
	return fmt.Sprintf("SegmentRemap(%d)", uint8(r))
}

// ComScanDirection selects the COM output scan direction.
type ComScanDirection uint8

// Possible scan directions. N is the multiplex ratio.
const (
	// ComScanNormal scans from COM0 to COM[N-1]. Power on reset value.
	ComScanNormal ComScanDirection = iota
	// ComScanRemapped scans from COM[N-1] to COM0.
	ComScanRemapped
)

func (d ComScanDirection) opcode() byte {
	if d == ComScanRemapped {
		return 0xC8
	}
	return 0xC0
}

func (d ComScanDirection) String() string {
	switch d {
	case ComScanNormal:
		return "Normal"
	case ComScanRemapped:
		return "Remapped"
	}
	return fmt.Sprintf("ComScanDirection(%d)", uint8(d))
}

// Polarity selects whether a set bit lights a pixel.
type Polarity uint8

// Possible polarities.
const (
	// Normal lights pixels whose bit is 1. Power on reset value.
	Normal Polarity = iota
	// Inverse lights pixels whose bit is 0.
	Inverse
)

func (p Polarity) opcode() byte {
	if p == Inverse {
		return 0xA7
	}
	return 0xA6
}

func (p Polarity) String() string {
	switch p {
	case Normal:
		return "Normal"
	case Inverse:
		return "Inverse"
	}
	return fmt.Sprintf("Polarity(%d)", uint8(p))
}

// ChargePump is the internal charge pump mode.
type ChargePump uint8

// Possible charge pump modes.
const (
	// ChargePump7V5 enables the pump at 7.5V. Power on reset value.
	ChargePump7V5 ChargePump = iota
	// ChargePumpDisabled is for panels with an external VCC.
	ChargePumpDisabled
	ChargePump8V5
	ChargePump9V0
)

func (c ChargePump) operand() byte {
	switch c {
	case ChargePumpDisabled:
		return 0x10
	case ChargePump8V5:
		return 0x94
	case ChargePump9V0:
		return 0x95
	}
	return 0x14
}

func (c ChargePump) String() string {
	switch c {
	case ChargePump7V5:
		return "7.5V"
	case ChargePumpDisabled:
		return "Disabled"
	case ChargePump8V5:
		return "8.5V"
	case ChargePump9V0:
		return "9.0V"
	}
	return fmt.Sprintf("ChargePump(%d)", uint8(c))
}

// Config holds every tunable register written by Init.
//
// Fields with a closed set of hardware states are typed. The others are raw
// register operands; the valid bits are documented on each field.
type Config struct {
	// ClockDivide: bits [3:0] is the divide ratio minus 1, bits [7:4] the
	// oscillator frequency. Reset 0x80.
	ClockDivide byte
	// MultiplexRatio is N-1 for a N rows panel, in [0x0F, 0x3F]. Reset 0x3F.
	MultiplexRatio byte
	// DisplayOffset is the vertical shift by COM, in [0x00, 0x3F]. Reset 0.
	DisplayOffset byte
	// StartLine is the display RAM line shown on the first row, in
	// [0, 63]. Reset 0.
	StartLine        byte
	SegmentRemap     SegmentRemap
	ComScanDirection ComScanDirection
	// ComPins: bit 4 selects the alternative COM pin configuration, bit 5
	// enables COM left/right remap; bit 1 must be set. Reset 0x12.
	ComPins byte
	// Contrast increases with the value, in [0x01, 0xFF]. Reset 0x7F.
	Contrast byte
	// Precharge: bits [3:0] is phase 1, bits [7:4] phase 2, in DCLK; 0 is
	// invalid for either. Reset 0x22.
	Precharge byte
	// VComH deselect level: 0x00 ~0.65×VCC, 0x10 ~0.71×VCC, 0x20 ~0.77×VCC,
	// 0x30 ~0.83×VCC. Reset 0x20.
	VComH      byte
	Polarity   Polarity
	ChargePump ChargePump
}

// DefaultConfig matches the controller's power on reset state.
var DefaultConfig = Config{
	ClockDivide:      0x80,
	MultiplexRatio:   0x3F,
	DisplayOffset:    0x00,
	StartLine:        0,
	SegmentRemap:     SegmentNormal,
	ComScanDirection: ComScanNormal,
	ComPins:          0x12,
	Contrast:         0x7F,
	Precharge:        0x22,
	VComH:            0x20,
	Polarity:         Normal,
	ChargePump:       ChargePump7V5,
}

// PresetConfig is DefaultConfig rotated by 180° with a higher contrast and
// V_COMH, which suits most 0.96" modules.
var PresetConfig = presetConfig()

func presetConfig() Config {
	c := DefaultConfig
	c.SegmentRemap = SegmentRemapped
	c.ComScanDirection = ComScanRemapped
	c.Contrast = 0xB0
	c.VComH = 0x30
	return c
}

// Validate returns an error wrapping ErrInvalidConfig if a typed field is
// not one of its declared constants.
func (c *Config) Validate() error {
	if c.SegmentRemap > SegmentRemapped {
		return fmt.Errorf("%w: segment remap %s", ErrInvalidConfig, c.SegmentRemap)
	}
	if c.ComScanDirection > ComScanRemapped {
		return fmt.Errorf("%w: COM scan direction %s", ErrInvalidConfig, c.ComScanDirection)
	}
	if c.Polarity > Inverse {
		return fmt.Errorf("%w: polarity %s", ErrInvalidConfig, c.Polarity)
	}
	if c.ChargePump > ChargePump9V0 {
		return fmt.Errorf("%w: charge pump %s", ErrInvalidConfig, c.ChargePump)
	}
	return nil
}
