// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315

import "fmt"

// Opcodes. See the SSD1315 command table.
const (
	setLowColumn       = 0x00
	setHighColumn      = 0x10
	setStartLine       = 0x40
	setContrast        = 0x81
	setChargePump      = 0x8D
	displayAllOnResume = 0xA4
	displayAllOn       = 0xA5
	setMultiplex       = 0xA8
	displayOff         = 0xAE
	displayOn          = 0xAF
	setPageStart       = 0xB0
	setDisplayOffset   = 0xD3
	setClockDivide     = 0xD5
	setPrecharge       = 0xD9
	setComPins         = 0xDA
	setVComH           = 0xDB
)

type kind uint8

const (
	kindDisplay kind = iota
	kindEntireDisplay
	kindClockDivide
	kindMultiplex
	kindDisplayOffset
	kindStartLine
	kindSegmentRemap
	kindComScan
	kindComPins
	kindContrast
	kindPrecharge
	kindVComH
	kindPolarity
	kindChargePump
	kindPage
	kindColumnLow
	kindColumnHigh
)

var kindNames = [...]string{
	kindDisplay:       "Display",
	kindEntireDisplay: "EntireDisplay",
	kindClockDivide:   "SetClockDivide",
	kindMultiplex:     "SetMultiplexRatio",
	kindDisplayOffset: "SetDisplayOffset",
	kindStartLine:     "SetStartLine",
	kindSegmentRemap:  "SetSegmentRemap",
	kindComScan:       "SetComScanDirection",
	kindComPins:       "SetComPins",
	kindContrast:      "SetContrast",
	kindPrecharge:     "SetPrecharge",
	kindVComH:         "SetVComH",
	kindPolarity:      "SetPolarity",
	kindChargePump:    "SetChargePump",
	kindPage:          "SetPage",
	kindColumnLow:     "SetColumnLow",
	kindColumnHigh:    "SetColumnHigh",
}

// Command is a single register write.
//
// It serializes to the opcode byte, followed by the operand byte for the
// register writes that take one. The length is fixed per kind of command.
type Command struct {
	k       kind
	op, arg byte
	n       uint8
}

func cmd1(k kind, op byte) Command {
	return Command{k: k, op: op, n: 1}
}

func cmd2(k kind, op, arg byte) Command {
	return Command{k: k, op: op, arg: arg, n: 2}
}

// DisplayOn turns the panel on.
func DisplayOn() Command { return cmd1(kindDisplay, displayOn) }

// DisplayOff puts the panel to sleep. Display RAM is retained.
func DisplayOff() Command { return cmd1(kindDisplay, displayOff) }

// EntireDisplay selects whether the output follows the display RAM (false) or
// lights every pixel (true).
func EntireDisplay(allOn bool) Command {
	if allOn {
		return cmd1(kindEntireDisplay, displayAllOn)
	}
	return cmd1(kindEntireDisplay, displayAllOnResume)
}

// SetClockDivide sets the display clock divide ratio in bits [3:0] and the
// oscillator frequency in bits [7:4].
func SetClockDivide(v byte) Command { return cmd2(kindClockDivide, setClockDivide, v) }

// SetMultiplexRatio sets the mux ratio to v+1; v is in [15, 63].
func SetMultiplexRatio(v byte) Command { return cmd2(kindMultiplex, setMultiplex, v) }

// SetDisplayOffset sets the vertical shift by COM, in [0, 63].
func SetDisplayOffset(v byte) Command { return cmd2(kindDisplayOffset, setDisplayOffset, v) }

// SetStartLine sets the display RAM line mapped to the first row, in [0, 63].
func SetStartLine(line byte) Command {
	return cmd1(kindStartLine, setStartLine|line&0x3F)
}

// SetSegmentRemap selects which SEG column address 0 is mapped to.
func SetSegmentRemap(r SegmentRemap) Command { return cmd1(kindSegmentRemap, r.opcode()) }

// SetComScanDirection selects the COM output scan direction.
func SetComScanDirection(d ComScanDirection) Command { return cmd1(kindComScan, d.opcode()) }

// SetComPins sets the COM pins hardware configuration. Bit 4 selects the
// alternative configuration, bit 5 enables the left/right remap. Bit 1 must
// be set.
func SetComPins(v byte) Command { return cmd2(kindComPins, setComPins, v) }

// SetContrast sets the contrast, in [1, 255].
func SetContrast(v byte) Command { return cmd2(kindContrast, setContrast, v) }

// SetPrecharge sets phase 1 (bits [3:0]) and phase 2 (bits [7:4]) of the
// pre-charge period in DCLK. 0 is invalid for either phase.
func SetPrecharge(v byte) Command { return cmd2(kindPrecharge, setPrecharge, v) }

// SetVComH sets the V_COMH deselect level; only bits [5:4] are meaningful.
func SetVComH(v byte) Command { return cmd2(kindVComH, setVComH, v) }

// SetPolarity selects normal or inverse display.
func SetPolarity(p Polarity) Command { return cmd1(kindPolarity, p.opcode()) }

// SetChargePump configures the internal charge pump.
func SetChargePump(c ChargePump) Command { return cmd2(kindChargePump, setChargePump, c.operand()) }

// SetPage points the write cursor at page p, in [0, 7].
func SetPage(p byte) Command { return cmd1(kindPage, setPageStart|p&0x07) }

// SetColumnLow sets the low nibble of the write cursor column.
func SetColumnLow(col byte) Command { return cmd1(kindColumnLow, setLowColumn|col&0x0F) }

// SetColumnHigh sets the high nibble of the write cursor column.
func SetColumnHigh(col byte) Command { return cmd1(kindColumnHigh, setHighColumn|(col>>4)&0x0F) }

// Len returns the number of bytes the command serializes to, 1 or 2.
func (c Command) Len() int {
	return int(c.n)
}

// Bytes returns the serialized command.
func (c Command) Bytes() []byte {
	return c.AppendTo(make([]byte, 0, c.n))
}

// AppendTo appends the serialized command to b.
func (c Command) AppendTo(b []byte) []byte {
	if c.n == 2 {
		return append(b, c.op, c.arg)
	}
	return append(b, c.op)
}

func (c Command) String() string {
	if c.n == 2 {
		return fmt.Sprintf("%s(0x%02X)", kindNames[c.k], c.arg)
	}
	return fmt.Sprintf("%s[0x%02X]", kindNames[c.k], c.op)
}
