// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1315

import (
	"fmt"

	"github.com/GermanBionicSystems/oled/ssd1315/bus"
)

// InitSequence returns the register writes Init sends, in order.
//
// The order follows the recommended power up flow of the datasheet: the
// panel stays off while it is configured, and the charge pump is set before
// the display is turned on.
func InitSequence(cfg *Config) []Command {
	return []Command{
		DisplayOff(),
		SetClockDivide(cfg.ClockDivide),
		SetMultiplexRatio(cfg.MultiplexRatio),
		SetDisplayOffset(cfg.DisplayOffset),
		SetStartLine(cfg.StartLine),
		SetSegmentRemap(cfg.SegmentRemap),
		SetComScanDirection(cfg.ComScanDirection),
		SetComPins(cfg.ComPins),
		SetContrast(cfg.Contrast),
		SetPrecharge(cfg.Precharge),
		SetVComH(cfg.VComH),
		EntireDisplay(false),
		SetPolarity(cfg.Polarity),
		SetChargePump(cfg.ChargePump),
		DisplayOn(),
	}
}

// CursorSequence returns the register writes pointing the write cursor at
// (page, column).
//
// The column is sent as two separate commands, low nibble then high nibble.
func CursorSequence(page, column byte) []Command {
	return []Command{
		SetPage(page),
		SetColumnLow(column),
		SetColumnHigh(column),
	}
}

// send transmits each command as its own transaction. It stops at the first
// failure.
func send(b bus.Interface, op string, cmds []Command) error {
	for _, c := range cmds {
		if err := b.SendCommands(c.Bytes()); err != nil {
			return &BusError{Op: op, Step: c.String(), Err: err}
		}
	}
	return nil
}

// BusError is returned when the transport failed to deliver a transmission.
// The steps of the operation before Step were delivered; the ones after were
// not attempted.
type BusError struct {
	// Op is the driver operation: "init", "flush", "clear" or "halt".
	Op string
	// Step describes the transmission that failed.
	Step string
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("ssd1315: %s: %s: %v", e.Op, e.Step, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
