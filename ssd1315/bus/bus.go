// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus provides the command/data channels used to talk to a SSD1315
// controller.
//
// The controller distinguishes two kinds of transmissions: commands, which
// configure registers and the write cursor, and data, which is written to the
// display RAM. On I²C the kind is selected by a control byte prefixed to the
// transaction. On 4-wire SPI it is selected by the D/C line.
package bus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Interface is a write-only command/data channel to the controller.
//
// Each call is one transmission. Errors are the transport's own and are
// returned unchanged.
type Interface interface {
	SendCommands(cmds []byte) error
	SendData(data []byte) error
}

// I²C addresses selectable with the SA0 pin.
const (
	DefaultAddr   uint16 = 0x3C
	AlternateAddr uint16 = 0x3D
)

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)

// I2C talks to the controller over I²C.
type I2C struct {
	c conn.Conn
}

// NewI2C returns a channel to a controller at DefaultAddr.
func NewI2C(b i2c.Bus) *I2C {
	return NewI2CCustom(b, DefaultAddr)
}

// NewI2CAlternate returns a channel to a controller at AlternateAddr.
func NewI2CAlternate(b i2c.Bus) *I2C {
	return NewI2CCustom(b, AlternateAddr)
}

// NewI2CCustom returns a channel to a controller at addr.
//
// Maximum clock speed is 1/2.5µs = 400KHz.
func NewI2CCustom(b i2c.Bus, addr uint16) *I2C {
	return &I2C{c: &i2c.Dev{Bus: b, Addr: addr}}
}

func (i *I2C) String() string {
	return fmt.Sprintf("I2C{%s}", i.c)
}

// SendCommands implements Interface.
func (i *I2C) SendCommands(cmds []byte) error {
	return i.c.Tx(append([]byte{i2cCmd}, cmds...), nil)
}

// SendData implements Interface.
func (i *I2C) SendData(data []byte) error {
	return i.c.Tx(append([]byte{i2cData}, data...), nil)
}

// SPI talks to the controller over 4-wire SPI, with a GPIO driving the D/C
// line.
type SPI struct {
	c  conn.Conn
	dc gpio.PinOut
}

// NewSPI connects to the controller on p.
//
// The SSD1315 serial clock cycle is 100ns minimum; 8MHz leaves margin for
// long wires.
//
// 3-wire SPI (9 bit words, no D/C line) is not supported, dc must be a valid
// pin.
func NewSPI(p spi.Port, dc gpio.PinOut) (*SPI, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("bus: 3-wire SPI is not supported, a D/C pin is required")
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, err
	}
	c, err := p.Connect(8*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return &SPI{c: c, dc: dc}, nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("SPI{%s, %s}", s.c, s.dc)
}

// SendCommands implements Interface.
func (s *SPI) SendCommands(cmds []byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	return s.c.Tx(cmds, nil)
}

// SendData implements Interface.
func (s *SPI) SendData(data []byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	return s.c.Tx(data, nil)
}

var _ Interface = &I2C{}
var _ Interface = &SPI{}
