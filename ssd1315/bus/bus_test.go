// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestI2CAddresses(t *testing.T) {
	for _, tc := range []struct {
		name string
		new  func(*i2ctest.Record) *I2C
		want uint16
	}{
		{"default", func(r *i2ctest.Record) *I2C { return NewI2C(r) }, 0x3C},
		{"alternate", func(r *i2ctest.Record) *I2C { return NewI2CAlternate(r) }, 0x3D},
		{"custom", func(r *i2ctest.Record) *I2C { return NewI2CCustom(r, 0x21) }, 0x21},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := &i2ctest.Record{}
			i := tc.new(r)
			if err := i.SendCommands([]byte{0xAE}); err != nil {
				t.Fatal(err)
			}
			if err := i.SendData([]byte{0x01, 0x02}); err != nil {
				t.Fatal(err)
			}
			want := []i2ctest.IO{
				{Addr: tc.want, W: []byte{0x00, 0xAE}},
				{Addr: tc.want, W: []byte{0x40, 0x01, 0x02}},
			}
			if diff := cmp.Diff(r.Ops, want, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("I²C transactions difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestI2CError(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	defer pb.Close()
	i := NewI2C(pb)
	if err := i.SendCommands([]byte{0xAE}); err == nil {
		t.Error("SendCommands() should surface the bus error")
	}
	if err := i.SendData([]byte{0x00}); err == nil {
		t.Error("SendData() should surface the bus error")
	}
}

func TestSPI(t *testing.T) {
	r := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC", L: gpio.High}
	s, err := NewSPI(r, dc)
	if err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.Low {
		t.Error("NewSPI() should leave D/C low")
	}
	if err := s.SendData([]byte{0xAA, 0x55}); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.High {
		t.Error("SendData() must drive D/C high")
	}
	if err := s.SendCommands([]byte{0x81, 0x7F}); err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.Low {
		t.Error("SendCommands() must drive D/C low")
	}
	want := []conntest.IO{
		{W: []byte{0xAA, 0x55}},
		{W: []byte{0x81, 0x7F}},
	}
	if len(r.Ops) != len(want) {
		t.Fatalf("got %d SPI transactions, want %d", len(r.Ops), len(want))
	}
	for i := range want {
		if diff := cmp.Diff(r.Ops[i].W, want[i].W); diff != "" {
			t.Errorf("transaction %d difference (-got +want):\n%s", i, diff)
		}
	}
}

func TestSPIRequiresDC(t *testing.T) {
	if _, err := NewSPI(&spitest.Record{}, nil); err == nil {
		t.Error("NewSPI(nil dc) should fail")
	}
	if _, err := NewSPI(&spitest.Record{}, gpio.INVALID); err == nil {
		t.Error("NewSPI(gpio.INVALID) should fail")
	}
}

type failing struct{ err error }

func (f *failing) SendCommands([]byte) error { return f.err }
func (f *failing) SendData([]byte) error     { return f.err }

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := &i2ctest.Record{}
	l := NewLogger(NewI2C(r), zap.New(core))
	if err := l.SendCommands([]byte{0x81, 0x7F}); err != nil {
		t.Fatal(err)
	}
	if err := l.SendData(make([]byte, 128)); err != nil {
		t.Fatal(err)
	}
	if len(r.Ops) != 2 {
		t.Fatalf("Logger did not forward transmissions, got %d", len(r.Ops))
	}
	entries := logs.FilterMessage("transmission").All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["phase"]; got != "command" {
		t.Errorf("phase = %v, want command", got)
	}
	if got := entries[0].ContextMap()["bytes"]; got != "817f" {
		t.Errorf("bytes = %v, want 817f", got)
	}
	if got := entries[1].ContextMap()["len"]; got != int64(128) {
		t.Errorf("len = %v, want 128", got)
	}

	boom := errors.New("boom")
	l = NewLogger(&failing{boom}, zap.New(core))
	if err := l.SendData([]byte{1}); !errors.Is(err, boom) {
		t.Errorf("SendData() = %v, want %v", err, boom)
	}
	if n := logs.FilterMessage("transmission failed").FilterLevelExact(zapcore.WarnLevel).Len(); n != 1 {
		t.Errorf("got %d failure entries, want 1", n)
	}
}
