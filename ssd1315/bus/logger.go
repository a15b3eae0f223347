// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"encoding/hex"

	"go.uber.org/zap"
)

// Logger wraps an Interface and logs every transmission.
type Logger struct {
	next Interface
	l    *zap.Logger
}

// NewLogger returns an Interface forwarding to next. Transmissions are logged
// at debug level, failures at warn level.
func NewLogger(next Interface, l *zap.Logger) *Logger {
	return &Logger{next: next, l: l}
}

// SendCommands implements Interface.
func (l *Logger) SendCommands(cmds []byte) error {
	return l.log("command", cmds, l.next.SendCommands(cmds))
}

// SendData implements Interface.
func (l *Logger) SendData(data []byte) error {
	return l.log("data", data, l.next.SendData(data))
}

func (l *Logger) log(phase string, b []byte, err error) error {
	log := l.l.With(zap.String("phase", phase), zap.Int("len", len(b)))
	if err != nil {
		log.With(zap.Error(err)).Warn("transmission failed")
		return err
	}
	if ce := log.Check(zap.DebugLevel, "transmission"); ce != nil {
		ce.Write(zap.String("bytes", hex.EncodeToString(b)))
	}
	return nil
}

var _ Interface = &Logger{}
