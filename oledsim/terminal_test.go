// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalPlain(t *testing.T) {
	p := New()
	if err := p.SendCommands([]byte{0xAF}); err != nil {
		t.Fatal(err)
	}
	if err := p.SendData([]byte{0x01, 0x00, 0x01}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	term := NewTerminal(&buf, &TerminalOpts{Plain: true})
	if err := term.Render(p); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 64 {
		t.Fatalf("got %d lines, want 64", len(lines))
	}
	if want := "# #" + strings.Repeat(" ", 125); lines[0] != want {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != strings.Repeat(" ", 128) {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestTerminalANSI(t *testing.T) {
	p := New()
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	if err := term.Render(p); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	if !strings.Contains(s, "\033[") {
		t.Error("expected ANSI escape codes")
	}
	if strings.Count(s, "\n") != 64 {
		t.Errorf("got %d lines, want 64", strings.Count(s, "\n"))
	}
}
