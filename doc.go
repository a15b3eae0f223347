// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled is a container for the SSD1315 monochrome OLED driver and the
// tooling around it.
//
// The driver itself lives in ssd1315. oledsim emulates the controller on the
// host and render produces pixels for the framebuffer.
package oled
