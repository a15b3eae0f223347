// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1315 controls a 128x64 monochrome OLED display via a SSD1315
// controller. The SSD1306 shares the same command set and works too.
//
// The device can be driven on either I²C or SPI with 4 wires. The transport
// is abstracted by bus.Interface; Dev only knows about command and data
// transmissions.
//
// The driver keeps a local framebuffer. Drawing only touches it; Flush sends
// it whole to the controller, page by page. There is no partial update.
//
// Typical use:
//
//	dev := ssd1315.NewI2C(b, 0)
//	dev.SetConfig(ssd1315.PresetConfig)
//	if err := dev.Init(); err != nil {
//		// ...
//	}
//	_ = dev.SetPixel(10, 10, true)
//	if err := dev.Flush(); err != nil {
//		// ...
//	}
//
// # Datasheets
//
// SSD1315
//
// https://www.buydisplay.com/download/ic/SSD1315.pdf
//
// SSD1306
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1315
