// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oled initializes a SSD1315 display and draws text, a picture or a raw
// framebuffer dump on it.
//
// With -bus sim no hardware is needed: the result is printed to the terminal
// and optionally served over HTTP.
package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/oled/oledsim"
	"github.com/GermanBionicSystems/oled/render"
	"github.com/GermanBionicSystems/oled/ssd1315"
	"github.com/GermanBionicSystems/oled/ssd1315/bus"
)

var busName = flag.String("bus", "i2c", "transport: i2c, spi or sim")
var i2cName = flag.String("i2c", "", "I²C bus to use, the first one when empty")
var addr = flag.Uint16("addr", bus.DefaultAddr, "I²C address")
var spiName = flag.String("spi", "", "SPI port to use, the first one when empty")
var dcName = flag.String("dc", "GPIO25", "data/command pin, for SPI")
var preset = flag.Bool("preset", false, "use the preset configuration, rotated by 180°")
var contrast = flag.Int("contrast", -1, "contrast, 1 to 255")
var invert = flag.Bool("invert", false, "inverse display")
var text = flag.String("text", "", "text to draw")
var size = flag.Float64("size", 16, "font size of -text, in points")
var label = flag.String("label", "", "label to draw at the bottom with a bitmap font")
var picture = flag.String("image", "", "picture to draw")
var dither = flag.Bool("dither", false, "dither -image instead of thresholding it")
var raw = flag.String("raw", "", "raw framebuffer dump to draw")
var save = flag.String("save", "", "save the framebuffer as a raw dump")
var clearScreen = flag.Bool("clear", false, "clear the display and exit")
var halt = flag.Bool("halt", false, "turn the display off once done")
var listen = flag.String("http", "", "with -bus sim, serve the panel on this address")
var verbose = flag.Bool("verbose", false, "log every transmission")

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if *verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

// openBus returns the transport and, in simulation, the panel behind it.
func openBus() (bus.Interface, *oledsim.Panel, func() error, error) {
	nop := func() error { return nil }
	if *busName == "sim" {
		p := oledsim.New()
		return p, p, nop, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, nop, err
	}
	switch *busName {
	case "i2c":
		b, err := i2creg.Open(*i2cName)
		if err != nil {
			return nil, nil, nop, err
		}
		return bus.NewI2CCustom(b, *addr), nil, b.Close, nil
	case "spi":
		p, err := spireg.Open(*spiName)
		if err != nil {
			return nil, nil, nop, err
		}
		dc := gpioreg.ByName(*dcName)
		if dc == nil {
			_ = p.Close()
			return nil, nil, nop, fmt.Errorf("unknown pin %q", *dcName)
		}
		s, err := bus.NewSPI(p, dc)
		if err != nil {
			_ = p.Close()
			return nil, nil, nop, err
		}
		return s, nil, p.Close, nil
	}
	return nil, nil, nop, fmt.Errorf("unknown bus %q", *busName)
}

func config() (ssd1315.Config, error) {
	cfg := ssd1315.DefaultConfig
	if *preset {
		cfg = ssd1315.PresetConfig
	}
	if *contrast != -1 {
		if *contrast < 1 || *contrast > 255 {
			return cfg, errors.New("-contrast must be between 1 and 255")
		}
		cfg.Contrast = byte(*contrast)
	}
	if *invert {
		cfg.Polarity = ssd1315.Inverse
	}
	return cfg, nil
}

func draw(dev *ssd1315.Dev, fs afero.Fs) error {
	img := dev.Buffer()
	if *raw != "" {
		r, err := render.LoadRaw(fs, *raw)
		if err != nil {
			return err
		}
		dev.DrawFromRaw(r)
	}
	if *picture != "" {
		f, err := fs.Open(*picture)
		if err != nil {
			return err
		}
		src, err := imaging.Decode(f, imaging.AutoOrientation(true))
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", *picture, err)
		}
		render.Picture(img, src, &render.PictureOpts{Dither: *dither})
	}
	if *text != "" {
		if err := render.Text(img, *text, *size); err != nil {
			return err
		}
	}
	if *label != "" {
		render.Label(img, 0, img.Bounds().Dy()-13, *label)
	}
	return nil
}

func mainImpl(logger *zap.Logger) error {
	cfg, err := config()
	if err != nil {
		return err
	}
	b, panel, closeBus, err := openBus()
	if err != nil {
		return err
	}
	defer closeBus()

	dev := ssd1315.New(bus.NewLogger(b, logger.Named("bus")))
	dev.SetConfig(cfg)
	logger.Info("init", zap.Stringer("dev", dev), zap.String("bus", *busName))
	if err := dev.Init(); err != nil {
		return err
	}

	if *clearScreen {
		if err := dev.ClearScreen(); err != nil {
			return err
		}
	} else {
		fs := afero.NewOsFs()
		if err := draw(dev, fs); err != nil {
			return err
		}
		if err := dev.Flush(); err != nil {
			return err
		}
		if *save != "" {
			r := dev.Buffer().Raw()
			if err := render.SaveRaw(fs, *save, &r); err != nil {
				return err
			}
			logger.Info("saved", zap.String("file", *save))
		}
	}
	if *halt {
		if err := dev.Halt(); err != nil {
			return err
		}
	}

	if panel == nil {
		return nil
	}
	t := oledsim.NewTerminal(nil, &oledsim.TerminalOpts{Plain: !term.IsTerminal(int(os.Stdout.Fd()))})
	if err := t.Render(panel); err != nil {
		return err
	}
	if *listen == "" {
		return nil
	}
	return serve(logger, panel)
}

func serve(logger *zap.Logger, panel *oledsim.Panel) error {
	srv := &http.Server{Addr: *listen, Handler: panel}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		_ = panel.Halt()
		_ = srv.Close()
	}()
	logger.Info("serving", zap.String("addr", *listen))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	flag.Parse()
	logger := newLogger()
	defer func() { _ = logger.Sync() }()
	if err := mainImpl(logger); err != nil {
		logger.Error("oled", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
