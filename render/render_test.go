// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/GermanBionicSystems/oled/ssd1315/framebuffer"
)

func lit(b *framebuffer.Buffer, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if b.BitAt(x, y) {
				n++
			}
		}
	}
	return n
}

func TestLabel(t *testing.T) {
	var b framebuffer.Buffer
	if got := Label(&b, 3, 2, "AB"); got != 3+2*7 {
		t.Errorf("Label() = %d, want %d", got, 3+2*7)
	}
	glyphs := image.Rect(3, 2, 3+2*7, 2+13)
	if lit(&b, glyphs) == 0 {
		t.Error("Label() drew nothing")
	}
	if total := lit(&b, b.Bounds()); total != lit(&b, glyphs) {
		t.Errorf("Label() drew %d pixels outside of its box", total-lit(&b, glyphs))
	}
}

func TestText(t *testing.T) {
	var b framebuffer.Buffer
	if err := b.SetPixel(127, 63, true); err != nil {
		t.Fatal(err)
	}
	if err := Text(&b, "Hi", 16); err != nil {
		t.Fatal(err)
	}
	if lit(&b, image.Rect(0, 0, 64, 32)) == 0 {
		t.Error("Text() drew nothing")
	}
	if on, _ := b.Pixel(127, 63); !on {
		t.Error("Text() cleared a pixel")
	}
	if n := lit(&b, image.Rect(0, 32, 128, 64)); n != 1 {
		t.Errorf("%d lit pixels below the first line", n)
	}
}

func TestPicture(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 256, 128))
	draw.Draw(src, image.Rect(0, 0, 128, 128), image.White, image.Point{}, draw.Src)
	var b framebuffer.Buffer
	Picture(&b, src, nil)
	if on, _ := b.Pixel(10, 32); !on {
		t.Error("left half should be lit")
	}
	if on, _ := b.Pixel(117, 32); on {
		t.Error("right half should be dark")
	}
}

func TestPictureCentered(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 64))
	draw.Draw(src, src.Bounds(), image.White, image.Point{}, draw.Src)
	var b framebuffer.Buffer
	if err := b.SetPixel(0, 0, true); err != nil {
		t.Fatal(err)
	}
	Picture(&b, src, &PictureOpts{Level: 0xF0})
	if n := lit(&b, b.Bounds()); n != 64*64 {
		t.Errorf("%d lit pixels, want %d", n, 64*64)
	}
	if n := lit(&b, image.Rect(32, 0, 96, 64)); n != 64*64 {
		t.Errorf("picture is not centered")
	}
}

func TestPictureDither(t *testing.T) {
	src := image.NewUniform(color.Gray{Y: 0x80})
	var b framebuffer.Buffer
	Picture(&b, image.NewRGBA(image.Rect(0, 0, 128, 64)), &PictureOpts{Dither: true})
	if n := lit(&b, b.Bounds()); n != 0 {
		t.Errorf("black picture lit %d pixels", n)
	}
	gray := image.NewGray(image.Rect(0, 0, 128, 64))
	draw.Draw(gray, gray.Bounds(), src, image.Point{}, draw.Src)
	Picture(&b, gray, &PictureOpts{Dither: true})
	n := lit(&b, b.Bounds())
	if total := framebuffer.Width * framebuffer.Height; n < total/4 || n > 3*total/4 {
		t.Errorf("dithered mid gray lit %d of %d pixels", n, total)
	}
}

func TestThreshold(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	src.Pix = []byte{0x7F, 0x80, 0xFF, 0xFF}
	var b framebuffer.Buffer
	Threshold(&b, image.Rect(126, 0, 130, 1), src, image.Point{}, DefaultLevel)
	// Columns 128 and 129 are clipped.
	want := []bool{false, true}
	for i, w := range want {
		if on, _ := b.Pixel(126+i, 0); on != w {
			t.Errorf("pixel %d = %t, want %t", 126+i, on, w)
		}
	}
	if n := lit(&b, b.Bounds()); n != 1 {
		t.Errorf("%d lit pixels, want 1", n)
	}
}

func TestRaw(t *testing.T) {
	fs := afero.NewMemMapFs()
	var raw framebuffer.Raw
	raw[0][0] = 0x01
	raw[7][127] = 0x80
	if err := SaveRaw(fs, "dumps/frame.raw", &raw); err != nil {
		t.Fatal(err)
	}
	if fi, err := fs.Stat("dumps/frame.raw"); err != nil || fi.Size() != framebuffer.Size {
		t.Fatalf("Stat() = %v, %v", fi, err)
	}
	got, err := LoadRaw(fs, "dumps/frame.raw")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(*got, raw); diff != "" {
		t.Errorf("LoadRaw() difference (-got +want):\n%s", diff)
	}

	if _, err := LoadRaw(fs, "missing.raw"); !os.IsNotExist(err) {
		t.Errorf("LoadRaw() = %v, want not exist", err)
	}
	if err := afero.WriteFile(fs, "short.raw", []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRaw(fs, "short.raw"); err == nil {
		t.Error("LoadRaw() accepted a short file")
	}
}
