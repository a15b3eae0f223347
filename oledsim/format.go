// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oledsim

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
)

// ImageFormat selects how ServeHTTP encodes the glass.
type ImageFormat int

// Supported encodings. PNG keeps the pixels sharp and is the smallest for a 1
// bit panel; JPEG is there for viewers that only accept MJPEG.
const (
	PNG ImageFormat = iota
	JPEG

	// DefaultFormat applies when the request has no "format" parameter.
	DefaultFormat = PNG
)

var formats = [...]struct {
	name, mime string
	aliases    []string
}{
	PNG:  {"PNG", "image/png", []string{"png"}},
	JPEG: {"JPEG", "image/jpeg", []string{"jpg", "jpeg"}},
}

func (f ImageFormat) valid() bool {
	return f >= 0 && int(f) < len(formats)
}

func (f ImageFormat) String() string {
	if !f.valid() {
		return fmt.Sprint(int(f))
	}
	return formats[f].name
}

func (f ImageFormat) mimeType() string {
	if !f.valid() {
		return "application/octet-stream"
	}
	return formats[f].mime
}

// ImageFormatFromString parses the "format" URL parameter: "png", "jpg" or
// "jpeg".
func ImageFormatFromString(value string) (ImageFormat, error) {
	for f := range formats {
		for _, a := range formats[f].aliases {
			if a == value {
				return ImageFormat(f), nil
			}
		}
	}
	return DefaultFormat, fmt.Errorf("oledsim: unknown image format %q", value)
}

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// A 1bpp image compresses well; favor speed.
var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngBufferPool{},
}

var jpegOptions = jpeg.Options{Quality: 95}

func encode(img image.Image, f ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case PNG:
		if err := pngEncoder.Encode(&buf, img); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(&buf, img, &jpegOptions); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unhandled image format %s", f)
	}
	return buf.Bytes(), nil
}
