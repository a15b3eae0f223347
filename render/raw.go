// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/GermanBionicSystems/oled/ssd1315/framebuffer"
)

// LoadRaw reads a framebuffer dump written by SaveRaw, or any 1024 bytes file
// in the page major layout of framebuffer.Raw.
func LoadRaw(fs afero.Fs, name string) (*framebuffer.Raw, error) {
	bs, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}
	raw, err := framebuffer.RawFromBytes(bs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &raw, nil
}

// SaveRaw writes raw to name, creating the parent directories.
func SaveRaw(fs afero.Fs, name string, raw *framebuffer.Raw) error {
	if dir := filepath.Dir(name); dir != "." {
		if exists, err := afero.DirExists(fs, dir); err != nil {
			return err
		} else if !exists {
			if err := fs.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	bs := make([]byte, 0, framebuffer.Size)
	for p := range raw {
		bs = append(bs, raw[p][:]...)
	}
	return afero.WriteFile(fs, name, bs, 0644)
}
