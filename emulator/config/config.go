/*
Copyright (c) 2024-2025 The sim80 authors

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

// Package config persists the machine configuration as a fixed layout
// binary record: CPU model, CPU speed, front panel byte, then one fixed
// size path field per drive slot. No version tag, no checksum. A
// missing file is not an error and a truncated one restores field by
// field, keeping defaults for whatever is cut off.
package config

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"

	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/emulator/processor"
)

const (
	// Dir is the well known configuration directory under the storage
	// root.
	Dir      = "CONF80"
	fileName = "SIM80.DAT"

	// DefaultSpeed is the compiled-in CPU speed in MHz; 0 means
	// unlimited.
	DefaultSpeed = 4
)

type Config struct {
	Model processor.Model
	Speed int // MHz, 0 = unlimited
	Panel byte
	Disks [disk.NumDrives]string
}

func Default() Config {
	return Config{Model: processor.Z80, Speed: DefaultSpeed}
}

// Load restores the configuration record. Any field that cannot be read
// keeps its default.
func Load(fs afero.Fs) Config {
	c := Default()

	f, err := fs.Open(path.Join(Dir, fileName))
	if err != nil {
		return c
	}
	defer f.Close()

	var model int32
	if err := binary.Read(f, binary.LittleEndian, &model); err != nil {
		return c
	}
	if model == int32(processor.Z80) || model == int32(processor.I8080) {
		c.Model = processor.Model(model)
	}

	var speed int32
	if err := binary.Read(f, binary.LittleEndian, &speed); err != nil {
		return c
	}
	if speed >= 0 {
		c.Speed = int(speed)
	}

	var fp [1]byte
	if _, err := io.ReadFull(f, fp[:]); err != nil {
		return c
	}
	c.Panel = fp[0]

	for i := range c.Disks {
		var p [disk.PathLen]byte
		if _, err := io.ReadFull(f, p[:]); err != nil {
			return c
		}
		c.Disks[i] = string(bytes.TrimRight(p[:], "\x00"))
	}
	return c
}

// Save writes the configuration record, creating the directory if
// needed.
func Save(fs afero.Fs, c Config) error {
	if err := fs.MkdirAll(Dir, 0755); err != nil {
		return err
	}
	f, err := fs.OpenFile(path.Join(Dir, fileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, int32(c.Model)); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, int32(c.Speed)); err != nil {
		return err
	}
	if _, err := f.Write([]byte{c.Panel}); err != nil {
		return err
	}
	for _, d := range c.Disks {
		var p [disk.PathLen]byte
		copy(p[:], d)
		if _, err := f.Write(p[:]); err != nil {
			return err
		}
	}
	return nil
}
