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

package fdc

import (
	"path"
	"testing"

	"github.com/spf13/afero"

	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/emulator/machine"
	"github.com/retrosim/sim80/emulator/peripheral"
	"github.com/retrosim/sim80/emulator/peripheral/ram"
)

const imageName = "TEST"

func newTestFDC(t *testing.T) (*machine.Machine, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(disk.DiskDir, 0755); err != nil {
		t.Fatal(err)
	}
	image := make([]byte, (disk.MaxTrack+1)*disk.SectorsPerTrack*disk.SectorSize)
	for i := 0; i < disk.SectorSize; i++ {
		image[i] = 0x5A // track 0, sector 1
	}
	if err := afero.WriteFile(fs, path.Join(disk.DiskDir, imageName+".DSK"), image, 0644); err != nil {
		t.Fatal(err)
	}

	store := disk.NewStore(fs)
	if err := store.Mount(0, imageName); err != nil {
		t.Fatal(err)
	}

	mem := &ram.Device{Clear: true}
	m := machine.New([]peripheral.Peripheral{mem, &Device{Store: store}})
	return m, fs
}

// command writes a 5 byte command block to memory and hands its address
// to the controller through the two-write handshake.
func command(m *machine.Machine, block uint16, cmd, track, sector byte, addr uint16) {
	m.WriteByte(block, cmd)
	m.WriteByte(block+1, track)
	m.WriteByte(block+2, sector)
	m.WriteByte(block+3, byte(addr))
	m.WriteByte(block+4, byte(addr>>8))

	m.OutByte(Port, byte(block))
	m.OutByte(Port, byte(block>>8))
}

func TestReadSector(t *testing.T) {
	m, _ := newTestFDC(t)

	command(m, 0x0080, 0, 0, 1, 0x1000)
	if v := m.InByte(Port); v != byte(disk.StatusOK) {
		t.Fatalf("got status %d, want OK", v)
	}
	for i := 0; i < disk.SectorSize; i++ {
		if v := m.ReadByte(0x1000 + uint16(i)); v != 0x5A {
			t.Fatalf("byte %d: got 0x%X, want 0x5A", i, v)
		}
	}
}

func TestWriteSector(t *testing.T) {
	m, fs := newTestFDC(t)

	for i := 0; i < disk.SectorSize; i++ {
		m.WriteByte(0x2000+uint16(i), 0xA5)
	}
	command(m, 0x0080, writeFlag, 2, 3, 0x2000)
	if v := m.InByte(Port); v != byte(disk.StatusOK) {
		t.Fatalf("got status %d, want OK", v)
	}

	image, err := afero.ReadFile(fs, path.Join(disk.DiskDir, imageName+".DSK"))
	if err != nil {
		t.Fatal(err)
	}
	off := (2*disk.SectorsPerTrack + 2) * disk.SectorSize
	for i := 0; i < disk.SectorSize; i++ {
		if image[off+i] != 0xA5 {
			t.Fatalf("image byte %d: got 0x%X, want 0xA5", off+i, image[off+i])
		}
	}
}

func TestErrorStatus(t *testing.T) {
	m, _ := newTestFDC(t)

	command(m, 0x0080, 0, disk.MaxTrack+1, 1, 0x1000)
	if v := m.InByte(Port); v != byte(disk.StatusBadTrack) {
		t.Errorf("got status %d, want bad track", v)
	}

	// The next good command clears the latched status.
	command(m, 0x0080, 0, 0, 1, 0x1000)
	if v := m.InByte(Port); v != byte(disk.StatusOK) {
		t.Errorf("got status %d, want OK", v)
	}
}

func TestHandshake(t *testing.T) {
	m, _ := newTestFDC(t)

	// A single write must not execute anything.
	m.OutByte(Port, 0x80)
	if v := m.InByte(Port); v != byte(disk.StatusOK) {
		t.Errorf("got status %d after half a handshake", v)
	}

	// Reset drops the pending low byte, so the next two writes form a
	// fresh address.
	dev := &Device{}
	dev.Out(Port, 0x34)
	dev.Reset()
	dev.Out(Port, 0x80)
	if !dev.haveLow || dev.cmdAddr != 0x80 {
		t.Errorf("got addr 0x%X haveLow %v, want a fresh low byte", dev.cmdAddr, dev.haveLow)
	}
}
