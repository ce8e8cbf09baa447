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

// Package disk owns the drive slots and the sector transfer engine. A
// mounted image is just a path; the backing file is opened per transfer
// and released before the call returns.
package disk

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/retrosim/sim80/emulator/memory"
)

// Geometry shared by every drive: 8" IBM 3740 format.
const (
	SectorSize      = 128
	SectorsPerTrack = 26
	MaxTrack        = 76

	NumDrives = 4

	// PathLen is the fixed size of one drive slot record in the
	// configuration file.
	PathLen = 40

	// DiskDir and CodeDir are the well known directories under the
	// storage root.
	DiskDir = "DISKS80"
	CodeDir = "CODE80"

	diskExt = ".DSK"
	progExt = ".BIN"

	// Transfers must not touch the boot ROM page; a sector starting
	// above this address would.
	maxDMA = 0xFF7F
)

// Status is the outcome of a sector operation. The byte values are what
// guest software reads back from the FDC status port.
type Status byte

const (
	StatusOK Status = iota
	StatusBadDrive
	StatusBadTrack
	StatusBadSector
	StatusBadDMA
	StatusNoDisk
	StatusSeek
	StatusReadError
	StatusWriteError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadDrive:
		return "no such drive"
	case StatusBadTrack:
		return "track out of range"
	case StatusBadSector:
		return "sector out of range"
	case StatusBadDMA:
		return "DMA address out of range"
	case StatusNoDisk:
		return "no disk in drive"
	case StatusSeek:
		return "seek failed"
	case StatusReadError:
		return "short read"
	case StatusWriteError:
		return "short write"
	default:
		return fmt.Sprintf("status %d", byte(s))
	}
}

var (
	ErrMounted  = errors.New("disk already mounted")
	ErrBadDrive = errors.New("no such drive")
)

// Store maps drive slots to mounted image paths.
type Store struct {
	fs    afero.Fs
	paths [NumDrives]string
}

func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// Mount attaches the image DISKS80/<NAME>.DSK to a drive. The same
// image on another drive is refused; remounting on the same drive
// replaces the old image.
func (s *Store) Mount(drive int, name string) error {
	if drive < 0 || drive >= NumDrives {
		return ErrBadDrive
	}

	p := imagePath(name)
	for i, mounted := range s.paths {
		if i != drive && mounted == p {
			return ErrMounted
		}
	}

	f, err := s.fs.Open(p)
	if err != nil {
		return err
	}
	f.Close()

	s.paths[drive] = p
	return nil
}

// Unmount clears the slot unconditionally.
func (s *Store) Unmount(drive int) {
	if drive >= 0 && drive < NumDrives {
		s.paths[drive] = ""
	}
}

// Path returns the mounted image path, empty if the drive is empty.
func (s *Store) Path(drive int) string {
	if drive < 0 || drive >= NumDrives {
		return ""
	}
	return s.paths[drive]
}

// SetPath restores a slot from a configuration record without touching
// the filesystem. CheckAll is expected to run afterwards.
func (s *Store) SetPath(drive int, p string) {
	if drive >= 0 && drive < NumDrives {
		s.paths[drive] = p
	}
}

// CheckAll re-opens every mounted image and clears the slots whose
// files are gone, e.g. after the storage media was swapped. It returns
// the number of images dropped.
func (s *Store) CheckAll() int {
	n := 0
	for i, p := range s.paths {
		if p == "" {
			continue
		}
		f, err := s.fs.Open(p)
		if err != nil {
			s.paths[i] = ""
			n++
			continue
		}
		f.Close()
	}
	return n
}

// List returns a pull iterator over the entry names of a directory. The
// sequence is lazy, finite and cannot be restarted. The pattern
// argument is accepted but not applied; listings show every entry.
func (s *Store) List(dir, pattern string) (func() (string, bool), error) {
	_ = pattern

	f, err := s.fs.Open(dir)
	if err != nil {
		return nil, err
	}

	done := false
	return func() (string, bool) {
		if done {
			return "", false
		}
		names, err := f.Readdirnames(1)
		if err != nil || len(names) == 0 {
			done = true
			f.Close()
			return "", false
		}
		return names[0], true
	}, nil
}

// LoadProgram streams CODE80/<NAME>.BIN sector-sized chunk by chunk
// into memory starting at base and returns the number of bytes loaded.
// On a read error mid-file the bytes already transferred stay in
// memory.
func (s *Store) LoadProgram(mem memory.Memory, name string, base uint16) (int, error) {
	f, err := s.fs.Open(programPath(name))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var buf [SectorSize]byte
	total := 0
	for {
		n, err := f.Read(buf[:])
		for i := 0; i < n; i++ {
			mem.WriteByte(base+uint16(total+i), buf[i])
		}
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

func imagePath(name string) string {
	return path.Join(DiskDir, strings.ToUpper(name)+diskExt)
}

func programPath(name string) string {
	return path.Join(CodeDir, strings.ToUpper(name)+progExt)
}
