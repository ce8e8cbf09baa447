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

package disk

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/retrosim/sim80/emulator/memory"
)

// prep validates a sector request and positions the image file. The
// checks run in a fixed order and the first failure decides the status:
// drive, track, sector, DMA address, disk present. Only when all pass
// is the file opened and seeked. On success the caller owns the file.
func (s *Store) prep(drive, track, sector int, addr uint16) (afero.File, Status) {
	if drive < 0 || drive >= NumDrives {
		return nil, StatusBadDrive
	}
	if track < 0 || track > MaxTrack {
		return nil, StatusBadTrack
	}
	if sector < 1 || sector > SectorsPerTrack {
		return nil, StatusBadSector
	}
	if addr > maxDMA {
		return nil, StatusBadDMA
	}
	if s.paths[drive] == "" {
		return nil, StatusNoDisk
	}

	f, err := s.fs.OpenFile(s.paths[drive], os.O_RDWR, 0644)
	if err != nil {
		return nil, StatusNoDisk
	}

	pos := (int64(track)*SectorsPerTrack + int64(sector) - 1) * SectorSize
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		f.Close()
		return nil, StatusSeek
	}
	return f, StatusOK
}

// ReadSector transfers one sector from the image into memory at addr.
func (s *Store) ReadSector(mem memory.Memory, drive, track, sector int, addr uint16) Status {
	f, stat := s.prep(drive, track, sector, addr)
	if stat != StatusOK {
		return stat
	}
	defer f.Close()

	var buf [SectorSize]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return StatusReadError
	}
	for i, v := range buf {
		mem.WriteByte(addr+uint16(i), v)
	}
	return StatusOK
}

// WriteSector transfers one sector from memory at addr into the image.
func (s *Store) WriteSector(mem memory.Memory, drive, track, sector int, addr uint16) Status {
	f, stat := s.prep(drive, track, sector, addr)
	if stat != StatusOK {
		return stat
	}
	defer f.Close()

	var buf [SectorSize]byte
	for i := range buf {
		buf[i] = mem.ReadByte(addr + uint16(i))
	}
	if n, err := f.Write(buf[:]); n != SectorSize || err != nil {
		return StatusWriteError
	}
	return StatusOK
}
