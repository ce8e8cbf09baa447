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
	"path"
	"testing"

	"github.com/spf13/afero"
)

type testMemory [0x10000]byte

func (m *testMemory) ReadByte(addr uint16) byte {
	return m[addr]
}

func (m *testMemory) WriteByte(addr uint16, data byte) {
	m[addr] = data
}

func newTestStore(t *testing.T, images ...string) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range images {
		createImage(t, fs, name, (MaxTrack+1)*SectorsPerTrack*SectorSize)
	}
	return NewStore(fs), fs
}

func createImage(t *testing.T, fs afero.Fs, name string, size int) {
	t.Helper()
	if err := fs.MkdirAll(DiskDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path.Join(DiskDir, name+diskExt), make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMount(t *testing.T) {
	s, _ := newTestStore(t, "CPM22", "WORK")

	if err := s.Mount(0, "CPM22"); err != nil {
		t.Fatal(err)
	}

	t.Run("DuplicateOnOtherDrive", func(t *testing.T) {
		if err := s.Mount(1, "CPM22"); err != ErrMounted {
			t.Errorf("got %v, want ErrMounted", err)
		}
	})

	t.Run("RemountSameDrive", func(t *testing.T) {
		if err := s.Mount(0, "WORK"); err != nil {
			t.Fatal(err)
		}
		if s.Path(0) != path.Join(DiskDir, "WORK.DSK") {
			t.Errorf("remount did not replace the path: %s", s.Path(0))
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if err := s.Mount(1, "NOPE"); err == nil {
			t.Error("mounting a missing image should fail")
		}
	})

	t.Run("BadDrive", func(t *testing.T) {
		if err := s.Mount(NumDrives, "CPM22"); err != ErrBadDrive {
			t.Errorf("got %v, want ErrBadDrive", err)
		}
	})

	t.Run("LowercaseName", func(t *testing.T) {
		// WORK is mounted on drive 0 at this point.
		if err := s.Mount(2, "work"); err != ErrMounted {
			t.Errorf("names are folded to upper case, got %v", err)
		}
	})
}

func TestUnmount(t *testing.T) {
	s, _ := newTestStore(t, "CPM22")
	if err := s.Mount(3, "CPM22"); err != nil {
		t.Fatal(err)
	}
	s.Unmount(3)
	if s.Path(3) != "" {
		t.Error("slot not cleared")
	}
}

func TestCheckAll(t *testing.T) {
	s, fs := newTestStore(t, "CPM22", "WORK")
	if err := s.Mount(0, "CPM22"); err != nil {
		t.Fatal(err)
	}
	if err := s.Mount(1, "WORK"); err != nil {
		t.Fatal(err)
	}

	if err := fs.Remove(path.Join(DiskDir, "WORK.DSK")); err != nil {
		t.Fatal(err)
	}

	if n := s.CheckAll(); n != 1 {
		t.Errorf("got %d dropped images, want 1", n)
	}
	if s.Path(1) != "" {
		t.Error("missing image should have been unmounted")
	}
	if s.Path(0) == "" {
		t.Error("existing image should stay mounted")
	}
}

func TestSectorRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, "CPM22")
	if err := s.Mount(0, "CPM22"); err != nil {
		t.Fatal(err)
	}

	var mem testMemory
	for i := 0; i < SectorSize; i++ {
		mem[0x0100+i] = 0xAA
	}

	if stat := s.WriteSector(&mem, 0, 0, 1, 0x0100); stat != StatusOK {
		t.Fatalf("write: got %v", stat)
	}
	if stat := s.ReadSector(&mem, 0, 0, 1, 0x2000); stat != StatusOK {
		t.Fatalf("read: got %v", stat)
	}
	for i := 0; i < SectorSize; i++ {
		if mem[0x2000+i] != 0xAA {
			t.Fatalf("byte %d: got 0x%X, want 0xAA", i, mem[0x2000+i])
		}
	}

	t.Run("LastSector", func(t *testing.T) {
		for i := 0; i < SectorSize; i++ {
			mem[uint16(i)] = byte(i)
		}
		if stat := s.WriteSector(&mem, 0, MaxTrack, SectorsPerTrack, 0); stat != StatusOK {
			t.Fatalf("write: got %v", stat)
		}
		if stat := s.ReadSector(&mem, 0, MaxTrack, SectorsPerTrack, 0x3000); stat != StatusOK {
			t.Fatalf("read: got %v", stat)
		}
		for i := 0; i < SectorSize; i++ {
			if mem[0x3000+i] != byte(i) {
				t.Fatalf("byte %d: got 0x%X", i, mem[0x3000+i])
			}
		}
	})
}

// The precondition order is fixed: drive, track, sector, DMA address,
// disk present. An empty store distinguishes range errors from
// no-disk, proving no file access happens for out of range requests.
func TestSectorChecks(t *testing.T) {
	s, _ := newTestStore(t)
	var mem testMemory

	cases := []struct {
		name                  string
		drive, track, sector  int
		addr                  uint16
		want                  Status
	}{
		{"DriveNegative", -1, 0, 1, 0, StatusBadDrive},
		{"DriveTooHigh", NumDrives, 0, 1, 0, StatusBadDrive},
		{"TrackBeyondMax", 0, MaxTrack + 1, 1, 0, StatusBadTrack},
		{"SectorZero", 0, 0, 0, 0, StatusBadSector},
		{"SectorTooHigh", 0, 0, SectorsPerTrack + 1, 0, StatusBadSector},
		{"DMATooHigh", 0, 0, 1, 0xFF80, StatusBadDMA},
		{"NoDisk", 0, 0, 1, 0, StatusNoDisk},
		{"OrderDriveBeforeTrack", NumDrives, MaxTrack + 1, 0, 0xFFFF, StatusBadDrive},
		{"OrderTrackBeforeSector", 0, MaxTrack + 1, 0, 0xFFFF, StatusBadTrack},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if stat := s.ReadSector(&mem, c.drive, c.track, c.sector, c.addr); stat != c.want {
				t.Errorf("read: got %v, want %v", stat, c.want)
			}
			if stat := s.WriteSector(&mem, c.drive, c.track, c.sector, c.addr); stat != c.want {
				t.Errorf("write: got %v, want %v", stat, c.want)
			}
		})
	}
}

func TestShortRead(t *testing.T) {
	s, fs := newTestStore(t)
	createImage(t, fs, "TINY", SectorSize/2)
	if err := s.Mount(0, "TINY"); err != nil {
		t.Fatal(err)
	}

	var mem testMemory
	if stat := s.ReadSector(&mem, 0, 0, 1, 0); stat != StatusReadError {
		t.Errorf("got %v, want short read", stat)
	}
}

func TestList(t *testing.T) {
	s, fs := newTestStore(t, "CPM22", "WORK", "GAMES")
	_ = fs

	next, err := s.List(DiskDir, "*.DSK")
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for {
		name, ok := next()
		if !ok {
			break
		}
		seen[name] = true
	}
	if len(seen) != 3 {
		t.Errorf("got %d entries, want 3: %v", len(seen), seen)
	}

	// The sequence is not restartable.
	if _, ok := next(); ok {
		t.Error("exhausted iterator should stay exhausted")
	}

	t.Run("PatternIsCosmetic", func(t *testing.T) {
		next, err := s.List(DiskDir, "*.XYZ")
		if err != nil {
			t.Fatal(err)
		}
		n := 0
		for {
			if _, ok := next(); !ok {
				break
			}
			n++
		}
		if n != 3 {
			t.Errorf("pattern must not filter, got %d entries", n)
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		if _, err := s.List("NOSUCH", "*"); err == nil {
			t.Error("listing a missing directory should fail")
		}
	})
}

func TestLoadProgram(t *testing.T) {
	s, fs := newTestStore(t)
	prog := make([]byte, SectorSize*2+17)
	for i := range prog {
		prog[i] = byte(i)
	}
	if err := fs.MkdirAll(CodeDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, path.Join(CodeDir, "TEST.BIN"), prog, 0644); err != nil {
		t.Fatal(err)
	}

	var mem testMemory
	n, err := s.LoadProgram(&mem, "TEST", 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(prog) {
		t.Fatalf("got %d bytes, want %d", n, len(prog))
	}
	for i := range prog {
		if mem[uint16(i)] != prog[i] {
			t.Fatalf("byte %d: got 0x%X, want 0x%X", i, mem[i], prog[i])
		}
	}

	t.Run("Missing", func(t *testing.T) {
		if _, err := s.LoadProgram(&mem, "NOPE", 0); err == nil {
			t.Error("loading a missing program should fail")
		}
	})

	t.Run("BaseOffset", func(t *testing.T) {
		var mem testMemory
		if _, err := s.LoadProgram(&mem, "TEST", 0x8000); err != nil {
			t.Fatal(err)
		}
		if mem[0x8000] != prog[0] || mem[0x8000+uint16(len(prog))-1] != prog[len(prog)-1] {
			t.Error("program not loaded at base offset")
		}
	})
}
