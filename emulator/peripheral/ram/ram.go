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

package ram

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/retrosim/sim80/emulator/memory"
	"github.com/retrosim/sim80/emulator/processor"
)

const (
	Size = 0x10000

	// CommonBase is the start of the common segment. Addresses below it
	// go to the currently selected bank, addresses at or above it always
	// go to bank 0 regardless of the bank register.
	CommonBase = 0xC000
	BankSize   = CommonBase
)

// Device is the banked RAM with a write protected boot ROM page at the
// top of the common segment. Bank 0 is the full 64K base segment; banks
// 1..Banks are 48K segments overlaying the address space below the
// common segment.
type Device struct {
	// Banks is the number of banked segments. Zero means one.
	Banks int

	// ROM is the boot ROM image copied to the top page during install.
	// If nil the page is filled with HALT opcodes.
	ROM io.Reader

	// Clear skips the power-on memory scramble.
	Clear bool

	common [Size]byte
	banks  [][BankSize]byte
	sel    byte
}

func (m *Device) Install(p processor.Processor) error {
	if m.Banks <= 0 {
		m.Banks = 1
	}
	m.banks = make([][BankSize]byte, m.Banks)

	if !m.Clear {
		// Trash memory like a real machine after power on.
		rand.Read(m.common[:memory.ROMBase])
		for i := range m.banks {
			rand.Read(m.banks[i][:])
		}
	}

	rom := m.common[memory.ROMBase:]
	for i := range rom {
		rom[i] = 0x76 // HALT
	}
	if m.ROM != nil {
		if _, err := io.ReadFull(m.ROM, rom); err != nil && err != io.ErrUnexpectedEOF {
			return err
		}
	}

	return p.InstallMemoryDevice(m)
}

func (m *Device) Name() string {
	return "Banked RAM"
}

// Reset returns to bank 0. Memory contents are left alone.
func (m *Device) Reset() {
	m.sel = 0
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) ReadByte(addr uint16) byte {
	if m.sel == 0 || addr >= CommonBase {
		return m.common[addr]
	}
	return m.banks[m.sel-1][addr]
}

func (m *Device) WriteByte(addr uint16, data byte) {
	if m.sel == 0 || addr >= CommonBase {
		if addr < memory.ROMBase {
			m.common[addr] = data
		}
		return
	}
	m.banks[m.sel-1][addr] = data
}

// SelectBank switches the active bank. Bank 0 selects the base segment,
// 1..NumBanks select a banked segment. Out of range values are refused.
func (m *Device) SelectBank(bank byte) error {
	if int(bank) > m.Banks {
		return fmt.Errorf("bank %d out of range 0-%d", bank, m.Banks)
	}
	m.sel = bank
	return nil
}

func (m *Device) Bank() byte {
	return m.sel
}

func (m *Device) NumBanks() int {
	return m.Banks
}
