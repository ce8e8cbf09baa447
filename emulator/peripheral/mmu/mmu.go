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

// Package mmu exposes the memory bank select register on a port.
package mmu

import (
	"log"

	"github.com/retrosim/sim80/emulator/peripheral/ram"
	"github.com/retrosim/sim80/emulator/processor"
)

const Port = 64

type Device struct {
	Mem *ram.Device

	cpu processor.Processor
}

func (m *Device) Install(p processor.Processor) error {
	m.cpu = p
	return p.InstallIODeviceAt(m, Port)
}

func (m *Device) Name() string {
	return "MMU"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

// In returns the currently selected bank number. Earlier device
// revisions packed the bank count into the high nibble; this register
// follows the later revision and reports the current bank only.
func (m *Device) In(byte) byte {
	return m.Mem.Bank()
}

// Out switches the active bank. An out of range bank number means the
// guest or the emulation is corrupted, so unlike disk errors it is not
// reported back through a status register: the machine stops with a
// fatal I/O error and the previous bank stays selected.
func (m *Device) Out(_ byte, data byte) {
	if err := m.Mem.SelectBank(data); err != nil {
		log.Print("mmu: ", err)
		m.cpu.Stop(processor.CauseIOError)
	}
}
