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

// Package hwctl is the virtual hardware control port: a narrow channel
// for trusted guest software to halt the machine, reset it or switch
// the CPU model. The port is locked until the magic unlock byte is
// received, and it re-locks after every fired action so a stray write
// can never trigger anything.
package hwctl

import (
	"github.com/retrosim/sim80/emulator/processor"
)

const Port = 160

const (
	// Locked is the lock sentinel readable on the port; 0 means
	// unlocked.
	Locked = 0xFF

	unlockMagic = 0xAA
)

// Action bits of a write to the unlocked port, checked high to low;
// the first match wins.
const (
	HaltBit    = 0x80
	ResetBit   = 0x40
	SwitchZ80  = 0x20
	Switch8080 = 0x10
)

type Device struct {
	cpu  processor.Processor
	lock byte
}

func (m *Device) Install(p processor.Processor) error {
	m.cpu = p
	m.lock = Locked
	return p.InstallIODeviceAt(m, Port)
}

func (m *Device) Name() string {
	return "Hardware Control"
}

func (m *Device) Reset() {
	m.lock = Locked
}

func (m *Device) Step(int) error {
	return nil
}

// In returns the lock state so callers can poll instead of guessing.
func (m *Device) In(byte) byte {
	return m.lock
}

func (m *Device) Out(_ byte, data byte) {
	// Anything but the magic byte on a locked port is a no-op.
	if m.lock != 0 && data != unlockMagic {
		return
	}
	if m.lock != 0 {
		m.lock = 0
		return
	}

	// The very next write fires and re-locks, whatever it is.
	m.lock = Locked

	switch {
	case data&HaltBit != 0:
		m.cpu.Stop(processor.CauseIOHalt)
	case data&ResetBit != 0:
		m.cpu.ResetSystem()
	case data&SwitchZ80 != 0:
		m.cpu.SwitchModel(processor.Z80)
	case data&Switch8080 != 0:
		m.cpu.SwitchModel(processor.I8080)
	}
}
