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

// Package sio bridges the two console ports to the platform console.
package sio

import (
	"github.com/retrosim/sim80/emulator/processor"
	"github.com/retrosim/sim80/platform"
)

const (
	StatusPort = 0
	DataPort   = 1
)

type Device struct {
	Console platform.Console

	// Last byte fetched from the console. Guest software polls the
	// status port, then reads the data port; a data read without fresh
	// input legitimately returns this stale byte again.
	last byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallIODeviceAt(m, StatusPort, DataPort)
}

func (m *Device) Name() string {
	return "Console SIO"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

// In reads console status or data.
//
// Status: bit 0 = 0 means a character is available for input, bit 7 = 0
// means the transmitter is ready. Output is always ready here.
func (m *Device) In(port byte) byte {
	if port == StatusPort {
		stat := byte(0b00000001)
		if m.Console.InputAvailable() {
			stat &= 0b11111110
		}
		return stat
	}

	if b, ok := m.Console.ReadByte(); ok {
		m.last = b
	}
	return m.last
}

func (m *Device) Out(port byte, data byte) {
	if port == StatusPort {
		// The board drives its LED from this port: zero off,
		// everything else on.
		m.Console.SetIndicator(data != 0)
		return
	}
	// Strip parity, some software won't.
	m.Console.WriteByte(data & 0x7F)
}
