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

// Package rtc is the clock register pair: write a register number to
// the command port, read its value from the data port. Values come from
// the host clock; writes to the data port are accepted and discarded.
package rtc

import (
	"time"

	"github.com/retrosim/sim80/emulator/processor"
)

const (
	CommandPort = 65
	DataPort    = 66
)

// Clock registers.
const (
	RegSeconds = iota
	RegMinutes
	RegHours
	RegDay
	RegMonth
	RegYear // two digit
)

type Device struct {
	// Clock can be replaced in tests. Nil means time.Now.
	Clock func() time.Time

	cmd byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallIODeviceAt(m, CommandPort, DataPort)
}

func (m *Device) Name() string {
	return "RTC"
}

func (m *Device) Reset() {
	m.cmd = 0
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(port byte) byte {
	if port == CommandPort {
		return m.cmd
	}

	now := time.Now()
	if m.Clock != nil {
		now = m.Clock()
	}

	switch m.cmd {
	case RegSeconds:
		return byte(now.Second())
	case RegMinutes:
		return byte(now.Minute())
	case RegHours:
		return byte(now.Hour())
	case RegDay:
		return byte(now.Day())
	case RegMonth:
		return byte(now.Month())
	case RegYear:
		return byte(now.Year() % 100)
	default:
		return 0
	}
}

func (m *Device) Out(port byte, data byte) {
	if port == CommandPort {
		m.cmd = data
	}
	// The host clock is not settable through the data port.
}
