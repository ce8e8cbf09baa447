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

package rtc

import (
	"testing"
	"time"

	"github.com/retrosim/sim80/emulator/machine"
	"github.com/retrosim/sim80/emulator/peripheral"
)

func newTestRTC(t *testing.T) *machine.Machine {
	t.Helper()
	dev := &Device{Clock: func() time.Time {
		return time.Date(2025, time.August, 23, 13, 45, 59, 0, time.UTC)
	}}
	return machine.New([]peripheral.Peripheral{dev})
}

func TestRegisters(t *testing.T) {
	m := newTestRTC(t)

	regs := []struct {
		name string
		reg  byte
		want byte
	}{
		{"Seconds", RegSeconds, 59},
		{"Minutes", RegMinutes, 45},
		{"Hours", RegHours, 13},
		{"Day", RegDay, 23},
		{"Month", RegMonth, 8},
		{"Year", RegYear, 25},
		{"Unknown", 9, 0},
	}

	for _, r := range regs {
		t.Run(r.name, func(t *testing.T) {
			m.OutByte(CommandPort, r.reg)
			if v := m.InByte(DataPort); v != r.want {
				t.Errorf("got %d, want %d", v, r.want)
			}
		})
	}
}

func TestCommandReadback(t *testing.T) {
	m := newTestRTC(t)

	m.OutByte(CommandPort, RegMonth)
	if v := m.InByte(CommandPort); v != RegMonth {
		t.Errorf("got register %d, want %d", v, RegMonth)
	}
}

func TestDataWriteDiscarded(t *testing.T) {
	m := newTestRTC(t)

	m.OutByte(CommandPort, RegHours)
	m.OutByte(DataPort, 7)
	if v := m.InByte(DataPort); v != 13 {
		t.Errorf("data write should be discarded, got %d", v)
	}
	if v := m.InByte(CommandPort); v != RegHours {
		t.Errorf("data write should not change the register select, got %d", v)
	}
}
