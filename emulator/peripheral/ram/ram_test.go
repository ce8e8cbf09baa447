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
	"bytes"
	"testing"

	"github.com/retrosim/sim80/emulator/machine"
	"github.com/retrosim/sim80/emulator/memory"
	"github.com/retrosim/sim80/emulator/peripheral"
)

func newTestRAM(t *testing.T, banks int, rom []byte) *Device {
	t.Helper()
	dev := &Device{Banks: banks, Clear: true}
	if rom != nil {
		dev.ROM = bytes.NewReader(rom)
	}
	machine.New([]peripheral.Peripheral{dev})
	return dev
}

func TestBankSwitching(t *testing.T) {
	mem := newTestRAM(t, 2, nil)

	mem.WriteByte(0x4000, 0x11)
	if err := mem.SelectBank(1); err != nil {
		t.Fatal(err)
	}
	mem.WriteByte(0x4000, 0x22)
	if err := mem.SelectBank(2); err != nil {
		t.Fatal(err)
	}
	mem.WriteByte(0x4000, 0x33)

	for bank, want := range []byte{0x11, 0x22, 0x33} {
		mem.SelectBank(byte(bank))
		if v := mem.ReadByte(0x4000); v != want {
			t.Errorf("bank %d: got 0x%X, want 0x%X", bank, v, want)
		}
	}

	if err := mem.SelectBank(3); err == nil {
		t.Error("bank 3 should be out of range")
	}
	if mem.Bank() != 2 {
		t.Errorf("failed switch must keep the old bank, got %d", mem.Bank())
	}
}

func TestCommonSegment(t *testing.T) {
	mem := newTestRAM(t, 2, nil)

	mem.WriteByte(CommonBase, 0xA5)
	mem.SelectBank(2)
	if v := mem.ReadByte(CommonBase); v != 0xA5 {
		t.Errorf("common segment should be shared across banks, got 0x%X", v)
	}
	mem.WriteByte(CommonBase+1, 0x5A)
	mem.SelectBank(0)
	if v := mem.ReadByte(CommonBase + 1); v != 0x5A {
		t.Errorf("got 0x%X, want 0x5A", v)
	}
}

func TestROMWriteProtect(t *testing.T) {
	rom := []byte{0xC3, 0x00, 0x00} // JP 0
	mem := newTestRAM(t, 1, rom)

	if v := mem.ReadByte(memory.ROMBase); v != 0xC3 {
		t.Fatalf("ROM not loaded, got 0x%X", v)
	}
	mem.WriteByte(memory.ROMBase, 0x00)
	if v := mem.ReadByte(memory.ROMBase); v != 0xC3 {
		t.Error("ROM page must be write protected")
	}
}

func TestHaltFilledROM(t *testing.T) {
	mem := newTestRAM(t, 1, nil)
	for i := 0; i < memory.ROMSize; i++ {
		if v := mem.ReadByte(memory.ROMBase + uint16(i)); v != 0x76 {
			t.Fatalf("ROM byte %d: got 0x%X, want HALT", i, v)
		}
	}
}

func TestResetSelectsBankZero(t *testing.T) {
	mem := newTestRAM(t, 1, nil)
	mem.SelectBank(1)
	mem.Reset()
	if mem.Bank() != 0 {
		t.Errorf("got bank %d after reset, want 0", mem.Bank())
	}
}
