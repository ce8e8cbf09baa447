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

package memory

const (
	// UnusedPort is the value returned when reading an unmapped I/O port.
	UnusedPort = 0xFF

	// ROMBase is the start of the write protected boot ROM page. Some
	// software expects a ROM in upper memory; without it a RAM test would
	// wrap around to address 0 and destroy itself.
	ROMBase = 0xFF00
	ROMSize = 0x100
)

// IO is a device mapped into the 8-bit port address space.
type IO interface {
	In(port byte) byte
	Out(port byte, data byte)
}

// Memory is a device mapped into the 16-bit memory address space. The
// same methods serve CPU accesses and DMA transfers from peripherals.
type Memory interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, data byte)
}

// DummyIO backs every port without a registered handler. Reads return
// UnusedPort and writes are discarded; unmapped access is not an error.
type DummyIO struct{}

func (m *DummyIO) In(byte) byte {
	return UnusedPort
}

func (m *DummyIO) Out(byte, byte) {
}

type DummyMemory struct{}

func (m *DummyMemory) ReadByte(uint16) byte {
	return UnusedPort
}

func (m *DummyMemory) WriteByte(uint16, byte) {
}
