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

// Package fdc is the floppy disk controller. Guest software hands it a
// command block through a two-write handshake on the command port:
//
//	OUT 4, low byte of command block address
//	OUT 4, high byte of command block address
//
// The 5 byte block is fetched by DMA: drive (bit 7 set = write
// operation), track, sector, transfer address low, high. The transfer
// runs synchronously and IN 4 returns the latched status.
package fdc

import (
	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/emulator/processor"
)

const Port = 4

const writeFlag = 0x80

type Device struct {
	Store *disk.Store

	cpu processor.Processor

	haveLow bool
	cmdAddr uint16
	status  disk.Status
}

func (m *Device) Install(p processor.Processor) error {
	m.cpu = p
	return p.InstallIODeviceAt(m, Port)
}

func (m *Device) Name() string {
	return "Floppy Disk Controller"
}

func (m *Device) Reset() {
	m.haveLow = false
	m.status = disk.StatusOK
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(byte) byte {
	return byte(m.status)
}

func (m *Device) Out(_ byte, data byte) {
	if !m.haveLow {
		m.cmdAddr = uint16(data)
		m.haveLow = true
		return
	}
	m.cmdAddr |= uint16(data) << 8
	m.haveLow = false
	m.execute()
}

func (m *Device) execute() {
	cmd := m.cpu.ReadByte(m.cmdAddr)
	track := int(m.cpu.ReadByte(m.cmdAddr + 1))
	sector := int(m.cpu.ReadByte(m.cmdAddr + 2))
	addr := uint16(m.cpu.ReadByte(m.cmdAddr+3)) | uint16(m.cpu.ReadByte(m.cmdAddr+4))<<8

	drive := int(cmd &^ writeFlag)
	if cmd&writeFlag != 0 {
		m.status = m.Store.WriteSector(m.cpu, drive, track, sector, addr)
	} else {
		m.status = m.Store.ReadSector(m.cpu, drive, track, sector, addr)
	}
}
