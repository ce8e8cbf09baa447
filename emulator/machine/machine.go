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

// Package machine is the hub that connects the instruction core to the
// peripherals: it owns the port dispatch tables, routes DMA memory
// access and carries the run state of the whole machine.
package machine

import (
	"errors"
	"log"
	"sync/atomic"

	"github.com/retrosim/sim80/emulator/memory"
	"github.com/retrosim/sim80/emulator/peripheral"
	"github.com/retrosim/sim80/emulator/processor"
)

const MaxPeripherals = 16

// BootAddress is where execution starts after power on and reset.
const BootAddress = memory.ROMBase

type Machine struct {
	core        processor.Core
	peripherals []peripheral.Peripheral

	// Port dispatch: iomap holds, for each of the 256 ports, an index
	// into ioPeripherals. Index 0 is a DummyIO so that unmapped ports
	// read 0xFF and swallow writes. Both tables are built during
	// installation and never change afterwards.
	iomap         [0x100]byte
	ioPeripherals [MaxPeripherals]memory.IO

	mem memory.Memory

	model processor.Model
	state processor.State
	cause processor.Cause
	stats processor.Stats

	// Set by the console break handler, possibly from another
	// goroutine; polled at instruction boundaries.
	breakRequest int32
}

func New(peripherals []peripheral.Peripheral) *Machine {
	m := &Machine{peripherals: peripherals}

	dummyIO := &memory.DummyIO{}
	for i := range m.ioPeripherals[:] {
		m.ioPeripherals[i] = dummyIO
	}
	m.mem = &memory.DummyMemory{}

	for i := 1; i <= len(peripherals); i++ {
		if dev, ok := peripherals[i-1].(memory.IO); ok {
			if i >= MaxPeripherals {
				log.Print("No free IO slot for peripheral: ", peripherals[i-1].Name())
				continue
			}
			m.ioPeripherals[i] = dev
		}
	}

	m.installPeripherals()
	return m
}

func (m *Machine) installPeripherals() {
	for _, d := range m.peripherals {
		if err := d.Install(m); err != nil {
			log.Print("Failed to install peripheral: ", err)
		}
	}
}

// SetCore attaches the instruction decoder. The core must have been
// constructed against this machine.
func (m *Machine) SetCore(core processor.Core) {
	m.core = core
}

func (m *Machine) Close() {
	for _, d := range m.peripherals {
		if cd, ok := d.(peripheral.PeripheralCloser); ok {
			if err := cd.Close(); err != nil {
				log.Print("Failed to close peripheral: ", err)
			}
		}
	}
}

func (m *Machine) InstallIODevice(dev memory.IO, from, to byte) error {
	idx := -1
	for i, d := range m.ioPeripherals {
		if d == dev {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New("IO device is not part of this machine")
	}
	for p := int(from); p <= int(to); p++ {
		m.iomap[p] = byte(idx)
	}
	return nil
}

func (m *Machine) InstallIODeviceAt(dev memory.IO, ports ...byte) error {
	for _, p := range ports {
		if err := m.InstallIODevice(dev, p, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) InstallMemoryDevice(dev memory.Memory) error {
	m.mem = dev
	return nil
}

func (m *Machine) InByte(port byte) byte {
	return m.ioPeripherals[m.iomap[port]].In(port)
}

func (m *Machine) OutByte(port byte, data byte) {
	m.ioPeripherals[m.iomap[port]].Out(port, data)
}

func (m *Machine) ReadByte(addr uint16) byte {
	return m.mem.ReadByte(addr)
}

func (m *Machine) WriteByte(addr uint16, data byte) {
	m.mem.WriteByte(addr, data)
}

func (m *Machine) Stop(cause processor.Cause) {
	m.state = processor.Stopped
	m.cause = cause
}

func (m *Machine) State() processor.State {
	return m.state
}

func (m *Machine) Cause() processor.Cause {
	return m.cause
}

// RequestBreak asks the machine to stop at the next instruction
// boundary. Safe to call from a signal or event handler goroutine.
func (m *Machine) RequestBreak() {
	atomic.StoreInt32(&m.breakRequest, 1)
}

func (m *Machine) ResetSystem() {
	if m.core != nil {
		m.core.Reset(BootAddress)
	}
	for _, d := range m.peripherals {
		d.Reset()
	}
}

func (m *Machine) SwitchModel(model processor.Model) {
	if m.core != nil {
		if err := m.core.SetModel(model); err != nil {
			log.Print("CPU model switch ignored: ", err)
			return
		}
	}
	m.model = model
}

func (m *Machine) Model() processor.Model {
	return m.model
}

func (m *Machine) GetStats() processor.Stats {
	s := m.stats
	m.stats = processor.Stats{}
	return s
}

// Step executes one instruction and steps every peripheral by the
// cycles it took. The returned error, if any, comes from the core or a
// peripheral; a stop through Stop is not an error.
func (m *Machine) Step() (int, error) {
	if m.core == nil {
		return 0, processor.ErrNoCore
	}
	if atomic.CompareAndSwapInt32(&m.breakRequest, 1, 0) {
		m.Stop(processor.CauseBreak)
		return 0, nil
	}

	cycles, err := m.core.Step()
	if err != nil {
		return cycles, err
	}

	m.stats.Instructions++
	m.stats.Cycles += uint64(cycles)

	for _, d := range m.peripherals {
		if err := d.Step(cycles); err != nil {
			return cycles, err
		}
	}
	return cycles, nil
}

// Start marks the machine running. Callers driving their own step loop
// use this together with Step and State.
func (m *Machine) Start() {
	m.state = processor.Running
	m.cause = processor.CauseNone
	atomic.StoreInt32(&m.breakRequest, 0)
}

// Run steps the machine until it stops. The caller paces execution.
func (m *Machine) Run() error {
	m.Start()

	for m.state == processor.Running {
		if _, err := m.Step(); err != nil {
			m.state = processor.Stopped
			return err
		}
	}
	return nil
}
