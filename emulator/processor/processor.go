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

package processor

import (
	"errors"

	"github.com/retrosim/sim80/emulator/memory"
)

// Model selects the emulated CPU.
type Model int

const (
	Z80 Model = iota
	I8080
)

func (m Model) String() string {
	if m == I8080 {
		return "8080"
	}
	return "Z80"
}

// State is the run state of the machine.
type State int

const (
	Stopped State = iota
	Running
)

// Cause describes why the machine stopped.
type Cause int

const (
	CauseNone    Cause = iota
	CauseHalt          // HALT instruction with interrupts disabled
	CauseIOHalt        // halted through the hardware control port
	CauseIOError       // fatal I/O protocol violation
	CauseBreak         // console break
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "no error"
	case CauseHalt:
		return "HALT instruction"
	case CauseIOHalt:
		return "halted via I/O"
	case CauseIOError:
		return "fatal I/O error"
	case CauseBreak:
		return "console break"
	default:
		return "unknown"
	}
}

type Stats struct {
	Instructions uint64
	Cycles       uint64
}

var (
	ErrNoCore           = errors.New("no CPU core installed")
	ErrModelUnsupported = errors.New("CPU model not supported by this core")
)

// Core is the pluggable instruction decoder. It executes instructions
// against a Processor strictly sequentially; all port and DMA calls it
// makes are synchronous.
type Core interface {
	// Step executes one instruction and returns the number of clock
	// cycles it took.
	Step() (int, error)

	// Reset clears the registers and sets the program counter.
	Reset(pc uint16)

	// SetModel switches the emulated CPU model. Cores that support a
	// single model return ErrModelUnsupported.
	SetModel(Model) error
}

// Processor is what the machine offers to its peripherals and to the
// instruction core: port dispatch, DMA memory access and control over
// the run state.
type Processor interface {
	memory.Memory // DMA primitives

	InByte(port byte) byte
	OutByte(port byte, data byte)

	InstallIODevice(dev memory.IO, from, to byte) error
	InstallIODeviceAt(dev memory.IO, ports ...byte) error
	InstallMemoryDevice(dev memory.Memory) error

	// Stop halts execution with the given cause at the current
	// instruction boundary.
	Stop(cause Cause)

	// ResetSystem resets the CPU registers and all peripherals and
	// jumps to the boot ROM.
	ResetSystem()

	SwitchModel(Model)
	Model() Model

	GetStats() Stats
}
