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

package emulator

import (
	"flag"
	"fmt"
	"io"
	"log"
	"runtime"
	"time"

	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/emulator/machine"
	"github.com/retrosim/sim80/emulator/monitor"
	"github.com/retrosim/sim80/emulator/peripheral"
	"github.com/retrosim/sim80/emulator/peripheral/fdc"
	"github.com/retrosim/sim80/emulator/peripheral/hwctl"
	"github.com/retrosim/sim80/emulator/peripheral/mmu"
	"github.com/retrosim/sim80/emulator/peripheral/panel"
	"github.com/retrosim/sim80/emulator/peripheral/ram"
	"github.com/retrosim/sim80/emulator/peripheral/rtc"
	"github.com/retrosim/sim80/emulator/peripheral/sio"
	"github.com/retrosim/sim80/emulator/processor"
	"github.com/retrosim/sim80/platform"
	"github.com/retrosim/sim80/version"
)

var (
	romImage = "BOOTROM.BIN"
	numBanks int
)

func init() {
	flag.StringVar(&romImage, "rom", romImage, "Boot ROM image under the storage root")
	flag.IntVar(&numBanks, "banks", 1, "Number of banked memory segments")
}

// CoreFactory builds the instruction decoder for a machine. It is nil
// in builds that ship without a CPU core; the monitor still works and
// the run command reports the missing core.
var CoreFactory func(processor.Processor) processor.Core

// MainLoop is handed to platform.Start. It assembles the machine, runs
// the operator monitor and executes the core until it stops, forever.
func MainLoop(p platform.Platform) {
	console := p.Console()
	fs := p.FS()

	var rom io.Reader
	if f, err := fs.Open(romImage); err == nil {
		defer f.Close()
		rom = f
	} else {
		log.Print("No boot ROM image, ROM page is HALT filled: ", err)
	}

	store := disk.NewStore(fs)
	mem := &ram.Device{Banks: numBanks, ROM: rom}
	pan := &panel.Device{}

	peripherals := []peripheral.Peripheral{
		mem, // needs to go first since it maps the full memory range
		&sio.Device{Console: console},
		&fdc.Device{Store: store},
		&mmu.Device{Mem: mem},
		&rtc.Device{},
		&hwctl.Device{},
		pan,
	}

	m := machine.New(peripherals)
	defer m.Close()

	if CoreFactory != nil {
		m.SetCore(CoreFactory(m))
	}
	console.SetBreakHandler(m.RequestBreak)

	mon := &monitor.Monitor{
		Console: console,
		FS:      fs,
		Store:   store,
		Panel:   pan,
		CPU:     m,
	}

	cprint(console, fmt.Sprintf("\nsim80 release %s\n%s\n\n", version.Current.FullString(), version.Copyright))

	for {
		cfg := mon.Run()

		// Power on jump into the boot ROM.
		m.ResetSystem()

		if err := run(m, cfg.Speed); err != nil {
			if err == processor.ErrNoCore {
				cprint(console, "\nNo CPU core installed, see the manual.\n")
			} else {
				log.Print(err)
			}
		} else {
			report(console, m)
		}

		cprint(console, "\nPress any key to restart CPU\n")
		waitKey(console)
	}
}

// run paces the machine against wall time so it executes at the
// configured clock frequency. Zero means unlimited.
func run(m *machine.Machine, speedMHz int) error {
	var nsPerCycle int64
	if speedMHz > 0 {
		nsPerCycle = 1000 / int64(speedMHz)
	}

	m.Start()

	var cycles int64
	t := time.Now().UnixNano()

	for m.State() == processor.Running {
		c, err := m.Step()
		if err != nil {
			return err
		}
		if nsPerCycle == 0 {
			continue
		}
		cycles += int64(c)

		for time.Now().UnixNano()-t < nsPerCycle*cycles {
			runtime.Gosched()
		}

		// Rebase now and then so the counters cannot wrap.
		if cycles > 100000000 {
			t = time.Now().UnixNano()
			cycles = 0
		}
	}
	return nil
}

func report(c platform.Console, m *machine.Machine) {
	stats := m.GetStats()
	cprint(c, fmt.Sprintf("\nCPU stopped: %v\n", m.Cause()))
	cprint(c, fmt.Sprintf("Instructions: %d, cycles: %d\n", stats.Instructions, stats.Cycles))
}

func cprint(c platform.Console, s string) {
	for i := 0; i < len(s); i++ {
		c.WriteByte(s[i])
	}
}

func waitKey(c platform.Console) {
	for {
		if _, ok := c.ReadByte(); ok {
			return
		}
		time.Sleep(time.Millisecond)
	}
}
