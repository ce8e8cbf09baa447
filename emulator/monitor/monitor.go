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

// Package monitor is the operator dialog shown before the machine runs:
// it configures the CPU, mounts disks and loads programs through the
// same core operations the guest uses. Every menu command maps 1:1 to
// a core operation.
package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/retrosim/sim80/emulator/config"
	"github.com/retrosim/sim80/emulator/disk"
	"github.com/retrosim/sim80/emulator/peripheral/panel"
	"github.com/retrosim/sim80/emulator/processor"
	"github.com/retrosim/sim80/platform"
)

const (
	keyBS  = 0x08
	keyDEL = 0x7F
)

type Monitor struct {
	Console platform.Console
	FS      afero.Fs
	Store   *disk.Store
	Panel   *panel.Device
	CPU     processor.Processor

	Speed int // MHz, 0 = unlimited
}

// Run loads the saved configuration, walks the operator through the
// dialog until the run command and saves the configuration back.
func (m *Monitor) Run() config.Config {
	cfg := config.Load(m.FS)
	m.apply(cfg)

	if n := m.Store.CheckAll(); n > 0 {
		m.printf("%d disk image(s) no longer exist and were unmounted\n\n", n)
	}

	menu := true
	for {
		if menu {
			m.printMenu()
		}
		menu = true

		m.print("Command: ")
		s := m.readLine(1)
		m.print("\n")

		switch strings.ToLower(s) {
		case "c":
			if m.CPU.Model() == processor.Z80 {
				m.CPU.SwitchModel(processor.I8080)
			} else {
				m.CPU.SwitchModel(processor.Z80)
			}

		case "s":
			if i := m.getInt("speed", " in MHz (0=unlimited)", 0, 40); i >= 0 {
				m.Speed = i
			}
			m.print("\n")

		case "p":
			m.setPanelValue()

		case "f":
			m.listFiles(disk.CodeDir, "*.BIN")
			menu = false

		case "r":
			if name := m.promptName("BIN"); name != "" {
				m.loadProgram(name)
			}
			m.print("\n")
			menu = false

		case "d":
			m.listFiles(disk.DiskDir, "*.DSK")
			menu = false

		case "0", "1", "2", "3":
			drive := int(s[0] - '0')
			if name := m.promptName("DSK"); name != "" {
				m.mountDisk(drive, name)
			} else {
				m.Store.Unmount(drive)
				m.print("\n")
			}

		case "g":
			cfg = m.snapshot()
			if err := config.Save(m.FS, cfg); err != nil {
				m.printf("cannot save configuration: %v\n", err)
			}
			return cfg
		}
	}
}

func (m *Monitor) apply(cfg config.Config) {
	m.CPU.SwitchModel(cfg.Model)
	m.Speed = cfg.Speed
	m.Panel.Value = cfg.Panel
	for i, p := range cfg.Disks {
		m.Store.SetPath(i, p)
	}
}

func (m *Monitor) snapshot() config.Config {
	cfg := config.Config{
		Model: m.CPU.Model(),
		Speed: m.Speed,
		Panel: m.Panel.Value,
	}
	for i := range cfg.Disks {
		cfg.Disks[i] = m.Store.Path(i)
	}
	return cfg
}

func (m *Monitor) printMenu() {
	m.printf("c - switch CPU, currently %v\n", m.CPU.Model())
	if m.Speed == 0 {
		m.print("s - CPU speed: unlimited\n")
	} else {
		m.printf("s - CPU speed: %d MHz\n", m.Speed)
	}
	m.printf("p - Port 255 value: %02XH\n", m.Panel.Value)
	m.print("f - list files\n")
	m.print("r - load file\n")
	m.print("d - list disks\n")
	for i := 0; i < disk.NumDrives; i++ {
		m.printf("%d - Disk %d: %s\n", i, i, m.Store.Path(i))
	}
	m.print("g - run machine\n\n")
}

func (m *Monitor) setPanelValue() {
	for {
		m.print("Enter value in Hex: ")
		s := m.readLine(2)
		m.print("\n")
		if s == "" {
			return
		}
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil || len(s) != 2 {
			m.print("Invalid value: range 00 - FF\n")
			continue
		}
		m.Panel.Value = byte(v)
		return
	}
}

func (m *Monitor) listFiles(dir, pattern string) {
	next, err := m.Store.List(dir, pattern)
	if err != nil {
		m.print("No files\n\n")
		return
	}

	n := 0
	for {
		name, ok := next()
		if !ok {
			break
		}
		m.print(name + "\t")
		if len(name) < 8 {
			m.print("\t")
		}
		if n++; n > 4 {
			m.print("\n")
			n = 0
		}
	}
	if n > 0 {
		m.print("\n")
	}
	m.print("\n")
}

func (m *Monitor) loadProgram(name string) {
	n, err := m.Store.LoadProgram(m.CPU, name, 0)
	if err != nil {
		if n > 0 {
			m.printf("read error after %d bytes: %v\n", n, err)
		} else {
			m.print("File not found\n")
		}
		return
	}
	m.printf("loaded file \"%s\" (%d bytes)\n", name, n)
}

func (m *Monitor) mountDisk(drive int, name string) {
	switch err := m.Store.Mount(drive, name); err {
	case nil:
		m.print("\n")
	case disk.ErrMounted:
		m.print("Disk already mounted\n\n")
	default:
		m.print("File not found\n\n")
	}
}

func (m *Monitor) promptName(ext string) string {
	m.printf("Filename (without .%s): ", ext)
	s := m.readLine(8)
	return strings.ToUpper(s)
}

func (m *Monitor) getInt(prompt, hint string, min, max int) int {
	for {
		m.printf("Enter %s%s: ", prompt, hint)
		s := m.readLine(4)
		m.print("\n")
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		if err != nil || i < min || i > max {
			m.printf("Invalid %s: range %d - %d\n", prompt, min, max)
			continue
		}
		return i
	}
}

// readLine reads up to max characters from the console with echo and
// backspace handling. A single character request returns as soon as the
// character arrives.
func (m *Monitor) readLine(max int) string {
	var buf []byte
	for {
		c := m.getc()
		switch {
		case c == keyBS || c == keyDEL:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				m.Console.WriteByte(keyBS)
				m.Console.WriteByte(' ')
				m.Console.WriteByte(keyBS)
			}
		case c == '\r' || c == '\n':
			return string(buf)
		case c >= 0x20 && c < 0x7F:
			if len(buf) < max {
				buf = append(buf, c)
				m.Console.WriteByte(c)
				if max == 1 {
					return string(buf)
				}
			}
		}
	}
}

// getc blocks until a console byte arrives.
func (m *Monitor) getc() byte {
	for {
		if b, ok := m.Console.ReadByte(); ok {
			return b
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *Monitor) print(s string) {
	for i := 0; i < len(s); i++ {
		m.Console.WriteByte(s[i])
	}
}

func (m *Monitor) printf(format string, a ...interface{}) {
	m.print(fmt.Sprintf(format, a...))
}
