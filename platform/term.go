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

package platform

import (
	"log"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// The term front end puts the controlling terminal in raw mode and
// passes bytes through unmodified, except that line feeds are expanded
// to CR/LF on output. Break is the raw 0x1C byte (Ctrl-\).

const consoleBreak = 0x1C

type termPlatform struct {
	sync.Mutex

	fs afero.Fs

	input        chan byte
	breakHandler func()

	savedAttr unix.Termios
}

var termPlatformInstance termPlatform

func termStart(root string, mainLoop func(Platform)) {
	p := &termPlatformInstance
	p.fs = newRootFs(root)
	p.input = make(chan byte, inputBufferSize)

	fd := os.Stdin.Fd()
	if err := termios.Tcgetattr(fd, &p.savedAttr); err != nil {
		log.Fatal(err)
	}

	rawAttr := p.savedAttr
	termios.Cfmakeraw(&rawAttr)
	if err := termios.Tcsetattr(fd, termios.TCIFLUSH, &rawAttr); err != nil {
		log.Fatal(err)
	}
	defer termios.Tcsetattr(fd, termios.TCIFLUSH, &p.savedAttr)

	go p.readLoop()

	Instance = p
	mainLoop(p)
}

func (p *termPlatform) readLoop() {
	var buf [1]byte
	for {
		if _, err := os.Stdin.Read(buf[:]); err != nil {
			return
		}
		if buf[0] == consoleBreak {
			p.Lock()
			handler := p.breakHandler
			p.Unlock()
			if handler != nil {
				handler()
			}
			continue
		}
		select {
		case p.input <- buf[0]:
		default:
		}
	}
}

func (p *termPlatform) Console() Console {
	return p
}

func (p *termPlatform) FS() afero.Fs {
	return p.fs
}

func (p *termPlatform) Close() error {
	return termios.Tcsetattr(os.Stdin.Fd(), termios.TCIFLUSH, &p.savedAttr)
}

func (p *termPlatform) InputAvailable() bool {
	return len(p.input) > 0
}

func (p *termPlatform) ReadByte() (byte, bool) {
	select {
	case b := <-p.input:
		return b, true
	default:
		return 0, false
	}
}

func (p *termPlatform) WriteByte(data byte) {
	if data == '\n' {
		os.Stdout.Write([]byte{'\r', '\n'})
		return
	}
	os.Stdout.Write([]byte{data})
}

func (p *termPlatform) SetIndicator(bool) {
	// No LED on a plain terminal.
}

func (p *termPlatform) SetBreakHandler(h func()) {
	p.Lock()
	p.breakHandler = h
	p.Unlock()
}
