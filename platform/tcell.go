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
	"sync"

	"github.com/gdamore/tcell"
	"github.com/spf13/afero"
)

// The tcell front end is a glass terminal: console output is rendered
// into a fixed character grid, key events become console input bytes.
// This mirrors the LCD terminal of the original board.

const (
	termColumns = 80
	termRows    = 24

	inputBufferSize = 256
)

type tcellPlatform struct {
	sync.Mutex

	screen tcell.Screen
	fs     afero.Fs

	input        chan byte
	breakHandler func()

	cells  [termRows][termColumns]rune
	cx, cy int
}

var tcellPlatformInstance tcellPlatform

func tcellStart(root string, mainLoop func(Platform)) {
	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	p := &tcellPlatformInstance
	p.fs = newRootFs(root)
	p.input = make(chan byte, inputBufferSize)

	var err error
	if p.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}
	if err = p.screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer p.screen.Fini()

	p.screen.ShowCursor(0, 0)
	p.screen.DisableMouse()
	p.screen.Clear()

	go p.eventLoop()

	Instance = p
	mainLoop(p)
}

func (p *tcellPlatform) Console() Console {
	return p
}

func (p *tcellPlatform) FS() afero.Fs {
	return p.fs
}

func (p *tcellPlatform) Close() error {
	return nil
}

func (p *tcellPlatform) eventLoop() {
	for {
		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventKey:
			p.pushKeyEvent(ev)
		case *tcell.EventResize:
			p.screen.Sync()
		}
	}
}

func (p *tcellPlatform) pushKeyEvent(ev *tcell.EventKey) {
	var data byte
	switch k := ev.Key(); {
	case k == tcell.KeyCtrlBackslash:
		p.Lock()
		handler := p.breakHandler
		p.Unlock()
		if handler != nil {
			handler()
		}
		return
	case k == tcell.KeyRune:
		r := ev.Rune()
		if r > 0x7F {
			return
		}
		data = byte(r)
	case k < 0x100:
		// Control keys carry their ASCII value: enter, tab,
		// backspace, escape, Ctrl-A..Ctrl-Z.
		data = byte(k)
	default:
		return
	}

	select {
	case p.input <- data:
	default:
		// Input buffer full, drop like a UART overrun would.
	}
}

func (p *tcellPlatform) InputAvailable() bool {
	return len(p.input) > 0
}

func (p *tcellPlatform) ReadByte() (byte, bool) {
	select {
	case b := <-p.input:
		return b, true
	default:
		return 0, false
	}
}

func (p *tcellPlatform) WriteByte(data byte) {
	p.Lock()
	defer p.Unlock()

	switch {
	case data == '\r':
		p.cx = 0
	case data == '\n':
		// LF to CR/LF, like the UART line ending setup on the board.
		p.cx = 0
		p.lineFeed()
	case data == 0x08:
		if p.cx > 0 {
			p.cx--
		}
	case data == '\t':
		p.cx = (p.cx + 8) &^ 7
		if p.cx >= termColumns {
			p.cx = 0
			p.lineFeed()
		}
	case data >= 0x20 && data < 0x7F:
		p.cells[p.cy][p.cx] = rune(data)
		p.screen.SetContent(p.cx, p.cy, rune(data), nil, tcell.StyleDefault)
		if p.cx++; p.cx >= termColumns {
			p.cx = 0
			p.lineFeed()
		}
	default:
		// Remaining control bytes are swallowed.
		return
	}

	p.screen.ShowCursor(p.cx, p.cy)
	p.screen.Show()
}

func (p *tcellPlatform) lineFeed() {
	if p.cy < termRows-1 {
		p.cy++
		return
	}

	// Scroll the grid up one line and repaint.
	copy(p.cells[:], p.cells[1:])
	for x := range p.cells[termRows-1] {
		p.cells[termRows-1][x] = 0
	}
	for y := 0; y < termRows; y++ {
		for x := 0; x < termColumns; x++ {
			r := p.cells[y][x]
			if r == 0 {
				r = ' '
			}
			p.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}
}

func (p *tcellPlatform) SetIndicator(on bool) {
	// The glass terminal has no LED.
}

func (p *tcellPlatform) SetBreakHandler(h func()) {
	p.Lock()
	p.breakHandler = h
	p.Unlock()
}
