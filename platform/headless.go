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
	"bytes"
	"sync"

	"github.com/spf13/afero"
)

// Headless is an in-memory platform: a memory filesystem and a console
// backed by byte buffers. It is what tests run against.
type Headless struct {
	console headlessConsole
	fs      afero.Fs
}

func NewHeadless() *Headless {
	return &Headless{fs: afero.NewMemMapFs()}
}

func (h *Headless) Console() Console {
	return &h.console
}

func (h *Headless) FS() afero.Fs {
	return h.fs
}

func (h *Headless) Close() error {
	return nil
}

// Feed queues bytes as console input.
func (h *Headless) Feed(data string) {
	h.console.mu.Lock()
	h.console.in = append(h.console.in, data...)
	h.console.mu.Unlock()
}

// Output drains and returns everything written to the console so far.
func (h *Headless) Output() string {
	h.console.mu.Lock()
	defer h.console.mu.Unlock()
	s := h.console.out.String()
	h.console.out.Reset()
	return s
}

func (h *Headless) Indicator() bool {
	h.console.mu.Lock()
	defer h.console.mu.Unlock()
	return h.console.indicator
}

// Break invokes the registered break handler, as the front end would on
// Ctrl-\.
func (h *Headless) Break() {
	h.console.mu.Lock()
	handler := h.console.breakHandler
	h.console.mu.Unlock()
	if handler != nil {
		handler()
	}
}

type headlessConsole struct {
	mu           sync.Mutex
	in           []byte
	out          bytes.Buffer
	indicator    bool
	breakHandler func()
}

func (c *headlessConsole) InputAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.in) > 0
}

func (c *headlessConsole) ReadByte() (byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.in) == 0 {
		return 0, false
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, true
}

func (c *headlessConsole) WriteByte(data byte) {
	c.mu.Lock()
	c.out.WriteByte(data)
	c.mu.Unlock()
}

func (c *headlessConsole) SetIndicator(on bool) {
	c.mu.Lock()
	c.indicator = on
	c.mu.Unlock()
}

func (c *headlessConsole) SetBreakHandler(h func()) {
	c.mu.Lock()
	c.breakHandler = h
	c.mu.Unlock()
}
