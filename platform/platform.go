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

// Package platform is the board bring-up layer. A platform delivers the
// two things the machine needs before it can run: a mounted filesystem
// root and a byte-stream console.
package platform

import (
	"github.com/spf13/afero"
)

// Console is the byte-stream console the SIO device and the monitor
// talk to. ReadByte never blocks; callers poll InputAvailable first,
// the same way guest software polls the SIO status port.
type Console interface {
	InputAvailable() bool
	ReadByte() (byte, bool)
	WriteByte(data byte)

	// SetIndicator drives the board activity LED, where the front end
	// has one.
	SetIndicator(on bool)

	// SetBreakHandler registers the function invoked when the operator
	// sends a break (Ctrl-\). It may be called from another goroutine.
	SetBreakHandler(h func())
}

type Platform interface {
	Console() Console
	FS() afero.Fs
	Close() error
}

var Instance Platform

// Start brings up the selected front end, sets Instance and hands
// control to mainLoop. It returns when mainLoop does.
func Start(stdio bool, root string, mainLoop func(Platform)) {
	if stdio {
		termStart(root, mainLoop)
		return
	}
	tcellStart(root, mainLoop)
}

func newRootFs(root string) afero.Fs {
	if root == "" || root == "/" {
		return afero.NewOsFs()
	}
	return afero.NewBasePathFs(afero.NewOsFs(), root)
}
