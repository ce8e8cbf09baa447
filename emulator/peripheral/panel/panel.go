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

// Package panel is the virtual front panel switch register. The value
// can be set from the configuration dialog or by the guest itself and
// is read back verbatim; no validation.
package panel

import (
	"github.com/retrosim/sim80/emulator/processor"
)

const Port = 255

type Device struct {
	Value byte
}

func (m *Device) Install(p processor.Processor) error {
	return p.InstallIODeviceAt(m, Port)
}

func (m *Device) Name() string {
	return "Front Panel"
}

func (m *Device) Reset() {
}

func (m *Device) Step(int) error {
	return nil
}

func (m *Device) In(byte) byte {
	return m.Value
}

func (m *Device) Out(_ byte, data byte) {
	m.Value = data
}
