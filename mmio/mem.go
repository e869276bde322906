// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

// MemSize is the size of the register block simulated by Mem.
const MemSize = 256

// Mem is a Bus backed by ordinary memory. It simulates a register block whose
// registers read back the last written value.
type Mem struct {
	b [MemSize]uint8

	// OnStore, if not nil, is called after every store with the previous and
	// the new content of the register.
	OnStore func(off uintptr, old, new uint8)
}

// NewMem returns a Mem initialized with the provided register values.
func NewMem(init map[uintptr]uint8) *Mem {
	m := new(Mem)
	for off, v := range init {
		m.b[off] = v
	}
	return m
}

func (m *Mem) Load8(off uintptr) uint8 {
	return m.b[off]
}

func (m *Mem) Store8(off uintptr, v uint8) {
	old := m.b[off]
	m.b[off] = v
	if m.OnStore != nil {
		m.OnStore(off, old, v)
	}
}

// Snapshot returns a copy of the whole block.
func (m *Mem) Snapshot() [MemSize]uint8 {
	return m.b
}
