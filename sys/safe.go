// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import "github.com/embeddedgo/ch56x/mmio"

// Interrupts masks the interrupts of the CPU. Disable returns the previous
// state which is later passed to Restore.
type Interrupts interface {
	Disable() uintptr
	Restore(state uintptr)
}

// SYS controls one SYS register block of the selected chip variant.
type SYS struct {
	blk      Block
	irqs     Interrupts
	tabs     *Tables
	inAccess bool
}

// New returns a SYS that accesses the registers through bus, masks interrupts
// using irqs and resolves peripheral clock gates using the tables of the
// chip variant v.
func New(bus mmio.Bus, irqs Interrupts, v Variant) *SYS {
	s := &SYS{irqs: irqs, tabs: v.Tables()}
	s.blk.bus = bus
	return s
}

// Block returns the register block for reading.
func (s *SYS) Block() *Block {
	return &s.blk
}

// Tables returns the clock gate tables used by s.
func (s *SYS) Tables() *Tables {
	return s.tabs
}

// access runs f with the interrupts disabled and the SYS write protection
// lifted. f should do nothing else than the intended loads and stores.
// Calls to access do not nest. The block is locked and the interrupt state
// restored even if f panics.
func (s *SYS) access(f func(b *Block)) {
	state := s.irqs.Disable()
	if s.inAccess {
		s.irqs.Restore(state)
		panic("sys: nested safe access")
	}
	s.inAccess = true
	b := &s.blk
	defer func() {
		b.store(SAFE_ACCESS_SIG, SAFE_ACCESS_SIG0)
		s.inAccess = false
		s.irqs.Restore(state)
	}()
	b.store(SAFE_ACCESS_SIG, SAFE_ACCESS_SIG1)
	b.store(SAFE_ACCESS_SIG, SAFE_ACCESS_SIG2)
	f(b)
}
