// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import "github.com/embeddedgo/ch56x/irq"

func (s *SYS) clkOff(r Reg, mask uint8, off bool) {
	s.access(func(b *Block) {
		v := b.Load(r)
		if off {
			v |= mask
		} else {
			v &^= mask
		}
		b.store(r, v)
	})
}

// SlpClkOff0 turns off (off == true) or on the clocks of the peripherals
// selected by mask in SLP_CLK_OFF0 (SLP_CLK_TMR0, ..., SLP_CLK_UART3). The
// other bits are left untouched.
func (s *SYS) SlpClkOff0(mask uint8, off bool) {
	s.clkOff(SLP_CLK_OFF0, mask, off)
}

// SlpClkOff1 works like SlpClkOff0 for the SLP_CLK_OFF1 register.
func (s *SYS) SlpClkOff1(mask uint8, off bool) {
	s.clkOff(SLP_CLK_OFF1, mask, off)
}

// ClkOffByIRQn turns off or on the clock of the peripheral identified by its
// interrupt number n. Use irq.PWMX_OFF for PWMX. It returns the clock gate
// bit of the peripheral or 0 if n has no clock gate in the chip, in which
// case the registers are not modified.
func (s *SYS) ClkOffByIRQn(n irq.IRQn, off bool) uint8 {
	g, ok := s.tabs.Resolve(n)
	if !ok {
		return 0
	}
	s.clkOff(g.Reg, g.Bit, off)
	return g.Bit
}
