// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tinygo

package sys

import (
	"runtime/interrupt"

	"github.com/embeddedgo/ch56x/irq"
	"github.com/embeddedgo/ch56x/mmio"
)

type cpuInterrupts struct{}

func (cpuInterrupts) Disable() uintptr {
	return uintptr(interrupt.Disable())
}

func (cpuInterrupts) Restore(state uintptr) {
	interrupt.Restore(interrupt.State(state))
}

// Default controls the SYS block of the running chip.
var Default = New(mmio.Device(Base), cpuInterrupts{}, Chip)

// SlpClkOff0 calls Default.SlpClkOff0.
func SlpClkOff0(mask uint8, off bool) { Default.SlpClkOff0(mask, off) }

// SlpClkOff1 calls Default.SlpClkOff1.
func SlpClkOff1(mask uint8, off bool) { Default.SlpClkOff1(mask, off) }

// ClkOffByIRQn calls Default.ClkOffByIRQn.
func ClkOffByIRQn(n irq.IRQn, off bool) uint8 { return Default.ClkOffByIRQn(n, off) }

// SetHCLK calls Default.SetHCLK.
func SetHCLK(hz uint32) error { return Default.SetHCLK(hz) }

// HCLK calls Default.HCLK.
func HCLK() uint32 { return Default.HCLK() }
