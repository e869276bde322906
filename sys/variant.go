// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"errors"
	"strings"

	"github.com/embeddedgo/ch56x/irq"
)

// Variant identifies a member of the CH56x family. The members differ in the
// set of peripherals whose clocks are controlled by SLP_CLK_OFF1 and
// SLP_WAKE_CTRL.
type Variant uint8

const (
	CH569 Variant = iota
	CH568
	CH567

	nVariant
)

var variantNames = [nVariant]string{
	CH569: "CH569",
	CH568: "CH568",
	CH567: "CH567",
}

func (v Variant) String() string {
	if v < nVariant {
		return variantNames[v]
	}
	return "CH56x?"
}

// Variants returns all supported chip variants.
func Variants() []Variant {
	return []Variant{CH569, CH568, CH567}
}

var ErrUnknownVariant = errors.New("sys: unknown chip variant")

// ParseVariant parses a chip name like "ch569" or "CH569W".
func ParseVariant(s string) (Variant, error) {
	s = strings.ToUpper(s)
	for v, name := range variantNames {
		if strings.HasPrefix(s, name) {
			return Variant(v), nil
		}
	}
	return 0, ErrUnknownVariant
}

// Binding binds a peripheral, identified by its IRQn, to its clock gate bit.
type Binding struct {
	IRQ  irq.IRQn
	Bit  uint8  // single bit mask
	Name string // vendor name of the bit
}

// Tables contains the clock gate bindings of one chip variant, one table for
// every register that contains clock gate bits.
type Tables struct {
	Off0 []Binding // SLP_CLK_OFF0
	Off1 []Binding // SLP_CLK_OFF1
	Wake []Binding // SLP_WAKE_CTRL
}

var off0 = []Binding{
	{irq.TMR0, SLP_CLK_TMR0, "RB_SLP_CLK_TMR0"},
	{irq.TMR1, SLP_CLK_TMR1, "RB_SLP_CLK_TMR1"},
	{irq.TMR2, SLP_CLK_TMR2, "RB_SLP_CLK_TMR2"},
	{irq.PWMX_OFF, SLP_CLK_PWMX, "RB_SLP_CLK_PWMX"},
	{irq.UART0, SLP_CLK_UART0, "RB_SLP_CLK_UART0"},
	{irq.UART1, SLP_CLK_UART1, "RB_SLP_CLK_UART1"},
	{irq.UART2, SLP_CLK_UART2, "RB_SLP_CLK_UART2"},
	{irq.UART3, SLP_CLK_UART3, "RB_SLP_CLK_UART3"},
}

var tables = [nVariant]Tables{
	CH569: {
		Off0: off0,
		Off1: []Binding{
			{irq.SPI0, SLP_CLK_SPI0, "RB_SLP_CLK_SPI0"},
			{irq.SPI1, SLP_CLK_SPI1, "RB_SLP_CLK_SPI1"},
			{irq.EMMC, SLP_CLK_EMMC, "RB_SLP_CLK_EMMC"},
			{irq.HSPI, SLP_CLK_HSPI, "RB_SLP_CLK_HSPI"},
			{irq.USBHS, SLP_CLK_USBHS, "RB_SLP_CLK_USBHS"},
			{irq.USBSS, SLP_CLK_USBSS, "RB_SLP_CLK_USBSS"},
			{irq.SerDes, SLP_CLK_SERD, "RB_SLP_CLK_SERD"},
			{irq.DVP, SLP_CLK_DVP, "RB_SLP_CLK_DVP"},
		},
		Wake: []Binding{
			{irq.ETH, SLP_WAKE_CLK_ETH, "RB_SLP_CLK_ETH"},
			{irq.ECDC, SLP_WAKE_CLK_ECDC, "RB_SLP_CLK_ECDC"},
		},
	},
	CH568: {
		Off0: off0,
		Off1: []Binding{
			{irq.SPI0, SLP_CLK_SPI0, "RB_SLP_CLK_SPI0"},
			{irq.SPI1, SLP_CLK_SPI1, "RB_SLP_CLK_SPI1"},
			{irq.SDC, SLP_CLK_SDC, "RB_SLP_CLK_SDC"},
			{irq.LED, SLP_CLK_LED, "RB_SLP_CLK_LED"},
			{irq.USB1, SLP_CLK_USB1, "RB_SLP_CLK_USB1"},
			{irq.USB0, SLP_CLK_SATA, "RB_SLP_CLK_SATA"},
			{irq.ECDC, SLP_CLK_ECDC, "RB_SLP_CLK_ECDC"},
		},
	},
	CH567: {
		Off0: off0,
		Off1: []Binding{
			{irq.SPI0, SLP_CLK_SPI0, "RB_SLP_CLK_SPI0"},
			{irq.SPI1, SLP_CLK_SPI1, "RB_SLP_CLK_SPI1"},
			{irq.SDC, SLP_CLK_SDC, "RB_SLP_CLK_SDC"},
			{irq.LED, SLP_CLK_LED, "RB_SLP_CLK_LED"},
			{irq.USB0, SLP_CLK_USB0, "RB_SLP_CLK_USB0"},
			{irq.USB1, SLP_CLK_USB1, "RB_SLP_CLK_USB1"},
			{irq.ECDC, SLP_CLK_ECDC, "RB_SLP_CLK_ECDC"},
		},
	},
}

// Tables returns the clock gate tables of v. It panics if v is not a valid
// variant.
func (v Variant) Tables() *Tables {
	return &tables[v]
}

func lookup(bs []Binding, n irq.IRQn) uint8 {
	for _, b := range bs {
		if b.IRQ == n {
			return b.Bit
		}
	}
	return 0
}

// Bit0 returns the SLP_CLK_OFF0 bit of the peripheral n or 0 if the clock of
// n is not controlled by SLP_CLK_OFF0.
func (t *Tables) Bit0(n irq.IRQn) uint8 { return lookup(t.Off0, n) }

// Bit1 works like Bit0 for SLP_CLK_OFF1.
func (t *Tables) Bit1(n irq.IRQn) uint8 { return lookup(t.Off1, n) }

// BitWake works like Bit0 for SLP_WAKE_CTRL.
func (t *Tables) BitWake(n irq.IRQn) uint8 { return lookup(t.Wake, n) }

// Gate describes the location of a peripheral clock gate.
type Gate struct {
	Reg Reg
	Bit uint8
}

// Resolve finds the clock gate of the peripheral n. The registers are
// searched in order: SLP_CLK_OFF0, SLP_CLK_OFF1, SLP_WAKE_CTRL. Numbers
// greater than or equal to irq.End are never resolved.
func (t *Tables) Resolve(n irq.IRQn) (g Gate, ok bool) {
	if n >= irq.End {
		return
	}
	if bit := t.Bit0(n); bit != 0 {
		return Gate{SLP_CLK_OFF0, bit}, true
	}
	if bit := t.Bit1(n); bit != 0 {
		return Gate{SLP_CLK_OFF1, bit}, true
	}
	if bit := t.BitWake(n); bit != 0 {
		return Gate{SLP_WAKE_CTRL, bit}, true
	}
	return
}

// Group is one clock gate register with its bindings.
type Group struct {
	Reg      Reg
	Bindings []Binding
}

// Groups returns the clock gate registers in the resolution order.
func (t *Tables) Groups() []Group {
	return []Group{
		{SLP_CLK_OFF0, t.Off0},
		{SLP_CLK_OFF1, t.Off1},
		{SLP_WAKE_CTRL, t.Wake},
	}
}

// TableError describes an inconsistent clock gate binding.
type TableError struct {
	Reg     Reg
	Binding Binding
	Problem string
}

func (e *TableError) Error() string {
	return "sys: " + e.Reg.String() + " " + e.Binding.Name + " (" +
		e.Binding.IRQ.String() + "): " + e.Problem
}

// Validate checks the invariants the resolver depends on: every bit is a
// single nonzero bit, no bit is used twice in one register, every IRQn is
// below irq.End and no IRQn has a binding in more than one register.
func (t *Tables) Validate() error {
	var owner [irq.End]Reg
	var bound [irq.End]bool
	for _, g := range t.Groups() {
		var used uint8
		for _, b := range g.Bindings {
			var problem string
			switch {
			case b.IRQ >= irq.End:
				problem = "IRQn out of range"
			case b.Bit == 0 || b.Bit&(b.Bit-1) != 0:
				problem = "not a single bit mask"
			case used&b.Bit != 0:
				problem = "bit used twice"
			case bound[b.IRQ] && owner[b.IRQ] != g.Reg:
				problem = "also bound in " + owner[b.IRQ].String()
			case bound[b.IRQ]:
				problem = "bound twice"
			}
			if problem != "" {
				return &TableError{g.Reg, b, problem}
			}
			used |= b.Bit
			bound[b.IRQ] = true
			owner[b.IRQ] = g.Reg
		}
	}
	return nil
}
