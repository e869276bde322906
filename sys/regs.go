// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sys provides access to the CH56x system configuration block (SYS):
// peripheral clock gating and HCLK frequency selection.
//
// All writes to the SYS registers go through the safe access sequence with
// interrupts disabled. Peripherals are selected either by raw bit masks of
// the SLP_CLK_OFFx registers or by their interrupt number (see package irq).
package sys

import (
	"strconv"

	"github.com/embeddedgo/ch56x/mmio"
)

// Base is the physical address of the SYS block.
const Base uintptr = 0x40001000

// Reg is the byte offset of a SYS register.
type Reg uint8

const (
	SAFE_ACCESS_SIG Reg = 0x00 // safe access signature
	CHIP_ID         Reg = 0x01 // chip ID
	SAFE_ACCESS_ID  Reg = 0x02 // safe access ID
	CLK_PLL_DIV     Reg = 0x08 // PLL output divisor
	CLK_CFG_CTRL    Reg = 0x0A // clock configuration
	SLP_CLK_OFF0    Reg = 0x0C // sleep clock off control 0
	SLP_CLK_OFF1    Reg = 0x0D // sleep clock off control 1
	SLP_WAKE_CTRL   Reg = 0x0E // wake control, ETH and ECDC clocks on CH569
)

func (r Reg) String() string {
	switch r {
	case SAFE_ACCESS_SIG:
		return "R8_SAFE_ACCESS_SIG"
	case CHIP_ID:
		return "R8_CHIP_ID"
	case SAFE_ACCESS_ID:
		return "R8_SAFE_ACCESS_ID"
	case CLK_PLL_DIV:
		return "R8_CLK_PLL_DIV"
	case CLK_CFG_CTRL:
		return "R8_CLK_CFG_CTRL"
	case SLP_CLK_OFF0:
		return "R8_SLP_CLK_OFF0"
	case SLP_CLK_OFF1:
		return "R8_SLP_CLK_OFF1"
	case SLP_WAKE_CTRL:
		return "R8_SLP_WAKE_CTRL"
	}
	return "R8_0x" + strconv.FormatUint(uint64(r), 16)
}

// SAFE_ACCESS_SIG values
const (
	SAFE_ACCESS_SIG1 = 0x57 // first unlock byte
	SAFE_ACCESS_SIG2 = 0xA8 // second unlock byte
	SAFE_ACCESS_SIG0 = 0x00 // lock
)

// CLK_PLL_DIV bits
const (
	PLL_DIV         = 0x0F << 0 //+ PLL output divisor, 0 means 16
	CLK_PLL_DIV_KEY = 0x01 << 6 //  bits 7:6 must be written as 01
)

// CLK_CFG_CTRL bits
const (
	CLK_PLL_SLEEP    = 0x01 << 0 //+ PLL sleep
	CLK_SEL_PLL      = 0x01 << 1 //+ HCLK from PLL (480 MHz USB reference)
	CLK_CFG_CTRL_KEY = 0x02 << 6 //  bits 7:6 must be written as 10
)

const (
	CLK_SEL_PLLn = 1

	CLK_SEL_PLL_HSE_30M  = 0 // sel_pll: HCLK from the 30 MHz crystal
	CLK_SEL_PLL_USB_480M = 1 // sel_pll: HCLK from the 480 MHz PLL
)

// SLP_CLK_OFF0 bits, 1 stops the peripheral clock
const (
	SLP_CLK_TMR0  = 0x01 << 0 //+
	SLP_CLK_TMR1  = 0x01 << 1 //+
	SLP_CLK_TMR2  = 0x01 << 2 //+
	SLP_CLK_PWMX  = 0x01 << 3 //+
	SLP_CLK_UART0 = 0x01 << 4 //+
	SLP_CLK_UART1 = 0x01 << 5 //+
	SLP_CLK_UART2 = 0x01 << 6 //+
	SLP_CLK_UART3 = 0x01 << 7 //+
)

// SLP_CLK_OFF1 bits, 1 stops the peripheral clock
const (
	SLP_CLK_SPI0 = 0x01 << 0 //+
	SLP_CLK_SPI1 = 0x01 << 1 //+

	// CH569
	SLP_CLK_EMMC  = 0x01 << 2 //+
	SLP_CLK_HSPI  = 0x01 << 3 //+
	SLP_CLK_USBHS = 0x01 << 4 //+
	SLP_CLK_USBSS = 0x01 << 5 //+
	SLP_CLK_SERD  = 0x01 << 6 //+
	SLP_CLK_DVP   = 0x01 << 7 //+

	// CH567, CH568
	SLP_CLK_SDC  = 0x01 << 2 //+
	SLP_CLK_LED  = 0x01 << 3 //+
	SLP_CLK_USB0 = 0x01 << 4 //+ CH567
	SLP_CLK_SATA = 0x01 << 4 //+ CH568
	SLP_CLK_USB1 = 0x01 << 5 //+
	SLP_CLK_ECDC = 0x01 << 7 //+
)

// SLP_WAKE_CTRL bits (CH569)
const (
	SLP_USBHS_WAKE    = 0x01 << 0 //+
	SLP_USBSS_WAKE    = 0x01 << 1 //+
	SLP_WAKE_CLK_ETH  = 0x01 << 2 //+ 1 stops the ETH clock
	SLP_WAKE_CLK_ECDC = 0x01 << 3 //+ 1 stops the ECDC clock
	SLP_GPIO_WAKE     = 0x01 << 4 //+
	SLP_ETH_WAKE      = 0x01 << 5 //+
)

func clkPLLDivData(div uint8) uint8 {
	return CLK_PLL_DIV_KEY | div&PLL_DIV
}

func clkCfgCtrlData(sel uint8) uint8 {
	return CLK_CFG_CTRL_KEY | sel
}

// Block is a handle to a SYS register block. It must not be copied. Loads are
// allowed at any time but stores are only possible inside the safe access
// sequence, see SYS.
type Block struct {
	_   noCopy
	bus mmio.Bus
}

// Load reads the register r.
func (b *Block) Load(r Reg) uint8 {
	return b.bus.Load8(uintptr(r))
}

func (b *Block) store(r Reg, v uint8) {
	b.bus.Store8(uintptr(r), v)
}

// PLLDiv returns the pll_div field of CLK_PLL_DIV.
func (b *Block) PLLDiv() uint8 {
	return b.Load(CLK_PLL_DIV) & PLL_DIV
}

// SelPLL returns the sel_pll field of CLK_CFG_CTRL.
func (b *Block) SelPLL() uint8 {
	return (b.Load(CLK_CFG_CTRL) & CLK_SEL_PLL) >> CLK_SEL_PLLn
}

// noCopy may be embedded into structs which must not be copied after the
// first use. It is recognized by go vet -copylocks.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
