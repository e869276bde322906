// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sys

import (
	"errors"
	"strconv"
)

const (
	MHz = 1000000

	pllFreq = 480 * MHz // USB PLL
	hseFreq = 30 * MHz  // external crystal

	MaxHCLK = 120 * MHz
	MinHCLK = 2 * MHz
)

var ErrHCLKRange = errors.New("sys: HCLK frequency out of range")

// RangeError is returned for HCLK frequencies that cannot be set. It matches
// ErrHCLKRange in errors.Is.
type RangeError struct {
	Hz uint32
}

func (e *RangeError) Error() string {
	return "sys: HCLK " + strconv.FormatUint(uint64(e.Hz), 10) +
		" Hz out of range"
}

func (e *RangeError) Is(target error) bool {
	return target == ErrHCLKRange
}

// HCLKConfig is the HCLK divider setup.
type HCLKConfig struct {
	Div uint8 // divisor, 16 for 30 MHz from PLL
	PLL bool  // HCLK from the 480 MHz PLL, otherwise from 30 MHz crystal
}

// PlanHCLK computes the HCLK configuration for the frequency hz. Supported
// frequencies are 120, 96, 80, 60, 48, 40, 32, 30 MHz (PLL) and 15, 10, 6, 3,
// 2 MHz (crystal).
//
// Other frequencies in the range 2 - 120 MHz are rounded up to the next
// available one, because the divisor is calculated using integer division.
// Use HCLKConfig.Freq to obtain the effective frequency.
func PlanHCLK(hz uint32) (HCLKConfig, error) {
	switch {
	case hz >= 30*MHz && hz <= MaxHCLK:
		return HCLKConfig{Div: uint8(pllFreq / hz), PLL: true}, nil
	case hz >= MinHCLK && hz < 30*MHz:
		// The crystal can't be used undivided (div == 1).
		if div := hseFreq / hz; div >= 2 {
			return HCLKConfig{Div: uint8(div)}, nil
		}
	}
	return HCLKConfig{}, &RangeError{hz}
}

// PLLDivData returns the value written to CLK_PLL_DIV.
func (c HCLKConfig) PLLDivData() uint8 {
	return clkPLLDivData(c.Div)
}

// CfgCtrlData returns the value written to CLK_CFG_CTRL.
func (c HCLKConfig) CfgCtrlData() uint8 {
	var sel uint8
	if c.PLL {
		sel = CLK_SEL_PLL
	}
	return clkCfgCtrlData(sel)
}

// Freq returns the HCLK frequency produced by c.
func (c HCLKConfig) Freq() uint32 {
	return hclkFreq(c.Div&PLL_DIV, c.PLL)
}

// hclkFreq calculates HCLK from the pll_div and sel_pll fields. The zero
// pll_div selects the largest divisor: 16 for PLL, 15 for crystal.
func hclkFreq(div uint8, pll bool) uint32 {
	if pll {
		if div == 0 {
			return 30 * MHz
		}
		return pllFreq / uint32(div)
	}
	if div == 0 {
		return MinHCLK
	}
	return hseFreq / uint32(div)
}

// SetHCLK sets the HCLK frequency to hz. It returns an error that matches
// ErrHCLKRange, without touching the hardware, if hz is not supported.
func (s *SYS) SetHCLK(hz uint32) error {
	c, err := PlanHCLK(hz)
	if err != nil {
		return err
	}
	s.access(func(b *Block) {
		b.store(CLK_PLL_DIV, c.PLLDivData())
		b.store(CLK_CFG_CTRL, c.CfgCtrlData())
	})
	return nil
}

// HCLK returns the current HCLK frequency.
func (s *SYS) HCLK() uint32 {
	b := &s.blk
	return hclkFreq(b.PLLDiv(), b.SelPLL() == CLK_SEL_PLL_USB_480M)
}
