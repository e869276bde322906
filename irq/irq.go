// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irq provides the list of CH56x external interrupts.
//
// The interrupt numbers also serve as peripheral handles, so drivers can
// refer to a peripheral (e.g. to gate its clock) by its IRQn.
package irq

import (
	"errors"
	"strconv"
	"strings"
)

// IRQn is the number of an external interrupt of the PFIC controller.
type IRQn uint8

const (
	WDOG   IRQn = 16 // watchdog timer
	TMR0   IRQn = 17 // timer 0
	GPIO   IRQn = 18 // GPIO port A and B
	SPI0   IRQn = 19 // SPI 0
	USBSS  IRQn = 20 // USB 3.0 super speed
	LINK   IRQn = 21 // USB 3.0 link layer
	TMR1   IRQn = 22 // timer 1
	TMR2   IRQn = 23 // timer 2
	UART0  IRQn = 24 // UART 0
	USBHS  IRQn = 25 // USB 2.0 high speed
	EMMC   IRQn = 26 // eMMC controller
	DVP    IRQn = 27 // digital video port
	HSPI   IRQn = 28 // high speed parallel interface
	SPI1   IRQn = 29 // SPI 1
	UART1  IRQn = 30 // UART 1
	UART2  IRQn = 31 // UART 2
	UART3  IRQn = 32 // UART 3
	SerDes IRQn = 33 // serializer/deserializer
	ETH    IRQn = 34 // gigabit Ethernet MAC
	PMT    IRQn = 35 // Ethernet power management
	ECDC   IRQn = 36 // encryption/decryption codec

	End IRQn = 37 // first number past the last interrupt
)

// CH567 and CH568 use the slots of the peripherals they lack.
const (
	USB0 = USBSS // USB 0 (CH567), SATA (CH568)
	USB1 = USBHS // USB 1
	SDC  = EMMC  // SD card controller
	LED  = DVP   // LED controller
)

// PWMX_OFF is not an interrupt. PWMX has none, so this reserved slot stands
// for it wherever a peripheral is selected by its IRQn.
const PWMX_OFF IRQn = 15

var names = [End]string{
	PWMX_OFF: "PWMX_OFF",
	WDOG:     "WDOG",
	TMR0:     "TMR0",
	GPIO:     "GPIO",
	SPI0:     "SPI0",
	USBSS:    "USBSS",
	LINK:     "LINK",
	TMR1:     "TMR1",
	TMR2:     "TMR2",
	UART0:    "UART0",
	USBHS:    "USBHS",
	EMMC:     "EMMC",
	DVP:      "DVP",
	HSPI:     "HSPI",
	SPI1:     "SPI1",
	UART1:    "UART1",
	UART2:    "UART2",
	UART3:    "UART3",
	SerDes:   "SerDes",
	ETH:      "ETH",
	PMT:      "PMT",
	ECDC:     "ECDC",
}

// Valid reports whether n is below End.
func (n IRQn) Valid() bool {
	return n < End
}

func (n IRQn) String() string {
	if n < End && names[n] != "" {
		return names[n]
	}
	return "IRQ(" + strconv.Itoa(int(n)) + ")"
}

var aliases = map[string]IRQn{
	"USB0": USB0,
	"USB1": USB1,
	"SDC":  SDC,
	"LED":  LED,
	"PWMX": PWMX_OFF,
}

var ErrUnknown = errors.New("irq: unknown interrupt name")

// Parse returns the IRQn of the named interrupt. It accepts the names
// returned by String (case insensitive), the CH567/CH568 aliases and decimal
// numbers below End.
func Parse(name string) (IRQn, error) {
	up := strings.ToUpper(name)
	for n, s := range names {
		if s != "" && strings.ToUpper(s) == up {
			return IRQn(n), nil
		}
	}
	if n, ok := aliases[up]; ok {
		return n, nil
	}
	if n, err := strconv.ParseUint(name, 10, 8); err == nil && n < uint64(End) {
		return IRQn(n), nil
	}
	return 0, ErrUnknown
}
