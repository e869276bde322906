// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

type device uintptr

// Device returns a Bus that accesses the register block at the physical
// address base.
func Device(base uintptr) Bus {
	return device(base)
}

func (d device) Load8(off uintptr) uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(uintptr(d) + off)))
}

func (d device) Store8(off uintptr, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(uintptr(d)+off)), v)
}
