// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides byte-wide access to memory-mapped register blocks.
//
// On TinyGo builds Device returns a Bus that accesses the hardware through
// runtime/volatile. On other builds only Mem is available, which is enough to
// exercise the drivers on a host.
package mmio

// Bus gives access to a block of 8-bit registers. The off argument is a byte
// offset from the beginning of the block. Implementations must not cache,
// reorder or elide loads and stores.
type Bus interface {
	Load8(off uintptr) uint8
	Store8(off uintptr, v uint8)
}
