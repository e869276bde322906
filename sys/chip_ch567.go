// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ch567

package sys

// Chip is the chip variant selected at build time.
const Chip = CH567
