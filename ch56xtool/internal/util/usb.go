// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"strconv"
	"strings"

	usb "github.com/google/gousb"
)

func parseBusAddr(busAddr string) (int, int) {
	bs, as, ok := strings.Cut(busAddr, ":")
	if !ok {
		return -1, -1
	}
	bus, err := strconv.ParseUint(bs, 10, 8)
	if err != nil {
		return -1, -1
	}
	dev, err := strconv.ParseUint(as, 10, 8)
	if err != nil {
		return -1, -1
	}
	return int(bus), int(dev)
}

var ErrNoUSBDevice = errors.New("no matching USB device found")

// OpenUSB opens the only USB device with the given vendor and product IDs. If
// busAddr is not empty it must be in the BUS:ADDR form and selects the device
// by its location on the bus. The caller is responsible for closing the
// returned device and context.
func OpenUSB(vendor, product usb.ID, busAddr string) (ctx *usb.Context, dev *usb.Device, err error) {
	bus, addr := parseBusAddr(busAddr)
	if busAddr != "" && bus < 0 {
		return nil, nil, errors.New("bad USB device address: " + busAddr)
	}
	ctx = usb.NewContext()
	devs, err := ctx.OpenDevices(func(desc *usb.DeviceDesc) bool {
		if bus >= 0 && (desc.Bus != bus || desc.Address != addr) {
			return false
		}
		return desc.Vendor == vendor && desc.Product == product
	})
	switch {
	case err != nil:
	case len(devs) == 0:
		err = ErrNoUSBDevice
	case len(devs) > 1:
		err = errors.New("found more than one matching USB device, use BUS:ADDR")
	default:
		return ctx, devs[0], nil
	}
	for _, d := range devs {
		d.Close()
	}
	ctx.Close()
	return nil, nil, err
}
