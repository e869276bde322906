// Copyright 2025 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package isp

import (
	usb "github.com/google/gousb"

	"github.com/embeddedgo/ch56x/ch56xtool/internal/util"
)

type usbTransport struct {
	oe *usb.OutEndpoint
	ie *usb.InEndpoint
}

func (t usbTransport) Write(p []byte) (int, error) { return t.oe.Write(p) }
func (t usbTransport) Read(p []byte) (int, error)  { return t.ie.Read(p) }

// Open connects to the CH56x bootloader over USB. The busAddr selects the
// device by its BUS:ADDR location if there are more than one.
func Open(busAddr string) (conn *Conn, err error) {
	defer wrapErr("Open", &err)
	ctx, dev, err := util.OpenUSB(Vendor, Product, busAddr)
	if err != nil {
		return nil, err
	}
	dev.SetAutoDetach(true)
	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	closeAll := func() error {
		done()
		dev.Close()
		return ctx.Close()
	}
	oe, err := intf.OutEndpoint(EndpointOut & 0x0f)
	if err != nil {
		closeAll()
		return nil, err
	}
	ie, err := intf.InEndpoint(EndpointIn & 0x0f)
	if err != nil {
		closeAll()
		return nil, err
	}
	return NewConn(usbTransport{oe, ie}, closeAll), nil
}
