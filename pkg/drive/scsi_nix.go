// Copyright (c) 2021 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/open-source-firmware/go-wdled/pkg/drive/sgio"
	"github.com/open-source-firmware/go-wdled/pkg/modepage"
)

type FdIntf interface {
	Fd() uintptr
	Close() error
}

type scsiDrive struct {
	fd FdIntf
}

func (d *scsiDrive) Identify() (*Identity, error) {
	id, err := sgio.SCSIInquiry(d.fd.Fd())
	runtime.KeepAlive(d.fd)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Vendor:   strings.TrimSpace(string(id.VendorIdent[:])),
		Product:  strings.TrimSpace(string(id.ProductIdent[:])),
		Revision: strings.TrimSpace(string(id.ProductRev[:])),
	}, nil
}

func (d *scsiDrive) ModeSense(page uint8, pc modepage.PageControl, buf []byte) error {
	// Block descriptors are disabled, extractPage copes with devices that send them anyway
	resp, err := sgio.SCSIModeSense10(d.fd.Fd(), page, 0, uint8(pc), true)
	runtime.KeepAlive(d.fd)
	if errors.Is(err, sgio.ErrIllegalRequest) {
		return fmt.Errorf("%w: %v", ErrNotSupported, err)
	}
	if err != nil {
		return err
	}
	return extractPage(resp, page, buf)
}

func (d *scsiDrive) ModeSelect(param []byte, save bool) error {
	err := sgio.SCSIModeSelect10(d.fd.Fd(), param, save)
	runtime.KeepAlive(d.fd)
	return err
}

func (d *scsiDrive) Close() error {
	return d.fd.Close()
}

func SCSIDrive(fd FdIntf) *scsiDrive {
	// Save the full object reference to avoid the underlying File-like object
	// to be GC'd
	return &scsiDrive{fd: fd}
}

func isSCSI(fd FdIntf) bool {
	_, err := sgio.SCSIInquiry(fd.Fd())
	return err == nil
}
