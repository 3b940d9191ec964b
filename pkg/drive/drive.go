// Copyright (c) 2021 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"errors"
	"fmt"

	"github.com/open-source-firmware/go-wdled/pkg/modepage"
)

var (
	ErrNotSupported       = errors.New("operation is not supported")
	ErrDeviceNotSupported = errors.New("device is not supported")
	ErrShortModeData      = errors.New("mode sense data too short")
	ErrPageMismatch       = errors.New("mode sense returned a different page")
)

type Identity struct {
	Vendor   string
	Product  string
	Revision string
}

func (i *Identity) String() string {
	return fmt.Sprintf("%s %s (rev %s)", i.Vendor, i.Product, i.Revision)
}

type DriveIntf interface {
	Identify
	ModePager
	Closer
}

type Identify interface {
	Identify() (*Identity, error)
}

type ModePager interface {
	modepage.ModeSenser
	ModeSelect(param []byte, save bool) error
}

type Closer interface {
	Close() error
}

// extractPage locates page in MODE SENSE(10) response data and copies it into
// buf, which is usually a modepage.Size buffer. The page is copied up to the
// length of buf or the end of the returned data, whichever comes first.
func extractPage(resp []byte, page uint8, buf []byte) error {
	hdr, err := modepage.DecodeHeader(resp)
	if err != nil {
		return ErrShortModeData
	}
	// Mode data length does not count itself
	end := int(hdr.DataLength) + 2
	if end > len(resp) {
		end = len(resp)
	}
	off := modepage.HeaderSize + int(hdr.BlockDescriptorLength)
	if off+2 > end {
		return fmt.Errorf("%w: %d bytes, page at offset %d", ErrShortModeData, end, off)
	}
	if got := resp[off] & 0x3f; got != page&0x3f {
		return fmt.Errorf("%w: 0x%02x, want 0x%02x", ErrPageMismatch, got, page)
	}
	copy(buf, resp[off:end])
	return nil
}
