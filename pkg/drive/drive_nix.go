// Copyright (c) 2021 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drive

import (
	"os"
	"syscall"
)

// Open opens the device node and checks that it answers SCSI commands.
// A read-only handle is enough for INQUIRY and MODE SENSE.
func Open(device string, readOnly bool) (DriveIntf, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	d, err := os.OpenFile(device, flag|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}

	if isSCSI(d) {
		return SCSIDrive(d), nil
	}

	d.Close()
	return nil, ErrDeviceNotSupported
}
