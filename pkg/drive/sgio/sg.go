// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Copyright 2021 Christian Svensson. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// SCSI generic IO functions.

package sgio

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
)

type CDBDirection int32

const (
	CDBNone         CDBDirection = -1
	CDBToDevice     CDBDirection = -2
	CDBFromDevice   CDBDirection = -3
	CDBToFromDevice CDBDirection = -4

	SG_INFO_OK_MASK = 0x1
	SG_INFO_OK      = 0x0

	SG_IO = 0x2285

	// Timeout in milliseconds
	DEFAULT_TIMEOUT = 20000

	DRIVER_SENSE = 0x8

	SENSE_BUF_LEN = 32
)

// Sense keys, SPC-4 table 51
const (
	SenseNoSense        = 0x0
	SenseRecoveredError = 0x1
	SenseNotReady       = 0x2
	SenseMediumError    = 0x3
	SenseHardwareError  = 0x4
	SenseIllegalRequest = 0x5
	SenseUnitAttention  = 0x6
	SenseDataProtect    = 0x7
	SenseAbortedCommand = 0xb
)

var (
	ErrIllegalRequest = errors.New("illegal SCSI request")

	senseKeyNames = map[uint8]string{
		SenseNoSense:        "no sense",
		SenseRecoveredError: "recovered error",
		SenseNotReady:       "not ready",
		SenseMediumError:    "medium error",
		SenseHardwareError:  "hardware error",
		SenseIllegalRequest: "illegal request",
		SenseUnitAttention:  "unit attention",
		SenseDataProtect:    "data protect",
		SenseAbortedCommand: "aborted command",
	}
)

// SCSI CDB types
type (
	CDB6  [6]byte
	CDB10 [10]byte
	CDB12 [12]byte
	CDB16 [16]byte
)

// SenseError carries the decoded sense data of a failed command.
type SenseError struct {
	Key  uint8
	ASC  uint8
	ASCQ uint8
}

func (e *SenseError) Error() string {
	name, ok := senseKeyNames[e.Key]
	if !ok {
		name = "sense key"
	}
	return fmt.Sprintf("SCSI status: %s (%#02x), asc/ascq: %#02x/%#02x", name, e.Key, e.ASC, e.ASCQ)
}

func (e *SenseError) Is(target error) bool {
	return target == ErrIllegalRequest && e.Key == SenseIllegalRequest
}

// decodeSense parses fixed (0x70/0x71) and descriptor (0x72/0x73) format sense
// data. It returns nil if the response code is not recognised.
func decodeSense(sense []byte) *SenseError {
	if len(sense) < 4 {
		return nil
	}
	switch sense[0] & 0x7f {
	case 0x70, 0x71:
		e := &SenseError{Key: sense[2] & 0x0f}
		if len(sense) >= 14 && sense[7] >= 6 {
			e.ASC, e.ASCQ = sense[12], sense[13]
		}
		return e
	case 0x72, 0x73:
		return &SenseError{Key: sense[1] & 0x0f, ASC: sense[2], ASCQ: sense[3]}
	}
	return nil
}

// SCSI generic ioctl header, defined as sg_io_hdr_t in <scsi/sg.h>
type sgIoHdr struct {
	interface_id    int32        // 'S' for SCSI generic (required)
	dxfer_direction CDBDirection // data transfer direction
	cmd_len         uint8        // SCSI command length (<= 16 bytes)
	mx_sb_len       uint8        // max length to write to sbp
	iovec_count     uint16       //nolint:structcheck,unused // 0 implies no scatter gather
	dxfer_len       uint32       // byte count of data transfer
	dxferp          uintptr      // points to data transfer memory or scatter gather list
	cmdp            uintptr      // points to command to perform
	sbp             uintptr      // points to sense_buffer memory
	timeout         uint32       // MAX_UINT -> no timeout (unit: millisec)
	flags           uint32       //nolint:structcheck,unused // 0 -> default, see SG_FLAG...
	pack_id         int32        //nolint:structcheck,unused // unused internally (normally)
	usr_ptr         uintptr      //nolint:structcheck,unused // unused internally
	status          uint8        // SCSI status
	masked_status   uint8        //nolint:structcheck,unused // shifted, masked scsi status
	msg_status      uint8        //nolint:structcheck,unused // messaging level data (optional)
	sb_len_wr       uint8        // byte count actually written to sbp
	host_status     uint16       // errors from host adapter
	driver_status   uint16       // errors from software driver
	resid           int32        //nolint:structcheck,unused // dxfer_len - actual_transferred
	duration        uint32       //nolint:structcheck,unused // time taken by cmd (unit: millisec)
	info            uint32       // auxiliary information
}

func execGenericIO(fd uintptr, hdr *sgIoHdr, sense []byte) error {
	if err := ioctl.Ioctl(fd, SG_IO, uintptr(unsafe.Pointer(hdr))); err != nil {
		return err
	}

	// See http://www.t10.org/lists/2status.htm for SCSI status codes
	if hdr.info&SG_INFO_OK_MASK != SG_INFO_OK {
		if hdr.driver_status&0xf == DRIVER_SENSE || hdr.sb_len_wr > 0 {
			n := int(hdr.sb_len_wr)
			if n == 0 || n > len(sense) {
				n = len(sense)
			}
			if e := decodeSense(sense[:n]); e != nil {
				return e
			}
		}
		return fmt.Errorf("SCSI status: %#02x, host status: %#02x, driver status: %#02x, response: %#02x",
			hdr.status, hdr.host_status, hdr.driver_status, sense[0])
	}

	return nil
}

// SendCDB issues cdb on fd. buf is the data-in or data-out buffer and may be
// nil for commands without a data phase, in which case dir must be CDBNone.
func SendCDB(fd uintptr, cdb []byte, dir CDBDirection, buf *[]byte) error {
	senseBuf := make([]byte, SENSE_BUF_LEN)

	hdr := sgIoHdr{
		interface_id:    'S',
		dxfer_direction: dir,
		timeout:         DEFAULT_TIMEOUT,
		cmd_len:         uint8(len(cdb)),
		mx_sb_len:       uint8(len(senseBuf)),
		cmdp:            uintptr(unsafe.Pointer(&cdb[0])),
		sbp:             uintptr(unsafe.Pointer(&senseBuf[0])),
	}
	if buf != nil && len(*buf) > 0 {
		hdr.dxfer_len = uint32(len(*buf))
		hdr.dxferp = uintptr(unsafe.Pointer(&(*buf)[0]))
	} else if dir != CDBNone {
		return fmt.Errorf("SendCDB: empty buffer for data transfer")
	}

	return execGenericIO(fd, &hdr, senseBuf)
}
