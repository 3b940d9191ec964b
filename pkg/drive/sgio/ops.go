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

package sgio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	SCSI_INQUIRY        = 0x12
	SCSI_MODE_SELECT_10 = 0x55
	SCSI_MODE_SENSE_10  = 0x5a

	INQ_REPLY_LEN = 36 // Minimum length of standard INQUIRY response

	// Allocation length used for MODE SENSE(10), enough for the header,
	// one long LBA block descriptor and a page.
	MODE_SENSE_ALLOC_LEN = 252
)

// SCSI INQUIRY response
type InquiryResponse struct {
	Peripheral   byte // peripheral qualifier, device type
	_            byte
	Version      byte
	_            [5]byte
	VendorIdent  [8]byte
	ProductIdent [16]byte
	ProductRev   [4]byte
}

func (inq InquiryResponse) String() string {
	return fmt.Sprintf("Type=0x%x, Vendor=%s, Product=%s, Revision=%s",
		inq.Peripheral,
		strings.TrimSpace(string(inq.VendorIdent[:])),
		strings.TrimSpace(string(inq.ProductIdent[:])),
		strings.TrimSpace(string(inq.ProductRev[:])))
}

func inquiryCDB(allocLen uint16) CDB6 {
	cdb := CDB6{SCSI_INQUIRY}
	binary.BigEndian.PutUint16(cdb[3:], allocLen)
	return cdb
}

// modeSense10CDB builds a MODE SENSE(10) CDB. pageControl is the two bit PC
// field selecting current, changeable, default or saved values.
func modeSense10CDB(pageNum, subPageNum, pageControl uint8, dbd bool, allocLen uint16) CDB10 {
	cdb := CDB10{SCSI_MODE_SENSE_10}
	if dbd {
		cdb[1] = 1 << 3
	}
	cdb[2] = (pageControl&0x3)<<6 | (pageNum & 0x3f)
	cdb[3] = subPageNum
	binary.BigEndian.PutUint16(cdb[7:], allocLen)
	return cdb
}

// modeSelect10CDB builds a MODE SELECT(10) CDB with the PF and SP bits.
func modeSelect10CDB(pageFormat, save bool, paramLen uint16) CDB10 {
	cdb := CDB10{SCSI_MODE_SELECT_10}
	if pageFormat {
		cdb[1] |= 1 << 4
	}
	if save {
		cdb[1] |= 1
	}
	binary.BigEndian.PutUint16(cdb[7:], paramLen)
	return cdb
}

// INQUIRY - Returns parsed inquiry data.
func SCSIInquiry(fd uintptr) (InquiryResponse, error) {
	var resp InquiryResponse

	respBuf := make([]byte, INQ_REPLY_LEN)

	cdb := inquiryCDB(uint16(len(respBuf)))
	if err := SendCDB(fd, cdb[:], CDBFromDevice, &respBuf); err != nil {
		return resp, err
	}

	if err := binary.Read(bytes.NewReader(respBuf), binary.BigEndian, &resp); err != nil {
		return resp, fmt.Errorf("failed to parse inquiry response: %v", err)
	}

	return resp, nil
}

// SCSI MODE SENSE(10) - Returns the raw response, mode parameter header included
func SCSIModeSense10(fd uintptr, pageNum, subPageNum, pageControl uint8, dbd bool) ([]byte, error) {
	respBuf := make([]byte, MODE_SENSE_ALLOC_LEN)

	cdb := modeSense10CDB(pageNum, subPageNum, pageControl, dbd, uint16(len(respBuf)))
	if err := SendCDB(fd, cdb[:], CDBFromDevice, &respBuf); err != nil {
		return nil, err
	}

	return respBuf, nil
}

// SCSI MODE SELECT(10) - param is the complete parameter list, header included.
// If save is set the device is asked to also store the pages in non-volatile memory.
func SCSIModeSelect10(fd uintptr, param []byte, save bool) error {
	if len(param) > 0xffff {
		return fmt.Errorf("SCSIModeSelect10: parameter list too long (%d bytes)", len(param))
	}
	cdb := modeSelect10CDB(true, save, uint16(len(param)))
	dir := CDBToDevice
	if len(param) == 0 {
		dir = CDBNone
	}
	if err := SendCDB(fd, cdb[:], dir, &param); err != nil {
		return err
	}
	return nil
}
