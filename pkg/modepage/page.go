// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Implements the WD vendor mode page 0x21 which controls the enclosure LED
// of My Passport disks. The layout beyond the LED byte is not documented by
// the vendor and was worked out by observation.

package modepage

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// Size of the in-memory page record, header bytes included.
	Size = 32

	PageCode = 0x21
	Magic    = 0x30

	PSBit    = 1 << 7 // Parameters saveable
	SPFBit   = 1 << 6 // Sub page format
	CodeMask = 0x7f

	// CodeSaveable is what every variant of a healthy page reports in its first byte.
	CodeSaveable = PageCode | PSBit

	// Length of the vendor payload following the code and length bytes.
	PayloadSize = 10

	LEDOff = 0x00
	LEDOn  = 0xff
)

// Byte offsets into a Page.
const (
	offCode   = 0
	offLength = 1
	offMagic  = 2 // Version? Not modifiable
	offFlags  = 5 // Some bits modifiable, meaning unknown
	offLED    = 8
)

// Page holds one variant of the vendor mode page as returned by MODE SENSE.
// Only the first 2+PayloadSize bytes carry data, the rest is padding.
type Page [Size]byte

// Decode copies b into a Page. Any byte pattern is accepted: input shorter than
// Size is zero padded and longer input is cut off.
func Decode(b []byte) Page {
	var p Page
	copy(p[:], b)
	return p
}

func (p Page) Code() uint8   { return p[offCode] }
func (p Page) Length() uint8 { return p[offLength] }
func (p Page) Magic() uint8  { return p[offMagic] }
func (p Page) Flags() uint8  { return p[offFlags] }
func (p Page) LED() uint8    { return p[offLED] }

func (p *Page) SetCode(v uint8) { p[offCode] = v }
func (p *Page) SetLED(v uint8)  { p[offLED] = v }

// Saveable reports whether the PS bit is set.
func (p Page) Saveable() bool { return p[offCode]&PSBit != 0 }

// Bytes returns the meaningful part of the page: code, length and payload.
func (p Page) Bytes() []byte {
	return p[:2+PayloadSize]
}

func (p Page) String() string {
	return fmt.Sprintf("Code=0x%02x, Length=%d, Magic=0x%02x, Flags=0x%02x, LED=0x%02x",
		p.Code(), p.Length(), p.Magic(), p.Flags(), p.LED())
}

// ParameterHeader is the mode parameter header preceding the mode pages in
// MODE SENSE(10) data and MODE SELECT(10) parameter lists. For MODE SELECT it
// may be entirely zero.
type ParameterHeader struct {
	DataLength            uint16
	MediumType            uint8
	DeviceSpecific        uint8 // WP/DPOFUA bits
	Flags                 uint8 // LONGLBA bit
	_                     uint8
	BlockDescriptorLength uint16
}

// HeaderSize is the encoded size of a ParameterHeader.
const HeaderSize = 8

// SelectLength is the length of a MODE SELECT parameter list carrying the page.
// The page padding is never sent.
const SelectLength = HeaderSize + 2 + PayloadSize

// DecodeHeader parses a mode parameter header from the start of b.
func DecodeHeader(b []byte) (ParameterHeader, error) {
	var hdr ParameterHeader
	if err := binary.Read(bytes.NewReader(b), binary.BigEndian, &hdr); err != nil {
		return hdr, fmt.Errorf("failed to parse mode parameter header: %v", err)
	}
	return hdr, nil
}

// EncodeSelect frames p behind hdr for MODE SELECT. Only the code, length and
// payload bytes of p are sent, so the result is SelectLength bytes long.
func EncodeSelect(hdr ParameterHeader, p Page) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, SelectLength))
	// Writes to a bytes.Buffer of fixed-size values can not fail
	_ = binary.Write(buf, binary.BigEndian, &hdr)
	buf.Write(p.Bytes())
	return buf.Bytes()
}

// decodeSelect splits a MODE SELECT parameter list produced by EncodeSelect.
func decodeSelect(b []byte) (ParameterHeader, Page, error) {
	if len(b) < HeaderSize {
		return ParameterHeader{}, Page{}, fmt.Errorf("parameter list too short (%d bytes)", len(b))
	}
	hdr, err := DecodeHeader(b)
	if err != nil {
		return hdr, Page{}, err
	}
	return hdr, Decode(b[HeaderSize:]), nil
}
