// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modepage

import (
	"fmt"
)

// PageControl selects which variant of a mode page MODE SENSE returns.
type PageControl uint8

const (
	PageControlCurrent    PageControl = 0
	PageControlChangeable PageControl = 1
	PageControlDefault    PageControl = 2
	PageControlSaved      PageControl = 3
)

func (pc PageControl) String() string {
	switch pc {
	case PageControlCurrent:
		return "current"
	case PageControlChangeable:
		return "changeable"
	case PageControlDefault:
		return "default"
	case PageControlSaved:
		return "saved"
	}
	return fmt.Sprintf("PageControl(%d)", uint8(pc))
}

// VariantSet holds the four variants of the page read in one fetch.
// Changeable is a bit mask where 1 marks a modifiable bit in Current.
type VariantSet struct {
	Current    Page
	Changeable Page
	Default    Page
	Saved      Page
}

// Get returns the variant selected by pc.
func (vs *VariantSet) Get(pc PageControl) *Page {
	switch pc {
	case PageControlCurrent:
		return &vs.Current
	case PageControlChangeable:
		return &vs.Changeable
	case PageControlDefault:
		return &vs.Default
	case PageControlSaved:
		return &vs.Saved
	}
	return nil
}

// PageControls lists the variants in the order they are fetched and validated.
var PageControls = []PageControl{
	PageControlCurrent,
	PageControlChangeable,
	PageControlDefault,
	PageControlSaved,
}

// ModeSenser reads a single variant of a mode page into buf.
type ModeSenser interface {
	ModeSense(page uint8, pc PageControl, buf []byte) error
}

// Fetch reads all four variants of page from d. The first failing read aborts
// the fetch.
func Fetch(d ModeSenser, page uint8) (*VariantSet, error) {
	vs := &VariantSet{}
	for _, pc := range PageControls {
		buf := make([]byte, Size)
		if err := d.ModeSense(page, pc, buf); err != nil {
			return nil, fmt.Errorf("mode sense page 0x%02x (%s) failed: %w", page, pc, err)
		}
		*vs.Get(pc) = Decode(buf)
	}
	return vs, nil
}
