// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modepage

import (
	"fmt"
)

// LEDState is the LED byte of each reported variant.
type LEDState struct {
	Current uint8
	Default uint8
	Saved   uint8
}

func (s LEDState) String() string {
	return fmt.Sprintf("current=%d default=%d saved=%d", s.Current, s.Default, s.Saved)
}

// ReadLED projects the LED byte out of a validated set. The changeable mask is
// not part of the state.
func ReadLED(vs *VariantSet) LEDState {
	return LEDState{
		Current: vs.Current.LED(),
		Default: vs.Default.LED(),
		Saved:   vs.Saved.LED(),
	}
}

// LEDMode names an LED byte. Values other than LEDOff and LEDOn are not
// defined by the vendor; the disk shows an error pattern for them.
func LEDMode(v uint8) string {
	switch v {
	case LEDOff:
		return "off"
	case LEDOn:
		return "on"
	}
	return "undefined"
}

// BuildSelect returns the MODE SELECT parameter list that writes led into the
// page. Everything but the LED byte is taken from current, with the PS bit
// cleared since saving is requested through the CDB and not the page.
func BuildSelect(current Page, led uint8) []byte {
	p := current
	p.SetCode(current.Code() & CodeMask)
	p.SetLED(led)
	return EncodeSelect(ParameterHeader{}, p)
}
