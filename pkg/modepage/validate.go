// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modepage

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedPageID     = errors.New("unexpected mode page id")
	ErrUnexpectedPageLength = errors.New("unexpected mode page length")
	ErrUnexpectedMagic      = errors.New("unexpected mode page magic")
	ErrLEDNotChangeable     = errors.New("LED bits don't appear changeable")
)

// ValidationError names the variant and byte that failed validation.
type ValidationError struct {
	Err     error
	Variant PageControl
	Value   uint8
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v (%s 0x%02x)", e.Err, e.Variant, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks that vs looks like the LED page of a supported device and
// that the LED byte can be written. Checks run in a fixed order and the first
// failure is returned.
func Validate(vs *VariantSet) error {
	for _, pc := range PageControls {
		if c := vs.Get(pc).Code(); c != CodeSaveable {
			return &ValidationError{Err: ErrUnexpectedPageID, Variant: pc, Value: c}
		}
	}
	for _, pc := range PageControls {
		if l := vs.Get(pc).Length(); l != PayloadSize {
			return &ValidationError{Err: ErrUnexpectedPageLength, Variant: pc, Value: l}
		}
	}
	if m := vs.Current.Magic(); m != Magic {
		return &ValidationError{Err: ErrUnexpectedMagic, Variant: PageControlCurrent, Value: m}
	}
	// Every bit of the LED byte has to be writable
	if m := vs.Changeable.LED(); m != 0xff {
		return &ValidationError{Err: ErrLEDNotChangeable, Variant: PageControlChangeable, Value: m}
	}
	return nil
}
