// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wdled

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/open-source-firmware/go-wdled/pkg/modepage"
)

const (
	// Read without vendor/product checks
	TokenForceGet = "FORCEGET"
	// Prefix to set without vendor/product checks
	TokenForceSet = "FORCESET:"
	// Prefix to have the disk remember the value
	TokenSave = "save:"
)

var ErrInvalidRequestedValue = errors.New("unknown value")

// Request is what the caller wants done with the LED.
type Request struct {
	// Set is true if LED should be written
	Set  bool
	LED  uint8
	Save bool
	// Force skips the supported device check
	Force bool
}

// ParseRequest parses a value argument. An empty argument is a plain read.
func ParseRequest(arg string) (Request, error) {
	var req Request
	if arg == "" {
		return req, nil
	}
	if arg == TokenForceGet {
		req.Force = true
		return req, nil
	}
	if strings.HasPrefix(arg, TokenForceSet) {
		arg = arg[len(TokenForceSet):]
		req.Force = true
	}
	if len(arg) >= len(TokenSave) && strings.EqualFold(arg[:len(TokenSave)], TokenSave) {
		arg = arg[len(TokenSave):]
		req.Save = true
	}
	v, err := ParseValue(arg)
	if err != nil {
		return Request{}, err
	}
	req.Set = true
	req.LED = v
	return req, nil
}

// ParseValue parses "off", "on" or an integer in [0, 255]. Integers are
// decimal, hex with a 0x prefix or octal with a leading 0.
func ParseValue(s string) (uint8, error) {
	switch s {
	case "off":
		return modepage.LEDOff, nil
	case "on":
		return modepage.LEDOn, nil
	}
	digits, base := s, 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits, base = s[2:], 16
	case len(s) > 1 && s[0] == '0':
		digits, base = s[1:], 8
	}
	// An explicit base keeps ParseUint from accepting 0b, 0o and '_' separators
	v, err := strconv.ParseUint(digits, base, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRequestedValue, s)
	}
	return uint8(v), nil
}
