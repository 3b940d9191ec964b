// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Reads and sets the LED mode of WD My Passport disks through vendor mode
// page 0x21.

package wdled

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/open-source-firmware/go-wdled/pkg/drive"
	"github.com/open-source-firmware/go-wdled/pkg/modepage"
)

var (
	ErrOpenFailed    = errors.New("failed to open")
	ErrInquiryFailed = errors.New("inquiry failed")
	ErrFetchFailed   = errors.New("get mode page failed")
	ErrSubmitFailed  = errors.New("set mode page failed")
)

// Opener opens a device. readOnly is set when no write will be issued.
type Opener func(device string, readOnly bool) (drive.DriveIntf, error)

// Status is what was learned about the device during a run.
type Status struct {
	Device   string
	Identity *drive.Identity
	Pages    *modepage.VariantSet
	LED      modepage.LEDState
	// Written is set once the MODE SELECT has been accepted
	Written bool
}

// Controller runs a single read and optional write against one device.
type Controller struct {
	Open      Opener
	Supported SupportTable
	// Report is called once the page has been validated, before any write.
	Report func(*Status) error
	Log    *log.Logger
}

// NewController returns a Controller using drive.Open and the built-in device
// table.
func NewController(logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		Open:      drive.Open,
		Supported: Supported,
		Log:       logger,
	}
}

// Run opens device, checks it, reads the LED page and reports it. If req.Set
// is true the new LED value is written afterwards. Errors are prefixed with the
// device path and are never retried.
func (c *Controller) Run(device string, req Request) (*Status, error) {
	st, err := c.run(device, req)
	if err != nil {
		return st, fmt.Errorf("%s: %w", device, err)
	}
	return st, nil
}

func (c *Controller) run(device string, req Request) (*Status, error) {
	logger := c.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if req.Force {
		logger.Printf("WARNING: Skipping supported vendor/product checks!")
	}

	d, err := c.Open(device, !req.Set)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrOpenFailed, err)
	}
	defer d.Close()

	st := &Status{Device: device}
	st.Identity, err = d.Identify()
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrInquiryFailed, err)
	}
	logger.Printf("%s: %s", device, st.Identity)

	supported := c.Supported
	if supported == nil {
		supported = Supported
	}
	if err := supported.Check(st.Identity.Vendor, st.Identity.Product); err != nil {
		if !req.Force {
			return st, err
		}
		if errors.Is(err, ErrUnknownVendor) {
			logger.Printf("MANUALLY SKIPPED UNSUPPORTED VENDOR CHECK!")
		} else {
			logger.Printf("MANUALLY SKIPPED UNSUPPORTED DEVICE CHECK!")
		}
	}

	st.Pages, err = modepage.Fetch(d, modepage.PageCode)
	if err != nil {
		return st, fmt.Errorf("%w (%v)", ErrFetchFailed, err)
	}
	if err := modepage.Validate(st.Pages); err != nil {
		return st, err
	}

	st.LED = modepage.ReadLED(st.Pages)
	if c.Report != nil {
		if err := c.Report(st); err != nil {
			return st, err
		}
	}

	if !req.Set {
		return st, nil
	}
	param := modepage.BuildSelect(st.Pages.Current, req.LED)
	if err := d.ModeSelect(param, req.Save); err != nil {
		return st, fmt.Errorf("%w (%v)", ErrSubmitFailed, err)
	}
	st.Written = true
	return st, nil
}
