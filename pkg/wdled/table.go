// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wdled

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedDevice = errors.New("unsupported device")
	ErrUnknownVendor     = fmt.Errorf("%w: unknown or unsupported vendor", ErrUnsupportedDevice)
	ErrUnknownProduct    = fmt.Errorf("%w: unknown or unsupported product", ErrUnsupportedDevice)
)

// SupportTable maps an INQUIRY vendor identification to the product
// identifications known to carry the LED page. Both are compared with the
// INQUIRY space padding removed.
type SupportTable map[string]map[string]struct{}

// Supported lists the devices verified to work.
var Supported = SupportTable{
	"WD": {
		"My Passport 0837": {},
		"My Passport 259D": {},
		"My Passport 259E": {},
		"My Passport 259F": {},
		"My Passport 259A": {},
		"My Passport 25E1": {},
		"My Passport 25E2": {},
	},
}

// Check returns nil if the vendor/product pair is in the table, otherwise an
// error wrapping ErrUnknownVendor or ErrUnknownProduct.
func (st SupportTable) Check(vendor, product string) error {
	products, ok := st[strings.TrimSpace(vendor)]
	if !ok {
		return ErrUnknownVendor
	}
	if _, ok := products[strings.TrimSpace(product)]; !ok {
		return ErrUnknownProduct
	}
	return nil
}

// Merge returns a new table holding the entries of st and other.
func (st SupportTable) Merge(other SupportTable) SupportTable {
	res := SupportTable{}
	for _, t := range []SupportTable{st, other} {
		for v, products := range t {
			if res[v] == nil {
				res[v] = map[string]struct{}{}
			}
			for p := range products {
				res[v][p] = struct{}{}
			}
		}
	}
	return res
}

// List returns "VENDOR PRODUCT" strings in sorted order.
func (st SupportTable) List() []string {
	var res []string
	for v, products := range st {
		for p := range products {
			res = append(res, v+" "+p)
		}
	}
	sort.Strings(res)
	return res
}

// DeviceFile is the YAML document accepted by LoadSupportTable:
//
//	devices:
//	  - vendor: WD
//	    products:
//	      - My Passport 2626
type DeviceFile struct {
	Devices []DeviceEntry `yaml:"devices"`
}

type DeviceEntry struct {
	Vendor   string   `yaml:"vendor"`
	Products []string `yaml:"products"`
}

// LoadSupportTable reads additional supported devices from a YAML document.
func LoadSupportTable(r io.Reader) (SupportTable, error) {
	var df DeviceFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse device file: %v", err)
	}

	st := SupportTable{}
	for i, d := range df.Devices {
		vendor := strings.TrimSpace(d.Vendor)
		if vendor == "" {
			return nil, fmt.Errorf("devices[%d]: vendor is required", i)
		}
		if len(vendor) > 8 {
			return nil, fmt.Errorf("devices[%d]: vendor %q longer than 8 characters", i, vendor)
		}
		if len(d.Products) == 0 {
			return nil, fmt.Errorf("devices[%d]: no products for vendor %q", i, vendor)
		}
		if st[vendor] == nil {
			st[vendor] = map[string]struct{}{}
		}
		for j, p := range d.Products {
			p = strings.TrimSpace(p)
			if p == "" || len(p) > 16 {
				return nil, fmt.Errorf("devices[%d].products[%d]: invalid product %q", i, j, p)
			}
			st[vendor][p] = struct{}{}
		}
	}
	return st, nil
}
