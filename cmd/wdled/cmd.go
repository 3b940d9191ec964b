package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/open-source-firmware/go-wdled/pkg/modepage"
	"github.com/open-source-firmware/go-wdled/pkg/wdled"
)

// cli is the main command line interface struct required by kong command line parser
var cli cmd

type cmd struct {
	Device  string `arg:"" required:"" help:"SCSI device to control (e.g /dev/disk/by-id/usb-WD_My_Passport_...)"`
	Value   string `arg:"" optional:"" help:"LED mode to set ('on' or 'off', 0 or 255). Omit to read the current mode. Prefix with 'save:' to have the disk remember the LED mode"`
	Force   bool   `optional:"" short:"f" help:"Skip supported vendor/product checks (same as the FORCEGET and FORCESET: value prefixes)"`
	Output  string `optional:"" short:"o" default:"text" enum:"text,json,openmetrics" help:"Output format; one of [text, json, openmetrics]"`
	Devices string `optional:"" type:"existingfile" env:"WDLED_DEVICES" help:"YAML file listing additional supported devices"`
	Verbose bool   `optional:"" short:"v" help:"Dump the raw mode page variants to stderr"`
}

// ledReport is the JSON form of a successful read
type ledReport struct {
	Device   string
	Vendor   string
	Product  string
	Revision string
	Current  ledValue
	Default  ledValue
	Saved    ledValue
}

type ledValue struct {
	Value uint8
	Mode  string
}

func newLEDValue(v uint8) ledValue {
	return ledValue{Value: v, Mode: modepage.LEDMode(v)}
}

// run validates the arguments before the device is touched, then hands over
// to the controller.
func (c *cmd) run(ctrl *wdled.Controller, out io.Writer) error {
	req, err := wdled.ParseRequest(c.Value)
	if err != nil {
		return err
	}
	if c.Force {
		req.Force = true
	}

	if c.Devices != "" {
		f, err := os.Open(c.Devices)
		if err != nil {
			return fmt.Errorf("open device file failed: %v", err)
		}
		extra, err := wdled.LoadSupportTable(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %v", c.Devices, err)
		}
		ctrl.Supported = ctrl.Supported.Merge(extra)
	}

	ctrl.Report = func(st *wdled.Status) error {
		if c.Verbose {
			spew.Fdump(os.Stderr, st.Pages)
		}
		return c.report(out, st)
	}

	_, err = ctrl.Run(c.Device, req)
	return err
}

func (c *cmd) report(out io.Writer, st *wdled.Status) error {
	switch c.Output {
	case "json":
		return outputJSON(out, st)
	case "openmetrics":
		return outputMetrics(out, st)
	}
	_, err := fmt.Fprintf(out, "LED: %s\n", st.LED)
	return err
}

func outputJSON(out io.Writer, st *wdled.Status) error {
	r := ledReport{
		Device:  st.Device,
		Current: newLEDValue(st.LED.Current),
		Default: newLEDValue(st.LED.Default),
		Saved:   newLEDValue(st.LED.Saved),
	}
	if st.Identity != nil {
		r.Vendor, r.Product, r.Revision = st.Identity.Vendor, st.Identity.Product, st.Identity.Revision
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %v", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", b)
	return err
}
