// Copyright (c) 2026 by library authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"

	"github.com/open-source-firmware/go-wdled/pkg/wdled"
)

const (
	programName = "wdled"
	programDesc = "Control the LED mode of WD My Passport disks"
)

func description() string {
	var sb strings.Builder
	sb.WriteString(programDesc)
	sb.WriteString("\n\nExample: (to turn the LED off permanently)\n")
	sb.WriteString("  wdled /dev/disk/by-id/usb-WD_My_Passport_foo save:off\n")
	sb.WriteString("\nSupported devices:\n")
	for _, d := range wdled.Supported.List() {
		sb.WriteString("  " + d + "\n")
	}
	return sb.String()
}

func newParser(c *cmd, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(programName),
		kong.Description(description()),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	}, options...)
	return kong.New(c, options...)
}

func main() {
	spew.Config.Indent = "  "

	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger := log.New(os.Stderr, "", 0)
	c := wdled.NewController(logger)
	err = cli.run(c, os.Stdout)
	parser.FatalIfErrorf(err)
}
