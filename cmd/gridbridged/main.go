// Command gridbridged bridges a Monome-family grid controller's serial
// protocol to network clients speaking OSC, reimplementing the serialosc
// service contract described in this repository's specification.
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/monome-tools/gridbridge/internal/bridge"
	"github.com/monome-tools/gridbridge/internal/gridlog"
	"github.com/monome-tools/gridbridge/internal/serialport"
)

const version = "0.1.0"

const defaultSysID = "monome"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	flags := flag.NewFlagSet("gridbridged", flag.ContinueOnError)
	debug := flags.BoolP("debug", "d", false, "enable verbose logging")
	showVersion := flags.BoolP("version", "V", false, "print version and exit")

	if err := flags.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Println("gridbridged", version)
		return 0
	}

	args := flags.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: gridbridged [-d|--debug] [-V|--version] <tty-path>")
		return 1
	}
	ttyPath := args[0]

	if _, err := os.Stat(ttyPath); err != nil {
		fmt.Fprintf(os.Stderr, "gridbridged: no such device: %s\n", ttyPath)
		return 1
	}

	log := gridlog.New(*debug)

	port, err := serialport.Open(ttyPath)
	if err != nil {
		log.Error("failed to open serial device", "path", ttyPath, "error", err)
		return 1
	}
	defer port.Close()

	controller := bridge.New(port, defaultSysID, log)
	if err := controller.Listen(bridge.DefaultDiscoveryAddr); err != nil {
		log.Error("failed to start", "error", err)
		return 1
	}

	log.Info("gridbridged ready", "tty", ttyPath, "discovery_port", controller.DiscoveryPort())

	if err := controller.Dispatch(); err != nil {
		log.Error("serial link closed", "error", err)
		return 1
	}
	return 0
}
