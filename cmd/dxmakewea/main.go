package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/chrissnell/dxanalemma/internal/log"
	"github.com/chrissnell/dxanalemma/pkg/weather"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <weather.epw|tmy3.csv> <output.wea>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("dxmakewea %s\n", version)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	level := "info"
	if *debug {
		level = "debug"
	}
	if err := log.Init(level, ""); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	in, out := flag.Arg(0), flag.Arg(1)
	data, err := weather.Parse(in)
	if err != nil {
		log.Errorf("Failed to read weather data: %v", err)
		log.Sync()
		os.Exit(1)
	}
	log.Debugw("parsed weather file", "file", in, "format", data.Format, "place", data.Place)

	if err := data.WriteWeaFile(out); err != nil {
		log.Errorf("Failed to write %s: %v", out, err)
		log.Sync()
		os.Exit(1)
	}
	log.Infof("wrote %s hourly records to %s", humanize.Comma(int64(len(data.Records))), out)
}
