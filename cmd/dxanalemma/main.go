package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/chrissnell/dxanalemma/internal/app"
	"github.com/chrissnell/dxanalemma/internal/log"
	"github.com/chrissnell/dxanalemma/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// flagSettings maps command-line flags onto job settings
var flagSettings = map[string]string{
	"f":        "weather",
	"r":        "rotation",
	"m":        "material",
	"g":        "geometry",
	"s":        "matrix",
	"summary":  "summary",
	"catalog":  "catalog",
	"log-file": "log-file",
}

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML job file. Flags override values from the file")
	flag.String("f", "", "Weather file (EPW or TMY3)")
	flag.String("m", "", "Output file for the sun light materials")
	flag.String("g", "", "Output file for the sun source geometry")
	flag.String("s", "", "Output file for the sun matrix")
	flag.Float64("r", 0, "Building rotation in degrees")
	flag.String("summary", "", "Write a run summary here (.json or .msgpack)")
	flag.String("catalog", "", "Record the run in this SQLite catalog")
	flag.String("log-file", "", "Also write logs to this file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dxanalemma %s\n", version)
		os.Exit(0)
	}

	job, err := loadJob(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load job configuration: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		job.Logging.Level = "debug"
	}

	// Set up logging
	if err := log.Init(job.Logging.Level, job.Logging.File); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(job, log.GetSugaredLogger())
	if err := application.Run(ctx); err != nil {
		log.Errorf("Generation failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
}

// loadJob layers the job file, when given, over the defaults and then applies
// the flags set on the command line.
func loadJob(cfgFile string) (*config.JobData, error) {
	job := config.Default()
	if cfgFile != "" {
		filename, _ := filepath.Abs(cfgFile)
		provider := config.NewYAMLProvider(filename)
		defer provider.Close()

		var err error
		job, err = provider.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("error reading job file. Run with -h for help: %w", err)
		}
	}

	var setErr error
	flag.Visit(func(f *flag.Flag) {
		key, ok := flagSettings[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = job.Set(key, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	return job, nil
}
