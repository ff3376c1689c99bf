// Package config loads analemma generation jobs.
package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ConfigProvider defines the interface for job configuration sources
type ConfigProvider interface {
	// Load the complete job, layered over the defaults
	LoadConfig() (*JobData, error)

	IsReadOnly() bool
	Close() error
}

// JobData is one analemma generation job
type JobData struct {
	Weather  string      `json:"weather" yaml:"weather"`
	Rotation float64     `json:"rotation" yaml:"rotation"`
	Output   OutputData  `json:"output" yaml:"output"`
	Catalog  string      `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Logging  LoggingData `json:"logging" yaml:"logging"`
}

// OutputData holds the paths of the generated files. Summary is optional.
type OutputData struct {
	Material string `json:"material" yaml:"material"`
	Geometry string `json:"geometry" yaml:"geometry"`
	Matrix   string `json:"matrix" yaml:"matrix"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

type LoggingData struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ErrInvalidJob is returned by Validate
var ErrInvalidJob = errors.New("invalid job configuration")

// Default returns a job with the stock output names and no weather file.
func Default() *JobData {
	return &JobData{
		Output: OutputData{
			Material: "suns_mat.rad",
			Geometry: "suns_geo.rad",
			Matrix:   "suns.smx",
		},
		Logging: LoggingData{
			Level: "info",
		},
	}
}

// Validate checks that every required path is set.
func (j *JobData) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"weather", j.Weather},
		{"output.material", j.Output.Material},
		{"output.geometry", j.Output.Geometry},
		{"output.matrix", j.Output.Matrix},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidJob, r.name)
		}
	}

	switch j.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidJob, j.Logging.Level)
	}
	return nil
}

// Set overrides one job field by its command-line name.
func (j *JobData) Set(key, value string) error {
	switch key {
	case "weather":
		j.Weather = value
	case "rotation":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: rotation %q is not a number", ErrInvalidJob, value)
		}
		j.Rotation = r
	case "material":
		j.Output.Material = value
	case "geometry":
		j.Output.Geometry = value
	case "matrix":
		j.Output.Matrix = value
	case "summary":
		j.Output.Summary = value
	case "catalog":
		j.Catalog = value
	case "log-level":
		j.Logging.Level = value
	case "log-file":
		j.Logging.File = value
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidJob, key)
	}
	return nil
}
