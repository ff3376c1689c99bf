// Package summary reports the outcome of an analemma run in JSON or
// MessagePack.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/dxanalemma/internal/analemma"
)

// Format is the encoding of a summary file
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// Summary describes one generation run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Weather     string    `json:"weather"`
	Place       string    `json:"place"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	TimeZone    float64   `json:"time_zone"`
	Rotation    float64   `json:"rotation"`

	Suns              int   `json:"suns"`
	DaylightHours     int   `json:"daylight_hours"`
	BelowHorizonHours int   `json:"below_horizon_hours"`
	MatrixRows        int   `json:"matrix_rows"`
	HoursPerSun       Stats `json:"hours_per_sun"`

	// Annual sum of the hourly direct normal irradiance, Wh/m²
	AnnualDirectNormal float64 `json:"annual_direct_normal"`
}

// Stats summarizes how many hours each representative sun stands in for.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Max    float64 `json:"max"`
}

// FromResult fills the counts and statistics of a summary from a sweep result
// and the irradiance series used for its matrix.
func FromResult(res *analemma.Result, directNormal []float64) Summary {
	daylight := res.Assignments.DaylightHours()
	s := Summary{
		Suns:              len(res.Suns),
		DaylightHours:     daylight,
		BelowHorizonHours: analemma.HoursPerYear - daylight,
		MatrixRows:        len(res.Suns) * analemma.HoursPerYear,
	}
	if len(directNormal) > 0 {
		s.AnnualDirectNormal = floats.Sum(directNormal)
	}

	if len(res.Suns) == 0 {
		return s
	}
	counts := res.Assignments.HoursPerSun(len(res.Suns))
	x := make([]float64, len(counts))
	for i, n := range counts {
		x[i] = float64(n)
	}
	s.HoursPerSun.Mean, s.HoursPerSun.StdDev = stat.MeanStdDev(x, nil)
	s.HoursPerSun.Max = floats.Max(x)
	return s
}

// FormatForPath picks MessagePack for .msgpack and .mpk files and JSON
// otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return FormatMsgPack
	default:
		return FormatJSON
	}
}

// Encode writes s to w in the given format.
func Encode(w io.Writer, f Format, s Summary) error {
	if f == FormatMsgPack {
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Decode reads a summary written by Encode.
func Decode(r io.Reader, f Format) (Summary, error) {
	var s Summary
	var err error
	if f == FormatMsgPack {
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		err = dec.Decode(&s)
	} else {
		err = json.NewDecoder(r).Decode(&s)
	}
	return s, err
}

// WriteFile writes s to path, choosing the format from the extension.
func WriteFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating summary file: %w", err)
	}
	if err := Encode(f, FormatForPath(path), s); err != nil {
		f.Close()
		return fmt.Errorf("error encoding summary: %w", err)
	}
	return f.Close()
}

// ReadFile reads a summary file written by WriteFile.
func ReadFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	s, err := Decode(f, FormatForPath(path))
	if err != nil {
		return Summary{}, fmt.Errorf("error decoding summary %s: %w", path, err)
	}
	return s, nil
}
