// Package weather reads typical-year weather files (EnergyPlus EPW and NREL
// TMY3) and exposes the site location and the hourly direct normal
// irradiance needed to weight an analemma sun matrix.
package weather

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/chrissnell/dxanalemma/pkg/solar"
)

// HoursPerYear is the number of hourly records in a non-leap typical year.
const HoursPerYear = 8760

// missingValue is the EPW/TMY sentinel for an unmeasured quantity
const missingValue = 9999

var (
	// ErrUnknownFormat is returned when a file is neither EPW nor TMY3.
	ErrUnknownFormat = errors.New("unrecognized weather file format")
	// ErrMissingData is returned when a record carries the missing-value sentinel.
	ErrMissingData = errors.New("weather file is missing irradiance data")
	// ErrRecordCount is returned when a file does not hold a full hourly year.
	ErrRecordCount = errors.New("weather file does not contain 8760 hourly records")
)

// Format identifies the layout of a weather file.
type Format string

const (
	FormatEPW  Format = "epw"
	FormatTMY3 Format = "tmy3"
)

// Record is one hourly observation.
type Record struct {
	Month             int
	Day               int
	Hour              float64 // hour of day at the middle of the interval, 0.5 .. 23.5
	DirectNormal      float64 // W/m²
	DiffuseHorizontal float64 // W/m²
}

// DayOfYear returns the 1-based day of a non-leap year for the record.
func (r Record) DayOfYear() int {
	return julian.DayOfYear(0, r.Month, r.Day, false)
}

// Data holds a parsed weather file. Location fields keep the file's own
// conventions: longitude east positive, time zone in hours from UTC.
type Data struct {
	Format    Format
	Place     string
	Latitude  float64
	Longitude float64
	TimeZone  float64
	Elevation float64
	Records   []Record
}

// Parse reads the weather file at path, picking the reader from the first line.
func Parse(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open weather file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		return nil, fmt.Errorf("%s: %w: file is empty", path, ErrUnknownFormat)
	}
	header := scanner.Text()

	var data *Data
	switch {
	case strings.HasPrefix(strings.TrimSpace(header), "LOCATION"):
		data, err = parseEPW(header, scanner)
	case strings.Count(header, ",") >= 6:
		data, err = parseTMY3(header, scanner)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return data, nil
}

// Site returns the location the solar position functions expect: the file's
// latitude and longitude and the time zone expressed as a meridian in degrees.
func (d *Data) Site() solar.Site {
	return solar.Site{
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		TimeZone:  15 * d.TimeZone,
	}
}

// westward flips an east-positive angle without producing negative zero
func westward(deg float64) float64 {
	if deg == 0 {
		return 0
	}
	return -deg
}

// HourOfYear returns the 0-based hour of a non-leap year the record covers,
// in day-major order.
func (r Record) HourOfYear() (int, error) {
	if r.Month < 1 || r.Month > 12 || r.Day < 1 || r.Day > 31 || r.Hour < 0 || r.Hour >= 24 {
		return 0, fmt.Errorf("record %d/%d hour %g is not a valid date and hour", r.Month, r.Day, r.Hour)
	}
	return (r.DayOfYear()-1)*24 + int(r.Hour), nil
}

// DirectNormal returns the direct normal irradiance indexed by hour of year.
// Records may appear in any order, but every hour must be present exactly
// once.
func (d *Data) DirectNormal() ([]float64, error) {
	if len(d.Records) != HoursPerYear {
		return nil, fmt.Errorf("%w: found %d", ErrRecordCount, len(d.Records))
	}

	dn := make([]float64, HoursPerYear)
	seen := make([]bool, HoursPerYear)
	for _, r := range d.Records {
		k, err := r.HourOfYear()
		if err != nil {
			return nil, err
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate record for %d/%d hour %g", ErrRecordCount, r.Month, r.Day, r.Hour)
		}
		seen[k] = true
		dn[k] = r.DirectNormal
	}
	// 8760 records without duplicates cover every hour
	return dn, nil
}

// ValidateHourlyYear checks that the data covers every hour of one non-leap
// year exactly once.
func (d *Data) ValidateHourlyYear() error {
	_, err := d.DirectNormal()
	return err
}

// isLeapDay reports whether a record falls on February 29, which typical-year
// analyses ignore
func isLeapDay(month, day int) bool {
	return month == 2 && day == 29
}
