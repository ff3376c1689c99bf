package weather

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// TMY3 data columns
const (
	tmyDate              = 0
	tmyTime              = 1
	tmyDirectNormal      = 7
	tmyDiffuseHorizontal = 10
)

func parseTMY3(header string, scanner *bufio.Scanner) (*Data, error) {
	loc := splitFields(header)
	if len(loc) < 7 {
		return nil, fmt.Errorf("TMY3 header has %d fields, expected 7", len(loc))
	}

	data := &Data{
		Format: FormatTMY3,
		Place:  loc[1],
	}

	var err error
	if data.TimeZone, err = parseFloat("time zone", loc[3]); err != nil {
		return nil, err
	}
	if data.Latitude, err = parseFloat("latitude", loc[4]); err != nil {
		return nil, err
	}
	if data.Longitude, err = parseFloat("longitude", loc[5]); err != nil {
		return nil, err
	}
	if data.Elevation, err = parseFloat("elevation", loc[6]); err != nil {
		return nil, err
	}

	// Column names
	if !scanner.Scan() {
		return nil, fmt.Errorf("TMY3 file has no column header")
	}

	line := 2
	data.Records = make([]Record, 0, HoursPerYear)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		vals := strings.Split(text, ",")
		if len(vals) <= tmyDiffuseHorizontal {
			return nil, fmt.Errorf("line %d: %d fields, expected at least %d", line, len(vals), tmyDiffuseHorizontal+1)
		}

		rec, err := tmyRecord(vals)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if isLeapDay(rec.Month, rec.Day) {
			continue
		}
		data.Records = append(data.Records, rec)
	}

	return data, nil
}

func tmyRecord(vals []string) (Record, error) {
	var rec Record

	date := strings.Split(strings.TrimSpace(vals[tmyDate]), "/")
	if len(date) < 2 {
		return rec, fmt.Errorf("invalid date %q", vals[tmyDate])
	}
	month, err := strconv.Atoi(date[0])
	if err != nil {
		return rec, fmt.Errorf("invalid month in %q: %w", vals[tmyDate], err)
	}
	day, err := strconv.Atoi(date[1])
	if err != nil {
		return rec, fmt.Errorf("invalid day in %q: %w", vals[tmyDate], err)
	}

	clock := strings.Split(strings.TrimSpace(vals[tmyTime]), ":")
	if len(clock) < 2 {
		return rec, fmt.Errorf("invalid time %q", vals[tmyTime])
	}
	hh, err := parseFloat("hour", clock[0])
	if err != nil {
		return rec, err
	}
	mm, err := parseFloat("minute", clock[1])
	if err != nil {
		return rec, err
	}

	dn, err := parseFloat("direct normal", vals[tmyDirectNormal])
	if err != nil {
		return rec, err
	}
	dh, err := parseFloat("diffuse horizontal", vals[tmyDiffuseHorizontal])
	if err != nil {
		return rec, err
	}
	if dn >= missingValue || dh >= missingValue {
		return rec, fmt.Errorf("%w on %d/%d %s", ErrMissingData, month, day, vals[tmyTime])
	}

	// TMY3 timestamps mark the end of the hour
	return Record{
		Month:             month,
		Day:               day,
		Hour:              hh + mm/60 - 0.5,
		DirectNormal:      dn,
		DiffuseHorizontal: dh,
	}, nil
}
