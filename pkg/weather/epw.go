package weather

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// EPW data columns
const (
	epwMonth             = 1
	epwDay               = 2
	epwHour              = 3
	epwDirectNormal      = 14
	epwDiffuseHorizontal = 15
)

func parseEPW(header string, scanner *bufio.Scanner) (*Data, error) {
	loc := splitFields(header)
	if len(loc) < 10 {
		return nil, fmt.Errorf("LOCATION line has %d fields, expected 10", len(loc))
	}

	data := &Data{
		Format: FormatEPW,
		Place:  loc[1],
	}

	var err error
	if data.Latitude, err = parseFloat("latitude", loc[6]); err != nil {
		return nil, err
	}
	if data.Longitude, err = parseFloat("longitude", loc[7]); err != nil {
		return nil, err
	}
	if data.TimeZone, err = parseFloat("time zone", loc[8]); err != nil {
		return nil, err
	}
	if data.Elevation, err = parseFloat("elevation", loc[9]); err != nil {
		return nil, err
	}

	// Skip the remaining header records up to DATA PERIODS
	perHour := 0
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.HasPrefix(text, "DATA PERIODS") {
			vals := splitFields(text)
			if len(vals) < 3 {
				return nil, fmt.Errorf("line %d: malformed DATA PERIODS record", line)
			}
			perHour, err = strconv.Atoi(vals[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid records per hour %q: %w", line, vals[2], err)
			}
			break
		}
	}
	if perHour == 0 {
		return nil, fmt.Errorf("no DATA PERIODS record found")
	}
	if perHour != 1 {
		return nil, fmt.Errorf("%d records per hour is not supported, only hourly data", perHour)
	}

	data.Records = make([]Record, 0, HoursPerYear)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		vals := strings.Split(text, ",")
		if len(vals) <= epwDiffuseHorizontal {
			return nil, fmt.Errorf("line %d: %d fields, expected at least %d", line, len(vals), epwDiffuseHorizontal+1)
		}

		rec, err := epwRecord(vals)
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

func epwRecord(vals []string) (Record, error) {
	var rec Record

	month, err := strconv.Atoi(strings.TrimSpace(vals[epwMonth]))
	if err != nil {
		return rec, fmt.Errorf("invalid month %q: %w", vals[epwMonth], err)
	}
	day, err := strconv.Atoi(strings.TrimSpace(vals[epwDay]))
	if err != nil {
		return rec, fmt.Errorf("invalid day %q: %w", vals[epwDay], err)
	}
	hour, err := parseFloat("hour", vals[epwHour])
	if err != nil {
		return rec, err
	}
	dn, err := parseFloat("direct normal", vals[epwDirectNormal])
	if err != nil {
		return rec, err
	}
	dh, err := parseFloat("diffuse horizontal", vals[epwDiffuseHorizontal])
	if err != nil {
		return rec, err
	}
	if dn >= missingValue || dh >= missingValue {
		return rec, fmt.Errorf("%w on %d/%d hour %g", ErrMissingData, month, day, hour)
	}

	// EPW hour N covers the interval ending at N:00
	return Record{
		Month:             month,
		Day:               day,
		Hour:              hour - 0.5,
		DirectNormal:      dn,
		DiffuseHorizontal: dh,
	}, nil
}

func splitFields(line string) []string {
	vals := strings.Split(line, ",")
	for i := range vals {
		vals[i] = strings.TrimSpace(vals[i])
	}
	return vals
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}
