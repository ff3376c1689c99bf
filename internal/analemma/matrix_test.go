package analemma

import (
	"bytes"
	"strings"
	"testing"
)

func TestMatrixRow(t *testing.T) {
	tests := []struct {
		name         string
		directNormal float64
		expected     string
	}{
		{name: "zero", directNormal: 0, expected: "0\t0\t0\n"},
		{name: "low irradiance", directNormal: 1.0467, expected: "1.54e+04\t1.54e+04\t1.54e+04\n"},
		{name: "clear sky", directNormal: 500, expected: "7.36e+06\t7.36e+06\t7.36e+06\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matrixRow(tt.directNormal); got != tt.expected {
				t.Errorf("matrixRow(%g) = %q, expected %q", tt.directNormal, got, tt.expected)
			}
		})
	}
}

func TestWriteMatrix(t *testing.T) {
	var a Assignments
	for k := range a {
		a[k] = BelowHorizon
	}
	a[0] = 0
	a[1] = 1
	a[2] = 0

	dn := make([]float64, HoursPerYear)
	dn[0] = 1.0467
	dn[1] = 500
	dn[2] = 0
	dn[3] = 800 // below the horizon, never emitted

	var buf bytes.Buffer
	rows, err := WriteMatrix(&buf, 2, &a, dn)
	if err != nil {
		t.Fatalf("WriteMatrix returned error: %v", err)
	}
	if rows != 2*HoursPerYear {
		t.Errorf("wrote %d rows, expected %d", rows, 2*HoursPerYear)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2*HoursPerYear {
		t.Fatalf("got %d lines, expected %d", len(lines), 2*HoursPerYear)
	}

	expected := map[int]string{
		0:                "1.54e+04\t1.54e+04\t1.54e+04",
		1:                "0\t0\t0",
		2:                "0\t0\t0",
		3:                "0\t0\t0",
		HoursPerYear:     "0\t0\t0",
		HoursPerYear + 1: "7.36e+06\t7.36e+06\t7.36e+06",
		HoursPerYear + 3: "0\t0\t0",
	}
	for i, line := range expected {
		if lines[i] != line {
			t.Errorf("row %d = %q, expected %q", i, lines[i], line)
		}
	}
}

func TestWriteMatrixErrors(t *testing.T) {
	t.Run("short irradiance series", func(t *testing.T) {
		var a Assignments
		if _, err := WriteMatrix(&bytes.Buffer{}, 1, &a, make([]float64, 100)); err == nil {
			t.Error("expected an error for a short irradiance series")
		}
	})

	t.Run("unknown sun slot", func(t *testing.T) {
		var a Assignments
		a[10] = 5
		if _, err := WriteMatrix(&bytes.Buffer{}, 2, &a, make([]float64, HoursPerYear)); err == nil {
			t.Error("expected an error for an out of range slot")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		var a Assignments
		if _, err := WriteMatrix(brokenWriter{}, 1, &a, make([]float64, HoursPerYear)); err == nil {
			t.Error("expected the write error to surface")
		}
	})
}

// lineCounter counts rows without keeping a full matrix in memory
type lineCounter struct {
	lines       int
	nonZero     int
	atLineStart bool
}

func (c *lineCounter) Write(p []byte) (int, error) {
	for _, b := range p {
		if c.atLineStart && b != '0' {
			c.nonZero++
		}
		c.atLineStart = b == '\n'
		if b == '\n' {
			c.lines++
		}
	}
	return len(p), nil
}

func TestLancasterMatrixShape(t *testing.T) {
	res := runLancaster(t, 0, nil)

	dn := make([]float64, HoursPerYear)
	for k := range dn {
		dn[k] = 100
	}

	c := &lineCounter{atLineStart: true}
	rows, err := WriteMatrix(c, len(res.Suns), res.Assignments, dn)
	if err != nil {
		t.Fatalf("WriteMatrix returned error: %v", err)
	}
	if rows != 1511*HoursPerYear || c.lines != rows {
		t.Errorf("wrote %d rows (%d lines), expected %d", rows, c.lines, 1511*HoursPerYear)
	}
	if c.nonZero != res.Assignments.DaylightHours() {
		t.Errorf("got %d non-zero rows, expected one per daylight hour (%d)", c.nonZero, res.Assignments.DaylightHours())
	}
}
