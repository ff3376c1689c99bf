package analemma

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestMaterialRecord(t *testing.T) {
	got := MaterialRecord(Sun{Index: 42})
	expected := "void light solar42 0 0 3 1.0 1.0 1.0\n"
	if got != expected {
		t.Errorf("MaterialRecord() = %q, expected %q", got, expected)
	}
}

func TestGeometryRecord(t *testing.T) {
	tests := []struct {
		name     string
		sun      Sun
		expected string
	}{
		{
			name:     "six significant digits",
			sun:      Sun{Index: 3, Direction: r3.Vec{X: 0.12345678, Y: -0.98765432, Z: 0.0001234567}},
			expected: "solar3 source sun3 0 0 4 0.123457 -0.987654 0.000123457 0.533\n",
		},
		{
			name:     "short values are not padded",
			sun:      Sun{Index: 7, Direction: r3.Vec{X: 0, Y: -0.5, Z: 1}},
			expected: "solar7 source sun7 0 0 4 0 -0.5 1 0.533\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GeometryRecord(tt.sun); got != tt.expected {
				t.Errorf("GeometryRecord() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestSceneForLancaster(t *testing.T) {
	var mat, geo bytes.Buffer
	sw := NewSceneWriter(&mat, &geo)
	res := runLancaster(t, 0, sw)
	if err := sw.Flush(); err != nil {
		t.Fatal(err)
	}

	if sw.Count() != len(res.Suns) {
		t.Errorf("writer counted %d suns, generator made %d", sw.Count(), len(res.Suns))
	}

	matLines := strings.Split(strings.TrimSuffix(mat.String(), "\n"), "\n")
	geoLines := strings.Split(strings.TrimSuffix(geo.String(), "\n"), "\n")
	if len(matLines) != 1511 || len(geoLines) != 1511 {
		t.Fatalf("got %d material and %d geometry lines, expected 1511 each", len(matLines), len(geoLines))
	}

	if geoLines[0] != "solar1 source sun1 0 0 4 0.983525 0.180602 0.00780864 0.533" {
		t.Errorf("unexpected first geometry line %q", geoLines[0])
	}
	if geoLines[9] != "solar10 source sun10 0 0 4 0.963768 0.250951 0.0904094 0.533" {
		t.Errorf("unexpected tenth geometry line %q", geoLines[9])
	}

	for i := range matLines {
		n := i + 1
		if !strings.HasPrefix(matLines[i], fmt.Sprintf("void light solar%d ", n)) {
			t.Fatalf("material line %d is %q", n, matLines[i])
		}
		if !strings.HasPrefix(geoLines[i], fmt.Sprintf("solar%d source sun%d ", n, n)) {
			t.Fatalf("geometry line %d is %q", n, geoLines[i])
		}
	}
}

func TestSceneIsReproducible(t *testing.T) {
	render := func() (string, string) {
		var mat, geo bytes.Buffer
		sw := NewSceneWriter(&mat, &geo)
		runLancaster(t, 0, sw)
		if err := sw.Flush(); err != nil {
			t.Fatal(err)
		}
		return mat.String(), geo.String()
	}

	mat1, geo1 := render()
	mat2, geo2 := render()
	if mat1 != mat2 || geo1 != geo2 {
		t.Error("scene output differs between identical runs")
	}
}

type brokenWriter struct{}

var errBroken = errors.New("broken pipe")

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errBroken
}

func TestSceneWriterReportsFlushError(t *testing.T) {
	sw := NewSceneWriter(brokenWriter{}, &bytes.Buffer{})
	if err := sw.RecordSun(Sun{Index: 1}); err != nil {
		t.Fatalf("buffered write failed early: %v", err)
	}
	if err := sw.Flush(); !errors.Is(err, errBroken) {
		t.Errorf("expected flush to report the write error, got %v", err)
	}
}
