package analemma

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// SunAngularSize is the apparent diameter of the sun in degrees.
const SunAngularSize = 0.533

// SceneWriter writes the paired light material and source geometry records
// for each representative sun. Both records of a sun are written by the same
// call so solarN in the material file always matches sunN in the geometry file.
type SceneWriter struct {
	material *bufio.Writer
	geometry *bufio.Writer
	count    int
}

// NewSceneWriter creates a SceneWriter over the material and geometry streams.
func NewSceneWriter(material, geometry io.Writer) *SceneWriter {
	return &SceneWriter{
		material: bufio.NewWriter(material),
		geometry: bufio.NewWriter(geometry),
	}
}

// RecordSun implements SunRecorder.
func (w *SceneWriter) RecordSun(s Sun) error {
	if _, err := w.material.WriteString(MaterialRecord(s)); err != nil {
		return fmt.Errorf("error writing material record: %w", err)
	}
	if _, err := w.geometry.WriteString(GeometryRecord(s)); err != nil {
		return fmt.Errorf("error writing geometry record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of suns written.
func (w *SceneWriter) Count() int {
	return w.count
}

// Flush flushes both streams.
func (w *SceneWriter) Flush() error {
	if err := w.material.Flush(); err != nil {
		return fmt.Errorf("error flushing material records: %w", err)
	}
	if err := w.geometry.Flush(); err != nil {
		return fmt.Errorf("error flushing geometry records: %w", err)
	}
	return nil
}

// MaterialRecord returns the light declaration line for a sun.
func MaterialRecord(s Sun) string {
	return fmt.Sprintf("void light solar%d 0 0 3 1.0 1.0 1.0\n", s.Index)
}

// GeometryRecord returns the source declaration line for a sun.
func GeometryRecord(s Sun) string {
	return fmt.Sprintf("solar%d source sun%d 0 0 4 %s %s %s %s\n",
		s.Index, s.Index,
		formatComponent(s.Direction.X),
		formatComponent(s.Direction.Y),
		formatComponent(s.Direction.Z),
		strconv.FormatFloat(SunAngularSize, 'g', -1, 64))
}

// formatComponent prints six significant digits
func formatComponent(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
