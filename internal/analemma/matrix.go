package analemma

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// SolidAngle is the solid angle in steradians of a source 0.533° across;
// dividing irradiance by it gives the source radiance.
const SolidAngle = 6.797e-05

const zeroRow = "0\t0\t0\n"

// WriteMatrix streams the sun matrix: for each sun in creation order, one row
// per hour of the year holding the hour's scaled direct normal irradiance in
// three channels when the hour belongs to that sun, and a zero row otherwise.
// It returns the number of rows written.
func WriteMatrix(w io.Writer, numSuns int, assignments *Assignments, directNormal []float64) (int, error) {
	if len(directNormal) != HoursPerYear {
		return 0, fmt.Errorf("expected %d hourly irradiance values, got %d", HoursPerYear, len(directNormal))
	}

	// Each hour belongs to at most one sun, so its row text is built once
	rows := make([]string, HoursPerYear)
	for k, slot := range assignments {
		if slot < BelowHorizon || slot >= numSuns {
			return 0, fmt.Errorf("hour %d is assigned to unknown sun slot %d", k, slot)
		}
		rows[k] = matrixRow(directNormal[k])
	}

	bw := bufio.NewWriterSize(w, 256*1024)
	written := 0
	for slot := 0; slot < numSuns; slot++ {
		for k := 0; k < HoursPerYear; k++ {
			row := zeroRow
			if assignments[k] == slot {
				row = rows[k]
			}
			if _, err := bw.WriteString(row); err != nil {
				return written, fmt.Errorf("error writing matrix row %d: %w", written+1, err)
			}
			written++
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("error flushing matrix: %w", err)
	}
	return written, nil
}

func matrixRow(directNormal float64) string {
	v := directNormal / SolidAngle
	if v == 0 {
		return zeroRow
	}
	s := strconv.FormatFloat(v, 'e', 2, 64)
	return s + "\t" + s + "\t" + s + "\n"
}
