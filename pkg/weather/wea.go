package weather

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteWea writes the data in the renderer's WEA format: a six line site
// header followed by "month day hour direct-normal diffuse-horizontal" records.
// Longitude and time zone are written in the renderer's west-positive degrees.
func (d *Data) WriteWea(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "place %s\n", d.Place)
	fmt.Fprintf(bw, "latitude %s\n", formatNumber(d.Latitude))
	fmt.Fprintf(bw, "longitude %s\n", formatNumber(westward(d.Longitude)))
	fmt.Fprintf(bw, "time_zone %s\n", formatNumber(westward(15*d.TimeZone)))
	fmt.Fprintf(bw, "site_elevation %s\n", formatNumber(d.Elevation))
	fmt.Fprintf(bw, "weather_data_file_units 1\n")

	for _, r := range d.Records {
		fmt.Fprintf(bw, "%d %d %s %s %s\n", r.Month, r.Day,
			formatNumber(r.Hour), formatNumber(r.DirectNormal), formatNumber(r.DiffuseHorizontal))
	}

	return bw.Flush()
}

// WriteWeaFile writes the WEA representation of the data to path.
func (d *Data) WriteWeaFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create WEA file %s: %w", path, err)
	}
	if err := d.WriteWea(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing WEA file %s: %w", path, err)
	}
	return f.Close()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
