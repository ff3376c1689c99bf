// Package app runs one analemma generation job end to end.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/dxanalemma/internal/analemma"
	"github.com/chrissnell/dxanalemma/internal/catalog"
	"github.com/chrissnell/dxanalemma/internal/summary"
	"github.com/chrissnell/dxanalemma/pkg/config"
	"github.com/chrissnell/dxanalemma/pkg/weather"
)

// App represents one generation job
type App struct {
	job    *config.JobData
	logger *zap.SugaredLogger
	report summary.Summary
}

// New creates a new application instance
func New(job *config.JobData, logger *zap.SugaredLogger) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &App{
		job:    job,
		logger: logger,
	}
}

// outputs holds the open scene and matrix files
type outputs struct {
	material *os.File
	geometry *os.File
	matrix   *os.File
}

func openOutputs(out config.OutputData) (*outputs, error) {
	o := &outputs{}
	var err error
	if o.material, err = os.Create(out.Material); err != nil {
		return nil, fmt.Errorf("error opening material file: %w", err)
	}
	if o.geometry, err = os.Create(out.Geometry); err != nil {
		o.close()
		return nil, fmt.Errorf("error opening geometry file: %w", err)
	}
	if o.matrix, err = os.Create(out.Matrix); err != nil {
		o.close()
		return nil, fmt.Errorf("error opening matrix file: %w", err)
	}
	return o, nil
}

// close closes every open file and returns the first error
func (o *outputs) close() error {
	var first error
	for _, f := range []*os.File{o.material, o.geometry, o.matrix} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Run reads the weather file, generates the representative suns and writes
// the scene files, the sun matrix and the optional summary and catalog entry.
func (a *App) Run(ctx context.Context) error {
	if err := a.job.Validate(); err != nil {
		return err
	}
	started := time.Now()

	data, err := weather.Parse(a.job.Weather)
	if err != nil {
		return fmt.Errorf("error reading weather data: %w", err)
	}
	directNormal, err := data.DirectNormal()
	if err != nil {
		return fmt.Errorf("error reading weather data: %w", err)
	}
	site := data.Site()
	a.logger.Infow("loaded weather data",
		"file", a.job.Weather, "format", data.Format, "place", data.Place,
		"latitude", site.Latitude, "longitude", site.Longitude, "time_zone", site.TimeZone)

	out, err := openOutputs(a.job.Output)
	if err != nil {
		return err
	}
	defer out.close()

	scene := analemma.NewSceneWriter(out.material, out.geometry)
	res, err := analemma.NewGenerator(site, a.job.Rotation, scene, a.logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("error generating suns: %w", err)
	}
	if err := scene.Flush(); err != nil {
		return err
	}
	a.logger.Infof("found %s representative suns for %s daylight hours",
		humanize.Comma(int64(len(res.Suns))), humanize.Comma(int64(res.Assignments.DaylightHours())))

	rows, err := analemma.WriteMatrix(out.matrix, len(res.Suns), res.Assignments, directNormal)
	if err != nil {
		return err
	}
	if err := out.close(); err != nil {
		return fmt.Errorf("error closing output files: %w", err)
	}
	a.logger.Infof("wrote %s sun matrix rows to %s", humanize.Comma(int64(rows)), a.job.Output.Matrix)

	runID := uuid.New()
	a.report = summary.FromResult(res, directNormal)
	a.report.RunID = runID.String()
	a.report.GeneratedAt = started.UTC()
	a.report.Weather = a.job.Weather
	a.report.Place = data.Place
	a.report.Latitude = site.Latitude
	a.report.Longitude = site.Longitude
	a.report.TimeZone = site.TimeZone
	a.report.Rotation = a.job.Rotation

	if a.job.Output.Summary != "" {
		if err := summary.WriteFile(a.job.Output.Summary, a.report); err != nil {
			return err
		}
		a.logger.Debugw("wrote run summary", "path", a.job.Output.Summary)
	}

	if a.job.Catalog != "" {
		if err := a.saveToCatalog(ctx, runID, started, data, res); err != nil {
			return err
		}
	}

	a.logger.Infow("generation complete", "run_id", a.report.RunID, "elapsed", time.Since(started).String())
	return nil
}

func (a *App) saveToCatalog(ctx context.Context, runID uuid.UUID, started time.Time, data *weather.Data, res *analemma.Result) error {
	c, err := catalog.Open(a.job.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	site := data.Site()
	run := &catalog.Run{
		ID:          runID,
		CreatedAt:   started.UTC(),
		Weather:     a.job.Weather,
		Place:       data.Place,
		Latitude:    site.Latitude,
		Longitude:   site.Longitude,
		TimeZone:    site.TimeZone,
		Rotation:    a.job.Rotation,
		Suns:        res.Suns,
		Assignments: res.Assignments,
	}
	if err := c.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("error saving run to catalog: %w", err)
	}
	a.logger.Infow("saved run to catalog", "run_id", runID.String(), "catalog", a.job.Catalog)
	return nil
}

// Report returns the summary of the last successful run.
func (a *App) Report() summary.Summary {
	return a.report
}
