// Package catalog keeps a SQLite record of generation runs: the site, the
// representative suns and the hour assignments of each run.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/dxanalemma/internal/analemma"
)

// ErrRunNotFound is returned when a run id is not in the catalog
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	weather    TEXT NOT NULL,
	place      TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	time_zone  REAL NOT NULL,
	rotation   REAL NOT NULL,
	suns       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS suns (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	x           REAL NOT NULL,
	y           REAL NOT NULL,
	z           REAL NOT NULL,
	day_of_year INTEGER NOT NULL,
	hour        INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id       TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	hour_of_year INTEGER NOT NULL,
	slot         INTEGER NOT NULL,
	PRIMARY KEY (run_id, hour_of_year)
);
`

// Run is one generation run as stored in the catalog
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Weather   string // weather file path
	Place     string
	Latitude  float64
	Longitude float64
	TimeZone  float64
	Rotation  float64

	Suns        []analemma.Sun
	Assignments *analemma.Assignments
}

// RunInfo is the catalog listing entry of a run
type RunInfo struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Place     string
	Rotation  float64
	Suns      int
}

// Catalog is an open run catalog
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Catalog{db: db, dbPath: path}, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SaveRun stores a run with its suns and daylight assignments in a single
// transaction. A zero run ID is replaced with a new random one.
func (c *Catalog) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, weather, place, latitude, longitude, time_zone, rotation, suns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt.Format(time.RFC3339Nano), run.Weather, run.Place,
		run.Latitude, run.Longitude, run.TimeZone, run.Rotation, len(run.Suns))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	sunStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO suns (run_id, idx, x, y, z, day_of_year, hour) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sun insert: %w", err)
	}
	defer sunStmt.Close()

	for _, s := range run.Suns {
		if _, err := sunStmt.ExecContext(ctx, run.ID.String(), s.Index,
			s.Direction.X, s.Direction.Y, s.Direction.Z, s.DayOfYear, s.Hour); err != nil {
			return fmt.Errorf("failed to insert sun %d: %w", s.Index, err)
		}
	}

	if run.Assignments != nil {
		hourStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO assignments (run_id, hour_of_year, slot) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare assignment insert: %w", err)
		}
		defer hourStmt.Close()

		// below-horizon hours are implied by absence
		for k, slot := range run.Assignments {
			if slot == analemma.BelowHorizon {
				continue
			}
			if _, err := hourStmt.ExecContext(ctx, run.ID.String(), k, slot); err != nil {
				return fmt.Errorf("failed to insert assignment for hour %d: %w", k, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run to %s: %w", c.dbPath, err)
	}
	return nil
}

// ListRuns returns every stored run, newest first.
func (c *Catalog) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, created_at, place, rotation, suns FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var id, created string
		if err := rows.Scan(&id, &created, &info.Place, &info.Rotation, &info.Suns); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", id, err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("bad timestamp for run %s: %w", id, err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// LoadSuns returns the representative suns of a run in index order.
func (c *Catalog) LoadSuns(ctx context.Context, runID uuid.UUID) ([]analemma.Sun, error) {
	if err := c.checkRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT idx, x, y, z, day_of_year, hour FROM suns WHERE run_id = ? ORDER BY idx`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query suns: %w", err)
	}
	defer rows.Close()

	var suns []analemma.Sun
	for rows.Next() {
		var s analemma.Sun
		var d r3.Vec
		if err := rows.Scan(&s.Index, &d.X, &d.Y, &d.Z, &s.DayOfYear, &s.Hour); err != nil {
			return nil, fmt.Errorf("failed to scan sun: %w", err)
		}
		s.Direction = d
		suns = append(suns, s)
	}
	return suns, rows.Err()
}

// LoadAssignments rebuilds the assignment table of a run.
func (c *Catalog) LoadAssignments(ctx context.Context, runID uuid.UUID) (*analemma.Assignments, error) {
	if err := c.checkRun(ctx, runID); err != nil {
		return nil, err
	}

	var a analemma.Assignments
	for k := range a {
		a[k] = analemma.BelowHorizon
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT hour_of_year, slot FROM assignments WHERE run_id = ?`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, slot int
		if err := rows.Scan(&k, &slot); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if k < 0 || k >= analemma.HoursPerYear {
			return nil, fmt.Errorf("assignment for hour %d out of range", k)
		}
		a[k] = slot
	}
	return &a, rows.Err()
}

func (c *Catalog) checkRun(ctx context.Context, runID uuid.UUID) error {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID.String()).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to look up run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s in %s", ErrRunNotFound, runID, c.dbPath)
	}
	return nil
}
