package datarecording

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

// ErrRunNotFound is returned when a recording has no run with a given ID.
var ErrRunNotFound = errors.New("run not found")

// A Recording reads back the runs and frames written by a FrameRecorder.
type Recording struct {
	db *sql.DB
}

// OpenRecording opens a recording file read-only. The file must exist.
func OpenRecording(path string) (*Recording, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}

	return &Recording{db: db}, nil
}

// NewRecordingWithDB reads a recording from an open database.
func NewRecordingWithDB(db *sql.DB) *Recording {
	return &Recording{db: db}
}

const runColumns = "ID, Model, Status, Fitness, SimTime, Steps"

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Model, &r.Status, &r.Fitness, &r.SimTime, &r.Steps)

	return r, err
}

// Runs returns the recorded runs in the order they were written.
func (r *Recording) Runs(ctx context.Context) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM "+RunTable+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Run returns the run with an ID.
func (r *Recording) Run(ctx context.Context, id string) (Run, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM "+RunTable+" WHERE ID = ?", id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return run, err
}

// Channels returns the channels of a run, ordered by number.
func (r *Recording) Channels(ctx context.Context, runID string) ([]Channel, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT RunID, Number, Label FROM "+ChannelTable+
			" WHERE RunID = ? ORDER BY Number", runID)
	if err != nil {
		return nil, fmt.Errorf("listing channels of %s: %w", runID, err)
	}
	defer rows.Close()

	var channels []Channel

	for rows.Next() {
		var c Channel

		err = rows.Scan(&c.RunID, &c.Number, &c.Label)
		if err != nil {
			return nil, err
		}

		channels = append(channels, c)
	}

	return channels, rows.Err()
}

// Frames rebuilds the frames of a run. A run that was recorded without data
// is an error.
func (r *Recording) Frames(ctx context.Context, runID string) (*storage.Storage, error) {
	_, err := r.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	channels, err := r.Channels(ctx, runID)
	if err != nil {
		return nil, err
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("run %s has no recorded frames", runID)
	}

	st := storage.NewStorage()
	for _, c := range channels {
		st.AddChannel(c.Label)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT Frame, Time, Channel, Value FROM "+SampleTable+
			" WHERE RunID = ? ORDER BY Frame, Channel", runID)
	if err != nil {
		return nil, fmt.Errorf("reading frames of %s: %w", runID, err)
	}
	defer rows.Close()

	var (
		f    *storage.Frame
		last = -1
	)

	for rows.Next() {
		var s Sample

		err = rows.Scan(&s.Frame, &s.Time, &s.Channel, &s.Value)
		if err != nil {
			return nil, err
		}

		if s.Frame != last {
			f = st.AddFrame(sim.VTimeInSec(s.Time))
			last = s.Frame
		}

		f.SetValue(s.Channel, s.Value)
	}

	return st, rows.Err()
}

// Series returns the times and values of one channel of a run.
func (r *Recording) Series(
	ctx context.Context,
	runID, label string,
) ([]float64, []float64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT s.Time, s.Value FROM "+SampleTable+" s"+
			" JOIN "+ChannelTable+" c"+
			" ON c.RunID = s.RunID AND c.Number = s.Channel"+
			" WHERE s.RunID = ? AND c.Label = ? ORDER BY s.Frame",
		runID, label)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s of %s: %w", label, runID, err)
	}
	defer rows.Close()

	var times, values []float64

	for rows.Next() {
		var t, v float64

		err = rows.Scan(&t, &v)
		if err != nil {
			return nil, nil, err
		}

		times = append(times, t)
		values = append(values, v)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no channel %s", runID, label)
	}

	return times, values, nil
}

// Close closes the database.
func (r *Recording) Close() error {
	return r.db.Close()
}
