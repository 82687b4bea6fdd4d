// Package evaluation runs simulations and turns them into fitness values.
//
// A run calls the per-step protocol of the model in a fixed order: control
// update, plant integration, history update, analysis and data recording.
// Runtime assertion failures and plant errors end the run with the worst
// fitness of its measure, so that one broken candidate never stops a batch.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/neurosim/measure"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/sim"
)

// HookPosRunStart is invoked before the first step. The item is the Result
// with its ID and model name filled in.
var HookPosRunStart = &sim.HookPos{Name: "RunStart"}

// HookPosRunEnd is invoked after the last step with the final Result.
var HookPosRunEnd = &sim.HookPos{Name: "RunEnd"}

// Status tells how a run ended.
type Status int

// The run statuses.
const (
	StatusRunning Status = iota
	StatusCompleted
	StatusTerminated
	StatusFailed
	StatusStopped
	StatusCanceled
)

var statusNames = []string{
	"running", "completed", "terminated", "failed", "stopped", "canceled",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Options are the settings of a run.
type Options struct {
	// MaxDuration is the simulated time after which the run completes.
	MaxDuration float64 `yaml:"max_duration"`
}

// Result is the outcome of a run.
type Result struct {
	ID       string         `json:"id"`
	Model    string         `json:"model"`
	Status   Status         `json:"status"`
	Fitness  float64        `json:"fitness"`
	SimTime  sim.VTimeInSec `json:"sim_time"`
	Steps    int            `json:"steps"`
	WallTime time.Duration  `json:"wall_time"`
	Err      error          `json:"-"`
}

// Failed tells if the run ended with the worst fitness because of an error.
func (r Result) Failed() bool {
	return r.Status == StatusFailed || r.Status == StatusCanceled
}

// RunStatus describes a run in progress.
type RunStatus struct {
	ID          string         `json:"id"`
	Model       string         `json:"model"`
	SimTime     sim.VTimeInSec `json:"sim_time"`
	MaxDuration sim.VTimeInSec `json:"max_duration"`
	Steps       int64          `json:"steps"`
}

type runState struct {
	id          string
	model       string
	maxDuration sim.VTimeInSec
	timeBits    atomic.Uint64
	steps       atomic.Int64
}

// An Evaluator runs models. It can run several models at the same time,
// each in its own goroutine.
type Evaluator struct {
	sim.HookableBase

	logger  *slog.Logger
	metrics *Metrics
	stop    atomic.Bool

	runsLock sync.Mutex
	runs     map[string]*runState
}

// NewEvaluator creates an evaluator. The metrics are optional.
func NewEvaluator(logger *slog.Logger, metrics *Metrics) *Evaluator {
	return &Evaluator{
		logger:  sim.LoggerOrDefault(logger),
		metrics: metrics,
		runs:    make(map[string]*runState),
	}
}

// RequestStop asks all runs to stop before their next step. The request
// holds until ClearStop is called or the next batch starts.
func (e *Evaluator) RequestStop() {
	e.stop.Store(true)
}

// ClearStop withdraws a stop request.
func (e *Evaluator) ClearStop() {
	e.stop.Store(false)
}

// StopRequested checks if a stop was requested.
func (e *Evaluator) StopRequested() bool {
	return e.stop.Load()
}

// Running returns the runs in progress.
func (e *Evaluator) Running() []RunStatus {
	e.runsLock.Lock()
	defer e.runsLock.Unlock()

	out := make([]RunStatus, 0, len(e.runs))
	for _, r := range e.runs {
		out = append(out, RunStatus{
			ID:          r.id,
			Model:       r.model,
			SimTime:     sim.VTimeInSec(math.Float64frombits(r.timeBits.Load())),
			MaxDuration: r.maxDuration,
			Steps:       r.steps.Load(),
		})
	}

	return out
}

func (e *Evaluator) track(res *Result, maxDuration sim.VTimeInSec) *runState {
	s := &runState{id: res.ID, model: res.Model, maxDuration: maxDuration}

	e.runsLock.Lock()
	e.runs[s.id] = s
	e.runsLock.Unlock()

	return s
}

func (e *Evaluator) untrack(s *runState) {
	e.runsLock.Lock()
	delete(e.runs, s.id)
	e.runsLock.Unlock()
}

// worstResult is the fitness of a failed run.
func worstResult(m *model.Model) float64 {
	if ms, ok := m.Measure().(measure.Objective); ok {
		return ms.WorstResult()
	}

	return math.MaxFloat64
}

func finalResult(m *model.Model) float64 {
	if ms, ok := m.Measure().(measure.Objective); ok {
		return ms.WeightedResult(m)
	}

	if ms := m.Measure(); ms != nil {
		return ms.Result(m)
	}

	return 0
}

// Run simulates the model from time zero until the maximum duration, a
// termination request, cancellation or a stop request. The model must be
// freshly built or reset.
func (e *Evaluator) Run(
	ctx context.Context,
	m *model.Model,
	opts Options,
) (res Result) {
	if opts.MaxDuration <= 0 {
		return Result{
			Model:   m.Name(),
			Status:  StatusFailed,
			Fitness: worstResult(m),
			Err: sim.ConfigErrorf("evaluation",
				"max_duration must be positive, got %g", opts.MaxDuration),
		}
	}

	res = Result{ID: xid.New().String(), Model: m.Name()}
	maxDuration := sim.VTimeInSec(opts.MaxDuration)
	step := m.ControlStepSize()
	state := e.track(&res, maxDuration)
	start := time.Now()

	e.metrics.runStarted()
	e.InvokeHook(sim.HookCtx{Domain: e, Pos: HookPosRunStart, Item: res})

	defer func() {
		if r := recover(); r != nil {
			ae, ok := sim.AsRuntimeAssertion(r)
			if !ok {
				e.untrack(state)
				panic(r)
			}

			res.fail(m, ae)
		}

		res.SimTime = m.Time()
		res.Steps = m.ControlSteps()
		res.WallTime = time.Since(start)

		e.untrack(state)
		e.metrics.runFinished(res)
		e.log(res)
		e.InvokeHook(sim.HookCtx{Domain: e, Pos: HookPosRunEnd, Item: res})
	}()

	if m.Time() == 0 {
		m.UpdateSensorDelayAdapters()
	}

	for m.Time() < maxDuration-sim.TimeEpsilon && !m.ShouldTerminate() {
		if err := ctx.Err(); err != nil {
			res.Status = StatusCanceled
			res.Err = err
			res.Fitness = worstResult(m)

			return res
		}

		if e.stop.Load() {
			res.Status = StatusStopped
			res.Fitness = finalResult(m)

			return res
		}

		m.UpdateControlValues()

		if err := m.Plant().Advance(step); err != nil {
			res.fail(m, err)
			return res
		}

		m.UpdateSensorDelayAdapters()
		m.UpdateAnalyses()
		m.StoreDataIfNeeded()

		state.timeBits.Store(math.Float64bits(float64(m.Time())))
		state.steps.Add(1)
		e.metrics.stepDone()
	}

	m.StoreCurrentFrame()

	res.Status = StatusCompleted
	if m.ShouldTerminate() {
		res.Status = StatusTerminated
	}

	res.Fitness = finalResult(m)

	return res
}

func (r *Result) fail(m *model.Model, err error) {
	r.Status = StatusFailed
	r.Err = err
	r.Fitness = worstResult(m)
}

func (e *Evaluator) log(res Result) {
	attrs := []any{
		"id", res.ID,
		"model", res.Model,
		"status", res.Status.String(),
		"fitness", res.Fitness,
		"sim_time", float64(res.SimTime),
		"steps", res.Steps,
		"wall_time", res.WallTime,
	}

	var ae *sim.RuntimeAssertionError

	switch {
	case res.Err == nil:
		e.logger.Info("evaluation finished", attrs...)
	case errors.As(res.Err, &ae):
		e.logger.Warn("evaluation failed an assertion",
			append(attrs, "error", res.Err)...)
	default:
		e.logger.Warn("evaluation failed", append(attrs, "error", res.Err)...)
	}
}
