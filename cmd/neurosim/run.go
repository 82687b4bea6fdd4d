package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/controller"
	"github.com/sarchlab/neurosim/datarecording"
	"github.com/sarchlab/neurosim/evaluation"
	"github.com/sarchlab/neurosim/monitoring"
	"github.com/sarchlab/neurosim/scenario"
	"github.com/sarchlab/neurosim/sim"
	"github.com/sarchlab/neurosim/sim/storage"
)

type runOptions struct {
	params      []string
	paramSets   string
	jobs        int
	duration    float64
	storeData   bool
	monitor     bool
	monitorPort int
	openBrowser bool
	recordDir   string
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run SCENARIO",
		Short: "Evaluate a scenario.",
		Long: `Evaluates the scenario once, or once per parameter set when ` +
			`--param-sets is given. Independent runs are evaluated in ` +
			`parallel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			return o.run(ctx, args[0], cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&o.params, "param", nil,
		"Parameter value as name=value. Can be repeated.")
	f.StringVar(&o.paramSets, "param-sets", "",
		"YAML file with a list of parameter sets to evaluate.")
	f.IntVar(&o.jobs, "jobs", 0,
		"Number of runs evaluated at the same time. 0 runs all at once.")
	f.Float64Var(&o.duration, "duration", 0,
		"Simulated duration, overriding the scenario.")
	f.BoolVar(&o.storeData, "store-data", false,
		"Store frames during the runs, overriding the scenario.")
	f.BoolVar(&o.monitor, "monitor", false,
		"Serve the monitoring page while running.")
	f.IntVar(&o.monitorPort, "monitor-port", 0,
		"Port of the monitoring page. 0 picks a free port.")
	f.BoolVar(&o.openBrowser, "open-browser", false,
		"Open the monitoring page in a browser.")
	f.StringVar(&o.recordDir, "record-dir", "",
		"Directory to write a SQLite recording of the runs into.")

	return cmd
}

func (o *runOptions) run(ctx context.Context, path string, out io.Writer) error {
	logger := slog.Default()

	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	if o.duration > 0 {
		s.Evaluation.MaxDuration = o.duration
	}

	if o.storeData {
		s.Model.StoreData = true
	}

	sets, err := o.parameterSets()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	metrics, err := evaluation.NewMetrics(reg)
	if err != nil {
		return err
	}

	e := evaluation.NewEvaluator(logger, metrics)
	gaitLog := sim.NewLogHook(logger, controller.HookPosGaitStateChange)

	var mon *monitoring.Monitor

	if o.monitor || o.openBrowser {
		mon = monitoring.NewMonitor().
			WithPortNumber(o.monitorPort).
			WithGatherer(reg)
		mon.RegisterEvaluations(e)

		bar := mon.CreateProgressBar(s.Name, uint64(len(sets)))
		defer mon.CompleteProgressBar(bar)

		e.AcceptHook(monitoring.NewProgressHook(bar))

		url, err := mon.StartServer()
		if err != nil {
			return err
		}

		if o.openBrowser {
			err = browser.OpenURL(url)
			if err != nil {
				logger.Warn("cannot open browser", "url", url, "err", err)
			}
		}
	}

	instances := make([]*scenario.Instance, len(sets))
	jobs := make([]evaluation.Job, len(sets))

	for i, values := range sets {
		jobs[i] = s.Job(fmt.Sprintf("%s-%d", s.Name, i), logger, values,
			func(inst *scenario.Instance) {
				instances[i] = inst

				controller.Walk(inst.Controller, func(c controller.Controller) {
					if g, ok := c.(*controller.GaitStateController); ok {
						g.AcceptHook(gaitLog)
					}
				})

				if mon != nil {
					mon.RegisterObject(inst.Model)
				}
			})
	}

	results, err := e.RunBatch(ctx, jobs, s.Evaluation, o.jobs)
	if err != nil {
		return err
	}

	if o.recordDir != "" {
		file, err := record(o.recordDir, path, s.Name, results, instances)
		if err != nil {
			return err
		}

		logger.Info("runs recorded", "file", file)
	}

	return printResults(out, results)
}

// parameterSets returns the values of each run. The --param values apply
// to every set.
func (o *runOptions) parameterSets() ([]map[string]float64, error) {
	common, err := parseParams(o.params)
	if err != nil {
		return nil, err
	}

	if o.paramSets == "" {
		return []map[string]float64{common}, nil
	}

	data, err := os.ReadFile(o.paramSets)
	if err != nil {
		return nil, fmt.Errorf("reading parameter sets: %w", err)
	}

	var sets []map[string]float64

	err = yaml.Unmarshal(data, &sets)
	if err != nil {
		return nil, sim.ConfigErrorf(o.paramSets, "%w", err)
	}

	if len(sets) == 0 {
		return nil, sim.ConfigErrorf(o.paramSets, "no parameter sets")
	}

	for i := range sets {
		if sets[i] == nil {
			sets[i] = make(map[string]float64)
		}

		for k, v := range common {
			sets[i][k] = v
		}
	}

	return sets, nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))

	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("parameter %q is not name=value", p)
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}

		values[name] = v
	}

	return values, nil
}

func record(
	dir, scenarioPath, name string,
	results []evaluation.Result,
	instances []*scenario.Instance,
) (string, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", err
	}

	w := datarecording.NewSQLiteWriter(
		filepath.Join(dir, name+"_"+xid.New().String()))
	w.Init()

	exec := datarecording.NewExecRecorder(w)
	exec.Start()
	exec.Set("Scenario", scenarioPath)

	frames := datarecording.NewFrameRecorder(w)

	for i, res := range results {
		var data *storage.Storage
		if instances[i] != nil {
			data = instances[i].Model.Data()
		}

		frames.RecordRun(datarecording.Run{
			ID:      res.ID,
			Model:   res.Model,
			Status:  res.Status.String(),
			Fitness: res.Fitness,
			SimTime: float64(res.SimTime),
			Steps:   res.Steps,
		}, data)
	}

	exec.End()

	return w.Filename(), w.Close()
}

func printResults(out io.Writer, results []evaluation.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tMODEL\tSTATUS\tFITNESS\tSIM TIME\tSTEPS\tWALL TIME")

	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.6g\t%.3f\t%d\t%s\n",
			r.ID, r.Model, r.Status, r.Fitness, float64(r.SimTime), r.Steps,
			r.WallTime.Round(time.Millisecond))
	}

	return tw.Flush()
}
