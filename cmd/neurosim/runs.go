package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/neurosim/datarecording"
	"github.com/sarchlab/neurosim/sim/storage"
)

func newRunsCmd() *cobra.Command {
	var runID, channel string

	cmd := &cobra.Command{
		Use:   "runs RECORDING",
		Short: "List the runs of a recording, or print the frames of one run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := datarecording.OpenRecording(args[0])
			if err != nil {
				return err
			}
			defer rec.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case runID != "" && channel != "":
				times, values, err := rec.Series(ctx, runID, channel)
				if err != nil {
					return err
				}

				return printSeries(out, channel, times, values)
			case runID != "":
				st, err := rec.Frames(ctx, runID)
				if err != nil {
					return err
				}

				return printFrames(out, st)
			case channel != "":
				return errors.New("--channel needs --frames")
			}

			runs, err := rec.Runs(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODEL\tSTATUS\tFITNESS\tSIM TIME\tSTEPS")

			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.6g\t%.3f\t%d\n",
					r.ID, r.Model, r.Status, r.Fitness, r.SimTime, r.Steps)
			}

			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&runID, "frames", "",
		"Print the frames of the run with this ID as tab separated values.")
	cmd.Flags().StringVar(&channel, "channel", "",
		"With --frames, print only this channel.")

	return cmd
}

func printSeries(out io.Writer, label string, times, values []float64) error {
	_, err := fmt.Fprintf(out, "time\t%s\n", label)
	if err != nil {
		return err
	}

	for i, t := range times {
		_, err = fmt.Fprintf(out, "%g\t%g\n", t, values[i])
		if err != nil {
			return err
		}
	}

	return nil
}

func printFrames(out io.Writer, st *storage.Storage) error {
	_, err := fmt.Fprintf(out, "time\t%s\n", strings.Join(st.Labels(), "\t"))
	if err != nil {
		return err
	}

	for i := 0; i < st.FrameCount(); i++ {
		f := st.Frame(i)

		var b strings.Builder

		fmt.Fprintf(&b, "%g", float64(f.Time()))

		for _, v := range f.Values() {
			fmt.Fprintf(&b, "\t%g", v)
		}

		_, err = fmt.Fprintln(out, b.String())
		if err != nil {
			return err
		}
	}

	return nil
}
