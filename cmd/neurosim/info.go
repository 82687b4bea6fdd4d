package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/params"
	"github.com/sarchlab/neurosim/scenario"
)

type infoOutput struct {
	Model      map[string]any `yaml:"model"`
	Controller map[string]any `yaml:"controller,omitempty"`
	Parameters []params.Info  `yaml:"parameters"`
}

func newInfoCmd() *cobra.Command {
	var (
		paramValues []string
		freeOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "info SCENARIO",
		Short: "Describe the model and the parameters of a scenario.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			values, err := parseParams(paramValues)
			if err != nil {
				return err
			}

			inst, err := s.Build(slog.Default(), values)
			if err != nil {
				return err
			}

			out := infoOutput{
				Model:      inst.Model.Info(),
				Parameters: inst.Params.Infos(),
			}

			if inst.Controller != nil {
				out.Controller = inst.Controller.Info()
			}

			if freeOnly {
				out.Parameters = inst.Params.FreeInfos()
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			err = enc.Encode(out)
			if err != nil {
				return err
			}

			return enc.Close()
		},
	}

	cmd.Flags().StringArrayVar(&paramValues, "param", nil,
		"Parameter value as name=value. Can be repeated.")
	cmd.Flags().BoolVar(&freeOnly, "free", false,
		"List only the parameters that can be chosen from outside.")

	return cmd
}
