package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/lightcone/lightcone"
)

func newShellsCommand(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shells [flags] ____.ini",
		Short: "Print the shells a run would build without building them",
		Long: `Prints the bounds, midpoint redshift, snapshot, and number of
periodic replicas of every shell in the config file. Only the snapshot table
is read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ReadConfig(fs, args[0], cmd)
			if err != nil {
				return err
			}
			plan, err := NewPlan(config, fs)
			if err != nil {
				return err
			}
			return printShells(cmd.OutOrStdout(), config, plan)
		},
	}
	addConfigFlags(cmd)
	return cmd
}

// printShells writes one line per shell in plan.
func printShells(w io.Writer, config *GlobalConfig, plan *Plan) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "# shellnum\tchi_low\tchi_high\tz_mid\tsnapshot\t"+
		"replicas\ttiling\t")

	for _, sh := range plan.Shells {
		z, err := plan.MidRedshift(sh)
		if err != nil {
			return err
		}

		snap := config.SnapshotCutsky
		if !config.IsCutsky {
			snap = lightcone.NearestSnapshot(plan.Snapshots, z)
		}

		offsets, _ := lightcone.Replicas(sh, config.BoxL, config.Origin)
		n := lightcone.Tiling(sh, config.BoxL, config.Origin)
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.5f\t%d\t%d\t%dx%dx%d\t\n",
			sh.Index, sh.Low, sh.High, z, snap, len(offsets), n[0], n[1], n[2])
	}

	return tw.Flush()
}
