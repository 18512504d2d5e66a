package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/lightcone/io"
)

func newInspectCommand(fs afero.Fs) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "inspect [flags] ____.fits [____.fits ...]",
		Short: "Print the header and first rows of shell files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, fname := range args {
				sf, err := io.ReadShell(fs, fname)
				if err != nil {
					return err
				}

				fmt.Fprintf(w, "# %s\n", fname)
				fmt.Fprintf(w, "# GALTYPE = %d SHELLNUM = %d SNAPNUM = %d\n",
					sf.Class, sf.Shell.Index, sf.Snapshot)
				fmt.Fprintf(w, "# CHILOW = %g CHIHIGH = %g\n",
					sf.Shell.Low, sf.Shell.High)
				fmt.Fprintf(w, "# NGALBOX = %d NBOX = %d\n", sf.NGalBox, sf.NBox)
				fmt.Fprintln(w, "# RA DEC Z DZ VEL_LOS")
				for i := 0; i < sf.Len() && i < rows; i++ {
					fmt.Fprintf(w, "%.5f %.5f %.6f %.4e %.2f\n",
						sf.RA[i], sf.Dec[i], sf.Z[i], sf.DZ[i], sf.VelLOS[i])
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 10, "number of rows to print")
	return cmd
}
