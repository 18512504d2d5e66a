/*package cmd contains code for running lightcone in its various command line
modes.*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/lightcone/logging"
	"github.com/phil-mansfield/lightcone/version"
)

// Execute runs the lightcone binary against the real filesystem.
func Execute() error {
	return NewRootCommand(afero.NewOsFs()).ExecuteContext(context.Background())
}

// NewRootCommand returns the lightcone command with every mode attached. All
// file access goes through fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:   "lightcone",
		Short: "Build observer-centered lightcone shells from periodic boxes",
		Long: `lightcone tiles a periodic simulation box around an observer and
writes the tracers which fall in each comoving-distance shell to a FITS
table, with sky positions, redshifts, and line-of-sight velocities.

For an example config file, type 'lightcone config'.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(
		newRunCommand(fs),
		newShellsCommand(fs),
		newInspectCommand(fs),
		newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

func newRunCommand(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] ____.ini",
		Short: "Build every shell in the config file",
		Long: `Builds every (tracer class, shell) pair listed in the config file.
Shells which already exist in 'dir_out' are skipped, so a run which was
interrupted can be restarted with the same command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ReadConfig(fs, args[0], cmd)
			if err != nil {
				return err
			}

			log, err := logging.New(config.LogLevel, config.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			runner, err := NewRunner(config, fs, log)
			if err != nil {
				return err
			}
			_, err = runner.Run(ctx)
			return err
		},
	}
	addConfigFlags(cmd)
	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print an example config file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), ExampleConfig())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of lightcone",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lightcone version %s\n",
				version.SourceVersion)
		},
	}
}
