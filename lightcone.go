/*lightcone builds observer-centered lightcone shells out of the tracer
catalogs of periodic N-body simulation boxes.*/
package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/lightcone/cmd"
	"github.com/phil-mansfield/lightcone/errs"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running lightcone:\n%s\n", err.Error())
		os.Exit(errs.ExitCode(err))
	}
}
