/*package errs registers the error taxonomy shared by every lightcone package.

Each error carries a numeric code in the "lightcone" codespace. Task-local
errors (ErrMissingInput, ErrMalformedCatalog) are contained at the task
boundary by the orchestrator. Run-wide errors (ErrOracleInconsistency,
ErrConfig) abort the run, and their code becomes the process exit status.
*/
package errs

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

const Codespace = "lightcone"

var (
	// ErrMissingInput is returned when the tracer catalog of a snapshot is
	// absent.
	ErrMissingInput = errorsmod.Register(Codespace, 2, "missing input catalog")
	// ErrAlreadyComplete marks a task whose output file already exists.
	ErrAlreadyComplete = errorsmod.Register(Codespace, 3, "shell already complete")
	// ErrOracleInconsistency is returned when the distance-redshift relation
	// is non-monotonic or is queried outside of its domain.
	ErrOracleInconsistency = errorsmod.Register(Codespace, 4, "distance oracle inconsistency")
	// ErrMalformedCatalog is returned when a catalog does not match the
	// expected column layout.
	ErrMalformedCatalog = errorsmod.Register(Codespace, 5, "malformed catalog")
	// ErrConfig is returned for invalid or conflicting configuration.
	ErrConfig = errorsmod.Register(Codespace, 6, "invalid configuration")
)

// TaskLocal returns true if err should be contained at the boundary of a
// single task instead of aborting the run.
func TaskLocal(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrMalformedCatalog) ||
		errors.Is(err, ErrAlreadyComplete)
}

// ExitCode maps an error returned from a run onto a process exit status.
// Errors outside of the lightcone codespace map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded *errorsmod.Error
	if errors.As(err, &coded) && coded.Codespace() == Codespace {
		return int(coded.ABCICode())
	}
	return 1
}
