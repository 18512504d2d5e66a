/*package env resolves where lightcone reads its inputs from and writes its
outputs to.*/
package env

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Environment holds the filesystem and the directory layout of a run.
type Environment struct {
	Fs afero.Fs

	Catalogs
	Shells

	// MemoDir holds the run manifest. It is the output directory.
	MemoDir string
}

// New returns an Environment rooted at the given directories. It does not
// touch the filesystem.
func New(
	fs afero.Fs, dirGcat, inputTemplate, dirOut, outputTemplate string,
) (*Environment, error) {
	e := &Environment{
		Fs:       fs,
		Catalogs: Catalogs{dir: dirGcat, format: inputTemplate},
		Shells:   Shells{dir: dirOut, format: outputTemplate},
		MemoDir:  dirOut,
	}

	if err := validateFormat("input_name_template", inputTemplate, 1); err != nil {
		return nil, err
	}
	if err := validateFormat("lightcone_name_template", outputTemplate, 2); err != nil {
		return nil, err
	}

	return e, nil
}

//////////////
// Catalogs //
//////////////

// Catalogs names the tracer catalog of each snapshot.
type Catalogs struct {
	dir, format string
}

// CatalogName returns the file holding the tracers of the given snapshot.
func (cat *Catalogs) CatalogName(snap int) string {
	return filepath.Join(cat.dir, fmt.Sprintf(cat.format, snap))
}

////////////
// Shells //
////////////

// Shells names the output file of each (class, shell) pair.
type Shells struct {
	dir, format string
}

// ShellName returns the output file of the given tracer class and shell.
func (sh *Shells) ShellName(class, shell int) string {
	return filepath.Join(sh.dir, fmt.Sprintf(sh.format, class, shell))
}

// ShellDir returns the directory that shells are written to.
func (sh *Shells) ShellDir() string { return sh.dir }

// validateFormat returns an error if format does not consume exactly n
// integer arguments.
func validateFormat(name, format string, n int) error {
	if format == "" {
		return fmt.Errorf("The '%s' variable isn't set.", name)
	}

	args := make([]interface{}, n)
	for i := range args {
		args[i] = i + 1
	}
	if s := fmt.Sprintf(format, args...); strings.Contains(s, "%!") {
		return fmt.Errorf("The '%s' variable is set to '%s', which must "+
			"be a format string taking exactly %d integers, but it "+
			"formats to '%s'.", name, format, n, s)
	}
	return nil
}
