package memo

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/version"
)

// ManifestFile is the name of the manifest written to the output directory.
const ManifestFile = "lightcone.yaml"

// Manifest records the parameters which determine the contents of every
// shell in an output directory. Shells are only skipped on reruns when the
// manifest matches, since otherwise a finished shell from an old run could
// sit next to new ones built with different parameters.
type Manifest struct {
	Version    string     `yaml:"version"`
	BoxL       float64    `yaml:"box_length"`
	ShellWidth float64    `yaml:"shell_width"`
	Origin     [3]float64 `yaml:"origin"`
	H100       float64    `yaml:"h"`
	OmegaM     float64    `yaml:"omega_m"`
	OmegaL     float64    `yaml:"omega_l"`
	OmegaR     float64    `yaml:"omega_r"`
	// ZMaxTable is the extent of the distance table, which sets the
	// interpolation grid.
	ZMaxTable float64 `yaml:"zmax_table"`
	// Cutsky is the snapshot used for every shell, or -1 if each shell uses
	// the snapshot nearest its midpoint.
	Cutsky int `yaml:"cutsky_snapshot"`
}

// CheckManifest compares m against the manifest in dir. If dir has no
// manifest, m is written there. A mismatch results in an errs.ErrConfig
// error.
func CheckManifest(fs afero.Fs, dir string, m *Manifest) error {
	fname := filepath.Join(dir, ManifestFile)

	exists, err := afero.Exists(fs, fname)
	if err != nil {
		return err
	}
	if !exists {
		return writeManifest(fs, fname, m)
	}

	data, err := afero.ReadFile(fs, fname)
	if err != nil {
		return err
	}
	old := &Manifest{}
	if err = yaml.Unmarshal(data, old); err != nil {
		return errs.ErrConfig.Wrapf("I couldn't parse the manifest '%s': %s",
			fname, err)
	}

	if diff := manifestDiff(old, m); diff != "" {
		return errs.ErrConfig.Wrapf("The output directory '%s' was created "+
			"with different parameters (%s). These can be compared by "+
			"inspecting '%s'. Use a new 'dir_out' or remove the old shells.",
			dir, diff, fname)
	}
	return nil
}

func writeManifest(fs afero.Fs, fname string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, fname, data, 0644)
}

// manifestDiff returns a description of the first difference between the
// two manifests, or "" if they agree.
func manifestDiff(old, m *Manifest) string {
	ok, err := version.Compatible(old.Version)
	switch {
	case err != nil:
		return fmt.Sprintf("version '%s' can't be parsed", old.Version)
	case !ok:
		return fmt.Sprintf("version %s, not %s", old.Version, m.Version)
	case old.BoxL != m.BoxL:
		return fmt.Sprintf("'boxL' was %g, not %g", old.BoxL, m.BoxL)
	case old.ShellWidth != m.ShellWidth:
		return fmt.Sprintf("'shellwidth' was %g, not %g",
			old.ShellWidth, m.ShellWidth)
	case old.Origin != m.Origin:
		return fmt.Sprintf("'origin' was %v, not %v", old.Origin, m.Origin)
	case old.H100 != m.H100 || old.OmegaM != m.OmegaM ||
		old.OmegaL != m.OmegaL || old.OmegaR != m.OmegaR:
		return "the cosmology differs"
	case old.ZMaxTable != m.ZMaxTable:
		return fmt.Sprintf("'zmax_table' was %g, not %g",
			old.ZMaxTable, m.ZMaxTable)
	case old.Cutsky != m.Cutsky:
		return fmt.Sprintf("the cut-sky snapshot was %d, not %d",
			old.Cutsky, m.Cutsky)
	}
	return ""
}
