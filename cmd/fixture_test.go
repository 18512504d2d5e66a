package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testConfig = `[dir]
dir_out = /out
dir_gcat = /gcat
input_name_template = galaxies_%03d.txt
lightcone_name_template = lightcone_galtype%d_%d.fits
file_alist = /alist.txt

[sim]
boxL = 100
shellwidth = 50
shellnums = 0, 1
is_cutsky = false
galtypes = 1, 2
origin = 10, 20, 30

[cosmo]
h = 0.7
omega_m = 0.3
omega_l = 0.7

[run]
workers = 1
catalog_cache = 2
`

// Snapshot 10 is closest to the middle of shell 0 and snapshot 11 is closest
// to the middle of shell 1.
const testAlist = `# snapshot scale
10 1.00
11 0.97
`

// setConfig replaces 'key = ...' in the [section] of config with value,
// adding the key if it isn't there.
func setConfig(config, section, key, value string) string {
	lines := strings.Split(config, "\n")
	out := []string{}
	inSection, done := false, false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			if inSection && !done {
				out = append(out[:len(out)-1], key+" = "+value, "")
				done = true
			}
			inSection = trimmed == "["+section+"]"
		}
		if inSection && strings.HasPrefix(trimmed, key+" ") {
			line = key + " = " + value
			done = true
		}
		out = append(out, line)
	}
	if !done {
		out = append(out, key+" = "+value)
	}
	return strings.Join(out, "\n")
}

// catalogText returns a text catalog of n random tracers in a box of width
// boxL, split between classes 1 and 2.
func catalogText(seed int64, n int, boxL float64) []byte {
	rng := rand.New(rand.NewSource(seed))
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "# x y z vx vy vz mass rvir id class")
	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, "%.5f %.5f %.5f %.3f %.3f %.3f 1e12 0.1 %d %d\n",
			rng.Float64()*boxL, rng.Float64()*boxL, rng.Float64()*boxL,
			rng.NormFloat64()*300, rng.NormFloat64()*300,
			rng.NormFloat64()*300, i, 1+i%2)
	}
	return buf.Bytes()
}

// testFs returns a filesystem holding a config file at /run.ini, the
// snapshot table, and the catalogs of the given snapshots.
func testFs(t *testing.T, config string, snaps ...int) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/gcat", 0755))
	require.NoError(t, afero.WriteFile(fs, "/run.ini", []byte(config), 0644))
	require.NoError(t, afero.WriteFile(fs, "/alist.txt", []byte(testAlist), 0644))
	for _, snap := range snaps {
		name := fmt.Sprintf("/gcat/galaxies_%03d.txt", snap)
		require.NoError(t, afero.WriteFile(fs, name,
			catalogText(int64(snap), 2000, 100), 0644))
	}
	return fs
}

func testReadConfig(t *testing.T, fs afero.Fs) *GlobalConfig {
	t.Helper()
	config, err := ReadConfig(fs, "/run.ini", nil)
	require.NoError(t, err)
	return config
}
