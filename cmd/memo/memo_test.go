package memo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/io"
	"github.com/phil-mansfield/lightcone/version"
)

func testManifest() *Manifest {
	return &Manifest{
		Version: version.SourceVersion, BoxL: 2000, ShellWidth: 25,
		H100: 0.6774, OmegaM: 0.3089, OmegaL: 0.6911, ZMaxTable: 10,
		Cutsky: -1,
	}
}

func TestCheckManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))

	require.NoError(t, CheckManifest(fs, "/out", testManifest()))
	exists, err := afero.Exists(fs, "/out/"+ManifestFile)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same parameters on a rerun.
	require.NoError(t, CheckManifest(fs, "/out", testManifest()))

	changes := map[string]func(m *Manifest){
		"box":     func(m *Manifest) { m.BoxL = 1000 },
		"width":   func(m *Manifest) { m.ShellWidth = 50 },
		"origin":  func(m *Manifest) { m.Origin[1] = 10 },
		"cosmo":   func(m *Manifest) { m.OmegaM = 0.3 },
		"cutsky":  func(m *Manifest) { m.Cutsky = 100 },
		"table":   func(m *Manifest) { m.ZMaxTable = 5 },
		"version": func(m *Manifest) { m.Version = "0.0.1" },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			m := testManifest()
			change(m)
			fs := afero.NewMemMapFs()
			require.NoError(t, CheckManifest(fs, "/out", m))
			assert.ErrorIs(t, CheckManifest(fs, "/out", testManifest()),
				errs.ErrConfig)
		})
	}
}

func TestCheckManifestCorrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/"+ManifestFile,
		[]byte("box_length: [1, 2"), 0644))
	assert.ErrorIs(t, CheckManifest(fs, "/out", testManifest()), errs.ErrConfig)
}

func TestCatalogsCache(t *testing.T) {
	calls := map[string]int{}
	var mu sync.Mutex
	load := func(fname string) (*io.Catalog, error) {
		mu.Lock()
		calls[fname]++
		mu.Unlock()
		if fname == "missing" {
			return nil, errs.ErrMissingInput.Wrap(fname)
		}
		return &io.Catalog{X: []float64{1}}, nil
	}

	m, err := NewCatalogs(2, load)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		cat, err := m.Catalog("a")
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
	}
	assert.Equal(t, 1, m.Loads())

	_, err = m.Catalog("b")
	require.NoError(t, err)
	_, err = m.Catalog("c") // evicts "a"
	require.NoError(t, err)
	_, err = m.Catalog("a")
	require.NoError(t, err)
	assert.Equal(t, 4, m.Loads())

	for i := 0; i < 2; i++ {
		_, err = m.Catalog("missing")
		assert.ErrorIs(t, err, errs.ErrMissingInput)
	}
	assert.Equal(t, 2, calls["missing"])
}

func TestCatalogsNoCache(t *testing.T) {
	m, err := NewCatalogs(0, func(fname string) (*io.Catalog, error) {
		return &io.Catalog{}, nil
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = m.Catalog("a")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, m.Loads())
}

func TestCatalogsConcurrent(t *testing.T) {
	m, err := NewCatalogs(4, func(fname string) (*io.Catalog, error) {
		return &io.Catalog{X: make([]float64, len(fname))}, nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fname := fmt.Sprintf("snap_%d", i%4)
			cat, err := m.Catalog(fname)
			assert.NoError(t, err)
			assert.Equal(t, len(fname), cat.Len())
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, m.Loads(), 64)
	assert.GreaterOrEqual(t, m.Loads(), 4)
}
