package io

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/lightcone/errs"
)

const testCatalog = `# x y z vx vy vz m r c class
1.0 2.0 3.0  10  20  30 1e12 0.1 5 1
4.0 5.0 6.0 -10 -20 -30 2e12 0.2 5 2
7.0 8.0 9.0 100 200 300 3e12 0.3 5 1.0
0.5 0.5 0.5   0   0   0 4e12 0.4 5 3 extra_is_fine_if_consistent
`

func TestReadCatalog(t *testing.T) {
	afs := afero.NewMemMapFs()
	data := `# x y z vx vy vz m r c class
1.0 2.0 3.0  10  20  30 1e12 0.1 5 1
4.0 5.0 6.0 -10 -20 -30 2e12 0.2 5 2
7.0 8.0 9.0 100 200 300 3e12 0.3 5 1.0
0.5 0.5 0.5   0   0   0 4e12 0.4 5 3
`
	require.NoError(t, afero.WriteFile(afs, "/gcat/snap_010.txt", []byte(data), 0644))

	cat, err := ReadCatalog(afs, "/gcat/snap_010.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Len())
	assert.Equal(t, []int{1, 2, 1, 3}, cat.Class)

	tr := cat.Tracers(1)
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []float64{1, 7}, tr.X)
	assert.Equal(t, []float64{3, 9}, tr.Z)
	assert.Equal(t, []float64{10, 100}, tr.VX)
	assert.Equal(t, []float64{30, 300}, tr.VZ)

	assert.Equal(t, 0, cat.Tracers(4).Len())
	assert.Equal(t, []float64{4}, cat.Tracers(2).X)
}

func TestReadCatalogMissing(t *testing.T) {
	_, err := ReadCatalog(afero.NewMemMapFs(), "/gcat/nope.txt")
	assert.ErrorIs(t, err, errs.ErrMissingInput)
}

func TestReadCatalogMalformed(t *testing.T) {
	tests := []struct {
		name, data string
	}{
		{"too few columns", "1 2 3 4 5 6 7 8 9\n"},
		{"ragged", "1 2 3 4 5 6 7 8 9 1\n1 2 3 4 5 6 7 8 9\n"},
		{"non-numeric", "1 2 3 4 5 6 7 8 9 x\n"},
		{"fractional class", "1 2 3 4 5 6 7 8 9 1.5\n"},
		{"trailing junk", testCatalog},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(test.data), test.name)
			assert.ErrorIs(t, err, errs.ErrMalformedCatalog)
		})
	}
}

func TestReadSnapshotTable(t *testing.T) {
	afs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(afs, "/alist.txt",
		[]byte("# snap a\n10 0.25\n20 0.5\n30 1.0\n"), 0644))

	tab, err := ReadSnapshotTable(afs, "/alist.txt")
	require.NoError(t, err)
	require.Len(t, tab, 3)
	assert.Equal(t, 20, tab[1].ID)
	assert.Equal(t, 0.5, tab[1].Scale)
	assert.Equal(t, 30, tab.Nearest(0.1).ID)

	bad := map[string]string{
		"/empty.txt":    "# nothing\n",
		"/negative.txt": "10 -0.5\n",
		"/fraction.txt": "10.5 0.5\n",
	}
	for fname, data := range bad {
		require.NoError(t, afero.WriteFile(afs, fname, []byte(data), 0644))
		_, err := ReadSnapshotTable(afs, fname)
		assert.ErrorIs(t, err, errs.ErrConfig, fname)
	}

	_, err = ReadSnapshotTable(afs, "/missing.txt")
	assert.ErrorIs(t, err, errs.ErrConfig)
}
