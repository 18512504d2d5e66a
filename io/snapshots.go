package io

import (
	"fmt"
	"math"

	"github.com/spf13/afero"

	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/lightcone"
)

// ReadSnapshotTable reads a text file whose first two columns are snapshot
// IDs and scale factors. Problems with this file are configuration errors,
// since every task depends on it.
func ReadSnapshotTable(afs afero.Fs, fname string) (lightcone.SnapshotTable, error) {
	data, err := afero.ReadFile(afs, fname)
	if err != nil {
		return nil, errs.ErrConfig.Wrapf(
			"couldn't read the snapshot table 'file_alist': %s", err)
	}

	cols, err := ParseText(data, []int{0, 1}, 2)
	if err != nil {
		return nil, errs.ErrConfig.Wrapf("%s: %s", fname, err)
	}
	if len(cols[0]) == 0 {
		return nil, errs.ErrConfig.Wrapf("The snapshot table %s is empty.",
			fname)
	}

	tab := make(lightcone.SnapshotTable, len(cols[0]))
	for i := range tab {
		id, a := cols[0][i], cols[1][i]
		if id != math.Trunc(id) || math.IsInf(id, 0) {
			return nil, errs.ErrConfig.Wrap(fmt.Sprintf(
				"%s: snapshot ID %g on data line %d is not an integer.",
				fname, id, i+1,
			))
		}
		if !(a > 0) || math.IsInf(a, 0) {
			return nil, errs.ErrConfig.Wrap(fmt.Sprintf(
				"%s: snapshot %d has the scale factor %g.", fname, int(id), a,
			))
		}
		tab[i] = lightcone.Snapshot{ID: int(id), Scale: a}
	}

	return tab, nil
}
