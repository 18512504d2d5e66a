package lightcone

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Snapshot is a single output time of the simulation.
type Snapshot struct {
	ID    int
	Scale float64
}

// Redshift returns the redshift of the snapshot, 1/a - 1.
func (s Snapshot) Redshift() float64 { return 1/s.Scale - 1 }

// SnapshotTable lists the snapshots of a simulation in file order.
type SnapshotTable []Snapshot

// Redshifts returns the redshift of every snapshot in the table.
func (tab SnapshotTable) Redshifts() []float64 {
	zs := make([]float64, len(tab))
	for i := range tab {
		zs[i] = tab[i].Redshift()
	}
	return zs
}

// Nearest returns the snapshot whose redshift is closest to z. Ties go to the
// snapshot which appears first in the table. tab must not be empty.
func (tab SnapshotTable) Nearest(z float64) Snapshot {
	dz := tab.Redshifts()
	for i := range dz {
		dz[i] = math.Abs(dz[i] - z)
	}
	return tab[floats.MinIdx(dz)]
}

// NearestSnapshot returns the ID of the snapshot in tab whose redshift is
// closest to z.
func NearestSnapshot(tab SnapshotTable, z float64) int {
	return tab.Nearest(z).ID
}
