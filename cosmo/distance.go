package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"

	"github.com/phil-mansfield/lightcone/errs"
)

const (
	// DefaultTableSize is the number of redshift nodes used by NewTable when
	// it is passed a non-positive size.
	DefaultTableSize = 4096
	// legendreOrder is the number of Gauss-Legendre points used to integrate
	// 1/E(z) across a single table interval.
	legendreOrder = 8
)

// Oracle maps between comoving distance and cosmological redshift. Distances
// are in Mpc (not Mpc/h). Implementations must be monotonic and safe for
// concurrent use.
type Oracle interface {
	// Distance returns the comoving radial distance to redshift z.
	Distance(z float64) (float64, error)
	// Redshift returns the redshift at comoving radial distance r.
	Redshift(r float64) (float64, error)
	// H100 returns the dimensionless Hubble parameter, h.
	H100() float64
}

var _ Oracle = &Table{}

// Table is an Oracle which tabulates the line-of-sight comoving distance on a
// uniform redshift grid and interpolates it with monotone cubics in both
// directions. A Table is read-only after construction.
type Table struct {
	params     Params
	zMax, rMax float64
	distance   interp.FritschButland
	redshift   interp.FritschButland
}

// NewTable integrates the comoving distance of p from z = 0 to z = zMax on n
// nodes. It returns errs.ErrOracleInconsistency if the resulting table is not
// strictly increasing.
func NewTable(p Params, zMax float64, n int) (*Table, error) {
	if err := p.Validate(); err != nil {
		return nil, errs.ErrConfig.Wrap(err.Error())
	}
	if zMax <= 0 || math.IsNaN(zMax) || math.IsInf(zMax, 0) {
		return nil, errs.ErrConfig.Wrapf(
			"The variable 'zmax_table' was set to %g.", zMax)
	}
	if n <= 0 {
		n = DefaultTableSize
	}
	if n < 2 {
		n = 2
	}

	dH := p.HubbleDistance()
	invE := func(z float64) float64 { return 1 / p.HubbleFrac(z) }

	zs, rs := make([]float64, n), make([]float64, n)
	for i := 1; i < n; i++ {
		zs[i] = zMax * float64(i) / float64(n-1)
		rs[i] = rs[i-1] + dH*quad.Fixed(
			invE, zs[i-1], zs[i], legendreOrder, quad.Legendre{}, 0,
		)
	}

	for i := 1; i < n; i++ {
		if !(rs[i] > rs[i-1]) {
			return nil, errs.ErrOracleInconsistency.Wrapf(
				"comoving distance is not increasing between z = %g and "+
					"z = %g (%g Mpc, %g Mpc)", zs[i-1], zs[i], rs[i-1], rs[i],
			)
		}
	}

	t := &Table{params: p, zMax: zMax, rMax: rs[n-1]}
	if err := t.distance.Fit(zs, rs); err != nil {
		return nil, errs.ErrOracleInconsistency.Wrap(err.Error())
	}
	if err := t.redshift.Fit(rs, zs); err != nil {
		return nil, errs.ErrOracleInconsistency.Wrap(err.Error())
	}

	return t, nil
}

// H100 returns the dimensionless Hubble parameter.
func (t *Table) H100() float64 { return t.params.H100 }

// Params returns the cosmology the table was built from.
func (t *Table) Params() Params { return t.params }

// MaxRedshift returns the largest redshift covered by the table.
func (t *Table) MaxRedshift() float64 { return t.zMax }

// MaxDistance returns the largest comoving distance, in Mpc, covered by the
// table.
func (t *Table) MaxDistance() float64 { return t.rMax }

// Distance returns the comoving distance in Mpc to redshift z.
func (t *Table) Distance(z float64) (float64, error) {
	if !(z >= 0 && z <= t.zMax) {
		return 0, errs.ErrOracleInconsistency.Wrapf(
			"redshift %g is outside of the tabulated range [0, %g]", z, t.zMax,
		)
	}
	return t.distance.Predict(z), nil
}

// Redshift returns the redshift at comoving distance r, given in Mpc.
func (t *Table) Redshift(r float64) (float64, error) {
	if !(r >= 0 && r <= t.rMax) {
		return 0, errs.ErrOracleInconsistency.Wrapf(
			"comoving distance %g Mpc is outside of the tabulated range "+
				"[0, %g]", r, t.rMax,
		)
	}
	return t.redshift.Predict(r), nil
}

// Covers returns errs.ErrOracleInconsistency if the table cannot convert
// comoving distances up to rMax, given in Mpc/h.
func (t *Table) Covers(rMax float64) error {
	if rMax/t.params.H100 > t.rMax {
		return errs.ErrOracleInconsistency.Wrapf(
			"shells extend to %g Mpc/h, but the distance table ends at "+
				"%g Mpc/h (z = %g); increase 'zmax_table'",
			rMax, t.rMax*t.params.H100, t.zMax,
		)
	}
	return nil
}
