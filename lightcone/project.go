package lightcone

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/errs"
)

// kmsToMks converts velocities from km/s to m/s.
const kmsToMks = 1000.0

// Geometry is the run-wide layout of the lightcone: the side length of the
// periodic box, the position of the observer within it, and the oracle used
// to convert comoving distances to redshifts. It is read-only once built.
type Geometry struct {
	BoxL   float64
	Origin [3]float64
	Oracle cosmo.Oracle
}

// Validate returns an error if the geometry cannot be used to build shells.
func (g *Geometry) Validate() error {
	if !(g.BoxL > 0) || math.IsInf(g.BoxL, 0) {
		return errs.ErrConfig.Wrapf("The variable 'boxL' was set to %g.", g.BoxL)
	}
	for i, x := range g.Origin {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errs.ErrConfig.Wrapf(
				"Component %d of the variable 'origin' was set to %g.", i, x,
			)
		}
	}
	if g.Oracle == nil {
		return errs.ErrConfig.Wrap("no distance-redshift oracle was given")
	}
	return nil
}

// Projector places the tracers of one periodic replica on the sky. It keeps
// scratch space between calls, so a Projector must not be shared between
// goroutines.
type Projector struct {
	geom *Geometry
	idx  []int
	r    []float64
}

// NewProjector returns a Projector for g.
func NewProjector(g *Geometry) *Projector {
	return &Projector{geom: g}
}

// Project appends to out every tracer of t which lies strictly inside sh
// once it has been moved into the replica at off. It returns the number of
// rows added. Tracer positions themselves are never modified.
func (p *Projector) Project(
	t *Tracers, off Offset, sh Shell, out *Records,
) (int, error) {
	shift := off.Shift(p.geom.BoxL, p.geom.Origin)

	// Count first so the output only has to grow once per replica.
	p.idx, p.r = p.idx[:0], p.r[:0]
	for i := range t.X {
		sx, sy, sz := t.X[i]+shift[0], t.Y[i]+shift[1], t.Z[i]+shift[2]
		r := math.Sqrt(sx*sx + sy*sy + sz*sz)
		if sh.Contains(r) {
			p.idx = append(p.idx, i)
			p.r = append(p.r, r)
		}
	}

	out.Grow(len(p.idx))
	h := p.geom.Oracle.H100()
	for j, i := range p.idx {
		r := p.r[j]
		z, err := p.geom.Oracle.Redshift(r / h)
		if err != nil {
			if !errors.Is(err, errs.ErrOracleInconsistency) {
				err = errs.ErrOracleInconsistency.Wrap(err.Error())
			}
			return j, fmt.Errorf("replica %v of %s: %w", off, sh, err)
		}

		ux := (t.X[i] + shift[0]) / r
		uy := (t.Y[i] + shift[1]) / r
		uz := (t.Z[i] + shift[2]) / r

		vlos := kmsToMks * (t.VX[i]*ux + t.VY[i]*uy + t.VZ[i]*uz)
		dz := vlos / cosmo.SpeedOfLightMks * (1 + z)

		ra, dec := SkyAngles(ux, uy, uz)
		out.Append(
			raFloat32(ra), float32(dec), z, float32(dz),
			float32(vlos/kmsToMks),
		)
	}

	return len(p.idx), nil
}

// SkyAngles converts a unit vector to right ascension and declination in
// degrees. The z axis points at Dec = +90 and the x axis at RA = 0. RA lies
// in [0, 360).
func SkyAngles(ux, uy, uz float64) (ra, dec float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, uz)))
	phi := math.Atan2(uy, ux)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	ra = phi * 180 / math.Pi
	if ra >= 360 {
		ra -= 360
	}
	return ra, 90 - theta*180/math.Pi
}

// raFloat32 rounds an RA to single precision without letting values just
// below 360 round up to 360.
func raFloat32(ra float64) float32 {
	out := float32(ra)
	if out >= 360 {
		return 0
	}
	return out
}
