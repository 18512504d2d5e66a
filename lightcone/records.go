package lightcone

// Records are the columns of an output shell catalog. RA and Dec are in
// degrees, Z and DZ are dimensionless, and VelLOS is in km/s.
type Records struct {
	RA, Dec []float32
	Z       []float64
	DZ      []float32
	VelLOS  []float32
}

// Len returns the number of rows.
func (rec *Records) Len() int { return len(rec.RA) }

// Grow makes room for at least n more rows without reallocating.
func (rec *Records) Grow(n int) {
	if cap(rec.RA)-len(rec.RA) >= n {
		return
	}
	m := len(rec.RA) + n
	rec.RA = grow32(rec.RA, m)
	rec.Dec = grow32(rec.Dec, m)
	rec.DZ = grow32(rec.DZ, m)
	rec.VelLOS = grow32(rec.VelLOS, m)

	z := make([]float64, len(rec.Z), m)
	copy(z, rec.Z)
	rec.Z = z
}

func grow32(x []float32, m int) []float32 {
	out := make([]float32, len(x), m)
	copy(out, x)
	return out
}

// Append adds a single row.
func (rec *Records) Append(ra, dec float32, z float64, dz, vlos float32) {
	rec.RA = append(rec.RA, ra)
	rec.Dec = append(rec.Dec, dec)
	rec.Z = append(rec.Z, z)
	rec.DZ = append(rec.DZ, dz)
	rec.VelLOS = append(rec.VelLOS, vlos)
}
