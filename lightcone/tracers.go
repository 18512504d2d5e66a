package lightcone

// Tracers holds the positions and velocities of one class of tracer in the
// simulation box. Positions are in Mpc/h and velocities are in km/s. Tracers
// is never modified after it has been loaded.
type Tracers struct {
	X, Y, Z    []float64
	VX, VY, VZ []float64
}

// Len returns the number of tracers.
func (t *Tracers) Len() int { return len(t.X) }

// Append adds a single tracer.
func (t *Tracers) Append(x, v [3]float64) {
	t.X, t.Y, t.Z = append(t.X, x[0]), append(t.Y, x[1]), append(t.Z, x[2])
	t.VX, t.VY, t.VZ = append(t.VX, v[0]), append(t.VY, v[1]), append(t.VZ, v[2])
}
