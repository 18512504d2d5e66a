/*package lightcone builds observer-centered lightcone shells out of a periodic
simulation box.

A shell is an annulus in comoving distance. The box is tiled periodically
around the observer, replicas which cannot reach the shell are culled, and the
tracers in the remaining replicas are projected onto the sky. All lengths are
in Mpc/h unless stated otherwise.*/
package lightcone

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Shell is a radial shell of comoving distance, (Low, High).
type Shell struct {
	Index     int
	Low, High float64
}

// ShellBounds returns the shell with the given index. Consecutive shells
// share their bounds exactly: ShellBounds(i, w).High == ShellBounds(i+1,
// w).Low.
func ShellBounds(i int, width float64) Shell {
	return Shell{
		Index: i,
		Low:   width * float64(i),
		High:  width * float64(i+1),
	}
}

// Mid returns the comoving distance halfway through the shell.
func (sh Shell) Mid() float64 { return 0.5 * (sh.Low + sh.High) }

// Contains returns true if r is strictly inside the shell. Points which lie
// exactly on a boundary belong to neither neighbor.
func (sh Shell) Contains(r float64) bool { return sh.Low < r && r < sh.High }

func (sh Shell) String() string {
	return fmt.Sprintf("shell %d [%.3f - %.3f Mpc/h]", sh.Index, sh.Low, sh.High)
}

// ReplicaCount returns the number of box lengths needed to reach a distance
// of high in every direction. For an observer at the box origin, replica
// offsets run over [-n, n) on each axis.
func ReplicaCount(high, boxL float64) int {
	return int(math.Ceil(high / boxL))
}

// ReplicaRange returns the inclusive range of replica offsets along each axis
// whose points can lie strictly closer than high to an observer at origin.
func ReplicaRange(high, boxL float64, origin [3]float64) (lo, hi Offset) {
	for i := range origin {
		lo[i] = int(math.Floor((origin[i] - high) / boxL))
		hi[i] = int(math.Ceil((origin[i]+high)/boxL)) - 1
	}
	return lo, hi
}

// Tiling returns the number of replicas along each axis which Replicas
// examines for sh.
func Tiling(sh Shell, boxL float64, origin [3]float64) [3]int {
	lo, hi := ReplicaRange(sh.High, boxL, origin)
	return [3]int{hi[0] - lo[0] + 1, hi[1] - lo[1] + 1, hi[2] - lo[2] + 1}
}

// Offset identifies a periodic replica of the box by how many box lengths it
// is displaced along each axis.
type Offset [3]int

// Shift returns the vector which moves a point in the original box into this
// replica, expressed relative to the observer: boxL*off - origin.
func (off Offset) Shift(boxL float64, origin [3]float64) [3]float64 {
	return [3]float64{
		boxL*float64(off[0]) - origin[0],
		boxL*float64(off[1]) - origin[1],
		boxL*float64(off[2]) - origin[2],
	}
}

// MayIntersect returns false if the replica at off cannot contain any point
// of sh. The replica is treated as a solid box, so some admitted replicas
// will turn out to hold no tracers inside the shell, but no replica which
// does is ever rejected.
func MayIntersect(sh Shell, off Offset, boxL float64, origin [3]float64) bool {
	shift := off.Shift(boxL, origin)

	near, far := [3]float64{}, [3]float64{}
	for i, lo := range shift {
		hi := lo + boxL
		switch {
		case lo > 0:
			near[i] = lo
		case hi < 0:
			near[i] = -hi
		}
		far[i] = math.Max(math.Abs(lo), math.Abs(hi))
	}

	rMin := floats.Norm(near[:], 2)
	rMax := floats.Norm(far[:], 2)
	return !(sh.High < rMin || sh.Low > rMax)
}

// Replicas returns the offsets of every replica which may intersect sh, in
// enumeration order (x slowest, z fastest), along with the number of replicas
// that were culled.
func Replicas(
	sh Shell, boxL float64, origin [3]float64,
) (admitted []Offset, culled int) {
	lo, hi := ReplicaRange(sh.High, boxL, origin)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				off := Offset{x, y, z}
				if MayIntersect(sh, off, boxL, origin) {
					admitted = append(admitted, off)
				} else {
					culled++
				}
			}
		}
	}
	return admitted, culled
}
