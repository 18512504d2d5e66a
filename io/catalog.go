package io

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/spf13/afero"

	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/lightcone"
)

const (
	// CatalogColumns is the minimum number of columns in a tracer catalog.
	CatalogColumns = 10
	// ClassColumn is the column holding the integer tracer class.
	ClassColumn = 9
)

// catalogCols are the columns read from tracer catalogs: x, y, z, vx, vy,
// vz, then the class label.
var catalogCols = []int{0, 1, 2, 3, 4, 5, ClassColumn}

// Catalog is every tracer in one snapshot of the box. Positions are in Mpc/h
// and velocities in km/s.
type Catalog struct {
	X, Y, Z    []float64
	VX, VY, VZ []float64
	Class      []int
}

// Len returns the number of tracers in the catalog.
func (cat *Catalog) Len() int { return len(cat.X) }

// ReadCatalog reads a text tracer catalog. A missing file results in an
// errs.ErrMissingInput error and a file with the wrong layout results in an
// errs.ErrMalformedCatalog error.
func ReadCatalog(afs afero.Fs, fname string) (*Catalog, error) {
	data, err := afero.ReadFile(afs, fname)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrMissingInput.Wrapf("couldn't open %s", fname)
	} else if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}

	return ParseCatalog(data, fname)
}

// ParseCatalog parses the contents of a text tracer catalog. fname is only
// used in error messages.
func ParseCatalog(data []byte, fname string) (*Catalog, error) {
	cols, err := ParseText(data, catalogCols, CatalogColumns)
	if err != nil {
		return nil, errs.ErrMalformedCatalog.Wrapf("%s: %s", fname, err)
	}

	cat := &Catalog{
		X: cols[0], Y: cols[1], Z: cols[2],
		VX: cols[3], VY: cols[4], VZ: cols[5],
		Class: make([]int, len(cols[6])),
	}

	for i, c := range cols[6] {
		if c != math.Trunc(c) || math.IsInf(c, 0) {
			return nil, errs.ErrMalformedCatalog.Wrapf(
				"%s: data (not file) line %d has the non-integer class "+
					"label %g", fname, i+1, c,
			)
		}
		cat.Class[i] = int(c)
	}

	return cat, nil
}

// Tracers returns the positions and velocities of every tracer with the given
// class label, in catalog order.
func (cat *Catalog) Tracers(class int) *lightcone.Tracers {
	n := 0
	for _, c := range cat.Class {
		if c == class {
			n++
		}
	}

	t := &lightcone.Tracers{
		X: make([]float64, 0, n), Y: make([]float64, 0, n),
		Z: make([]float64, 0, n), VX: make([]float64, 0, n),
		VY: make([]float64, 0, n), VZ: make([]float64, 0, n),
	}
	for i, c := range cat.Class {
		if c != class {
			continue
		}
		t.Append(
			[3]float64{cat.X[i], cat.Y[i], cat.Z[i]},
			[3]float64{cat.VX[i], cat.VY[i], cat.VZ[i]},
		)
	}

	return t
}
