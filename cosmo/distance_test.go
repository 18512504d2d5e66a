package cosmo

import (
	"errors"
	"math"
	"testing"

	"github.com/phil-mansfield/lightcone/errs"
)

func almostEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps*math.Max(1, math.Abs(y))
}

func TestHubbleFrac(t *testing.T) {
	tests := []struct {
		p    Params
		z, e float64
	}{
		{Params{0.7, 1, 0, 0}, 0, 1},
		{Params{0.7, 1, 0, 0}, 3, 8},
		{Params{0.7, 0, 1, 0}, 5, 1},
		{Params{0.7, 0.3, 0.7, 0}, 0, 1},
		{Params{0.7, 0, 0, 1}, 1, 4},
	}

	for i, test := range tests {
		e := test.p.HubbleFrac(test.z)
		if !almostEq(e, test.e, 1e-12) {
			t.Errorf("%d) Expected E(%g) = %g, got %g.", i, test.z, test.e, e)
		}
	}
}

func TestTableEinsteinDeSitter(t *testing.T) {
	p := Params{H100: 0.7, OmegaM: 1}
	tab, err := NewTable(p, 5, 0)
	if err != nil {
		t.Fatalf("NewTable returned %s", err)
	}

	dH := p.HubbleDistance()
	for _, z := range []float64{0, 0.01, 0.3, 1, 2.5, 5} {
		target := 2 * dH * (1 - 1/math.Sqrt(1+z))
		r, err := tab.Distance(z)
		if err != nil {
			t.Errorf("Distance(%g) returned %s", z, err)
			continue
		}
		if !almostEq(r, target, 1e-6) {
			t.Errorf("Distance(%g) = %g, expected %g", z, r, target)
		}

		zr, err := tab.Redshift(r)
		if err != nil {
			t.Errorf("Redshift(%g) returned %s", r, err)
		} else if !almostEq(zr, z, 1e-6) {
			t.Errorf("Redshift(Distance(%g)) = %g", z, zr)
		}
	}

	if !almostEq(tab.MaxDistance(), 2*dH*(1-1/math.Sqrt(6)), 1e-6) {
		t.Errorf("MaxDistance() = %g", tab.MaxDistance())
	}
}

func TestTableMonotonic(t *testing.T) {
	tab, err := NewTable(Params{H100: 0.6774, OmegaM: 0.3089, OmegaL: 0.6911},
		3, 500)
	if err != nil {
		t.Fatalf("NewTable returned %s", err)
	}

	prev := -1.0
	for i := 0; i <= 1000; i++ {
		r := tab.MaxDistance() * float64(i) / 1000
		z, err := tab.Redshift(r)
		if err != nil {
			t.Fatalf("Redshift(%g) returned %s", r, err)
		}
		if z < prev {
			t.Fatalf("Redshift is decreasing at r = %g: %g < %g", r, z, prev)
		}
		prev = z
	}
}

func TestTableDomain(t *testing.T) {
	tab, err := NewTable(Params{H100: 0.7, OmegaM: 0.3, OmegaL: 0.7}, 1, 100)
	if err != nil {
		t.Fatalf("NewTable returned %s", err)
	}

	bad := []func() error{
		func() error { _, err := tab.Redshift(-1); return err },
		func() error { _, err := tab.Redshift(tab.MaxDistance() * 1.01); return err },
		func() error { _, err := tab.Redshift(math.NaN()); return err },
		func() error { _, err := tab.Distance(-0.1); return err },
		func() error { _, err := tab.Distance(1.5); return err },
		func() error { return tab.Covers(tab.MaxDistance()) },
	}
	for i := range bad {
		if err := bad[i](); !errors.Is(err, errs.ErrOracleInconsistency) {
			t.Errorf("%d) Expected an oracle inconsistency, got %v.", i, err)
		}
	}

	if err := tab.Covers(tab.MaxDistance() * 0.7 * 0.99); err != nil {
		t.Errorf("Covers returned %s for an in-range distance.", err)
	}
}

func TestTableInconsistent(t *testing.T) {
	// E(z)^2 becomes negative near z = 0.5, so the distance integral fails.
	_, err := NewTable(Params{H100: 0.7, OmegaM: 0.3, OmegaL: 3}, 2, 200)
	if !errors.Is(err, errs.ErrOracleInconsistency) {
		t.Errorf("Expected an oracle inconsistency, got %v.", err)
	}

	_, err = NewTable(Params{H100: -1, OmegaM: 0.3, OmegaL: 0.7}, 2, 200)
	if !errors.Is(err, errs.ErrConfig) {
		t.Errorf("Expected a configuration error, got %v.", err)
	}

	_, err = NewTable(Params{H100: 0.7, OmegaM: 0.3, OmegaL: 0.7}, 0, 200)
	if !errors.Is(err, errs.ErrConfig) {
		t.Errorf("Expected a configuration error, got %v.", err)
	}
}
