/*package cosmo contains the cosmological background used to place tracers
along the past lightcone: the Hubble expansion rate and the mapping between
comoving distance and redshift.*/
package cosmo

import (
	"fmt"
	"math"
)

const (
	// SpeedOfLightMks is the speed of light in m/s.
	SpeedOfLightMks = 299792458.0
	// SpeedOfLightKms is the speed of light in km/s.
	SpeedOfLightKms = SpeedOfLightMks / 1000
)

// Params are the background parameters of a Lambda-CDM cosmology. Curvature
// is whatever is left over: OmegaK = 1 - OmegaM - OmegaL - OmegaR.
type Params struct {
	H100   float64
	OmegaM float64
	OmegaL float64
	OmegaR float64
}

// OmegaK returns the curvature density parameter.
func (p *Params) OmegaK() float64 {
	return 1 - p.OmegaM - p.OmegaL - p.OmegaR
}

// HubbleDistance returns c/H0 in Mpc.
func (p *Params) HubbleDistance() float64 {
	return SpeedOfLightKms / (100 * p.H100)
}

// HubbleFrac calculates E(z) = H(z)/H0. Here H(z) is from Hubble's Law,
// H(z)**2 = H0**2 (OmegaR a**-4 + OmegaM a**-3 + OmegaK a**-2 + OmegaL).
func (p *Params) HubbleFrac(z float64) float64 {
	a1 := 1 + z
	a2 := a1 * a1
	return math.Sqrt(p.OmegaR*a2*a2 + p.OmegaM*a2*a1 +
		p.OmegaK()*a2 + p.OmegaL)
}

// Validate returns an error if the parameters cannot describe an expanding
// universe.
func (p *Params) Validate() error {
	switch {
	case p.H100 <= 0:
		return fmt.Errorf("The variable '%s' was set to %g.", "h", p.H100)
	case p.OmegaM < 0:
		return fmt.Errorf("The variable '%s' was set to %g.",
			"omega_m", p.OmegaM)
	case p.OmegaL < 0:
		return fmt.Errorf("The variable '%s' was set to %g.",
			"omega_l", p.OmegaL)
	case p.OmegaR < 0:
		return fmt.Errorf("The variable '%s' was set to %g.",
			"omega_r", p.OmegaR)
	}
	return nil
}
