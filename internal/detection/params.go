package detection

import (
	"math"

	"github.com/pkg/errors"
)

// Default detector settings.
const (
	DefaultRadius    = 8.0
	DefaultCutoff    = 150
	DefaultPeakRatio = 0.8
)

// ErrInvalidParams is returned (wrapped) by Params.Validate.
var ErrInvalidParams = errors.New("invalid detection parameters")

// Params configures one detection run.
type Params struct {
	// Radius is the expected marker radius in pixels.
	Radius float64 `json:"radius"`

	// Cutoff is the luminance threshold used by Segment. Pixels brighter than
	// Cutoff become background.
	Cutoff uint8 `json:"cutoff"`

	// PeakRatio is the fraction of the strongest vote a pixel must exceed to be
	// reported as a marker centre.
	PeakRatio float64 `json:"peak_ratio"`
}

// DefaultParams returns radius 8, cutoff 150 and peak ratio 0.8.
func DefaultParams() Params {
	return Params{
		Radius:    DefaultRadius,
		Cutoff:    DefaultCutoff,
		PeakRatio: DefaultPeakRatio,
	}
}

// Validate rejects negative or non-finite radii and peak ratios.
//
// A zero radius is accepted (every edge votes 360 times on itself), and so is
// a peak ratio above 1, which simply finds no peaks.
func (p Params) Validate() error {
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) || p.Radius < 0 {
		return errors.Wrapf(ErrInvalidParams, "radius %v must be a finite number >= 0", p.Radius)
	}
	if math.IsNaN(p.PeakRatio) || math.IsInf(p.PeakRatio, 0) || p.PeakRatio < 0 {
		return errors.Wrapf(ErrInvalidParams, "peak ratio %v must be a finite number >= 0", p.PeakRatio)
	}
	return nil
}
