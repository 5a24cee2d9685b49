// Package losmodel specifies the base free-space/LOS loss contract (C5)
// consumed by the dominant-path engine, and provides a default ITU-R
// P.1411-style implementation. The external collaborator's internals are
// out of scope per spec §1 — this package only owns the contract and one
// concrete, pluggable implementation of it, grounded in the teacher's
// pathloss.SimplePLModel free-space branch.
package losmodel

import (
	"math"

	"github.com/wiless/foba-pathloss/geometry"
)

const speedOfLightMPerS = 299792458.0

// Model is the base-LOS contract: a pure function of endpoints and
// frequency, returning a non-negative loss in dB.
type Model interface {
	LossDb(rx, tx geometry.Vector3, freqHz float64) float64
}

// ITU1411 is a free-space-loss collaborator in the style of ITU-R
// P.1411's LOS segment: pure Friis free-space loss, no clutter or
// frequency-band correction. This plays the role spec §4.5 assigns to
// the external ITU-R P.1411 collaborator; which exact curve family the
// real collaborator implements is explicitly out of scope, so the
// teacher's own pathloss.SimplePLModel.LossInDb FreeSpace branch is
// reused directly as the stand-in.
type ITU1411 struct{}

// NewITU1411 returns the default base-LOS collaborator.
func NewITU1411() *ITU1411 {
	return &ITU1411{}
}

// LossDb computes the free-space loss for the 3D segment rx-tx at
// freqHz, in dB. Returns 0 for coincident endpoints (distance 0) rather
// than -Inf, since a receiver can never be exactly on top of a
// transmitter in a physically meaningful scene.
func (m *ITU1411) LossDb(rx, tx geometry.Vector3, freqHz float64) float64 {
	d := geometry.Distance(rx, tx)
	if d <= 0 {
		return 0
	}
	lambda := speedOfLightMPerS / freqHz
	// L = 20 log10(4*pi*d / lambda)
	loss := 20 * math.Log10(4*math.Pi*d/lambda)
	if loss < 0 {
		return 0
	}
	return loss
}
