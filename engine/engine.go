// Package engine implements the dominant-path engine (C6): it combines
// the visibility oracle (C4) with the base-LOS collaborator (C5) to
// compute penetration, diffraction, and reflection candidates, picks the
// dominant (least-attenuating) path, and adds a bounded noise term.
package engine

import (
	"errors"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"

	"github.com/wiless/foba-pathloss/building"
	"github.com/wiless/foba-pathloss/geometry"
	"github.com/wiless/foba-pathloss/losmodel"
	"github.com/wiless/foba-pathloss/visibility"
	"github.com/wiless/foba-pathloss/zone"
)

// shortCircuitThresholdDB is the base-loss threshold beyond which the
// scene is treated as free-space-dominated (spec §4.6.1 step 3).
const shortCircuitThresholdDB = 90.0

// MobilityHandle is an opaque read-only handle yielding a position on
// demand; the engine never mutates it (spec §3).
type MobilityHandle interface {
	Position() geometry.Vector3
}

// StaticPosition is a MobilityHandle over a fixed position, for callers
// (tests, the demo driver) whose nodes do not move. The engine itself
// handles auxiliary points (corners, reflection points) as plain
// geometry.Vector3 values, not as StaticPosition.
type StaticPosition geometry.Vector3

// Position implements MobilityHandle.
func (s StaticPosition) Position() geometry.Vector3 {
	return geometry.Vector3(s)
}

var log = logrus.WithField("component", "engine")

// Engine is the single-threaded dominant-path propagation engine. It is
// embedded synchronously inside an external scheduler: every public
// operation returns after a bounded amount of geometric computation, and
// none of them spawn goroutines or block.
type Engine struct {
	config   Config
	registry *building.Registry
	los      losmodel.Model
	oracle   *visibility.Oracle
	rng      *rand.Rand
}

// New constructs an engine over registry, using the default ITU-R
// P.1411-style collaborator for the base-LOS term (spec §4.5).
func New(frequencyHz, txGainDBm float64, registry *building.Registry) *Engine {
	return NewWithModel(frequencyHz, txGainDBm, registry, losmodel.NewITU1411())
}

// NewWithModel constructs an engine with an explicit base-LOS
// collaborator, for tests or alternate P.1411 implementations.
func NewWithModel(frequencyHz, txGainDBm float64, registry *building.Registry, los losmodel.Model) *Engine {
	cfg := NewConfig()
	cfg.FrequencyHz = frequencyHz
	cfg.TxGainDBm = txGainDBm
	return &Engine{
		config:   *cfg,
		registry: registry,
		los:      los,
		oracle:   visibility.NewOracle(),
		rng:      rand.New(rand.NewSource(0)),
	}
}

// SetFrequency updates the carrier frequency forwarded to the base-LOS
// collaborator.
func (e *Engine) SetFrequency(freqHz float64) {
	e.config.FrequencyHz = freqHz
}

// SetGain updates the transmit gain used by the reflection model.
func (e *Engine) SetGain(txGainDBm float64) {
	e.config.TxGainDBm = txGainDBm
}

// SetNoiseEnabled toggles the bounded noise term (ambient addition: lets
// tests disable noise per spec §8's "noise=off" scenarios).
func (e *Engine) SetNoiseEnabled(enabled bool) {
	e.config.NoiseEnabled = enabled
}

// AssignStreams assigns the engine's single RNG stream, seeded from
// firstStreamIndex, and returns 1 (the number of stream indices
// consumed) — spec §4.6.6/§9.
func (e *Engine) AssignStreams(firstStreamIndex int64) int {
	e.config.StreamIndex = firstStreamIndex
	e.rng = rand.New(rand.NewSource(firstStreamIndex))
	return 1
}

// Loss computes the dominant-path loss in dB between rx and tx (spec
// §4.6.1).
func (e *Engine) Loss(rx, tx MobilityHandle) (float64, error) {
	rxPos := rx.Position()
	txPos := tx.Position()

	if rxPos.Z < 0 || txPos.Z < 0 {
		return 0, newError(InvalidNodePosition, "rx.z=%v tx.z=%v", rxPos.Z, txPos.Z)
	}

	all := e.registry.Iter()

	base := e.los.LossDb(rxPos, txPos, e.config.FrequencyHz)

	if base > shortCircuitThresholdDB {
		return base + e.noise(base), nil
	}

	blockers, err := e.oracle.BuildingsBetween(rxPos, txPos, all)
	if err != nil {
		return 0, wrapFatal(err)
	}

	var loss float64
	if len(blockers) > 0 {
		direct := base + e.penetrationLoss(blockers)

		diffracted := math.Inf(1)
		if d, err := e.nlosDiffraction(blockers, all, rxPos, txPos); err != nil {
			return 0, wrapFatal(err)
		} else {
			diffracted = base + d
		}

		reflected, err := e.reflectionLoss(all, rxPos, txPos)
		if err != nil {
			return 0, wrapFatal(err)
		}

		loss = floats.Min([]float64{direct, diffracted, reflected})
	} else {
		bonus, err := e.losDiffractionBonus(all, rxPos, txPos)
		if err != nil {
			return 0, wrapFatal(err)
		}
		loss = base + bonus
	}

	return loss + e.noise(loss), nil
}

// wrapFatal normalizes a fatal error into the engine's own taxonomy: a
// zone.InsideBuildingError (a node resolving to a building's Inside
// zone) becomes engine.Error{Kind: InsideBuildingError}; anything else
// (already an *engine.Error, or unexpected) passes through unchanged.
func wrapFatal(err error) error {
	var inside *zone.InsideBuildingError
	if errors.As(err, &inside) {
		return newError(InsideBuildingError, "%s", inside.Error())
	}
	return err
}

// CalcRxPower returns the received power given a transmit power and the
// dominant-path loss between a and b (spec §6).
func (e *Engine) CalcRxPower(txPowerDBm float64, a, b MobilityHandle) (float64, error) {
	loss, err := e.Loss(a, b)
	if err != nil {
		return 0, err
	}
	return txPowerDBm - loss, nil
}

// penetrationLoss sums 2*k dB per blocking building (spec §4.6.2);
// unknown materials log a warning and contribute 0.
func (e *Engine) penetrationLoss(blockers []building.Building) float64 {
	var total float64
	for i, b := range blockers {
		k, ok := b.Material.PenetrationDB()
		if !ok {
			log.WithFields(logrus.Fields{
				"building_index": i,
				"reason":         "unknown wall material",
			}).Warn("penetration loss: treating unknown material as 0dB")
			continue
		}
		total += 2 * k
	}
	return total
}

// nlosDiffraction scans blockers in order and returns the first viable
// corner-diffraction candidate's loss (dominant-path principle: the
// first blocker with a valid corner wins, spec §4.6.3). Returns +Inf if
// no blocker has a valid corner.
func (e *Engine) nlosDiffraction(blockers, all []building.Building, rx, tx geometry.Vector3) (float64, error) {
	for i, b := range blockers {
		corners, err := e.oracle.CornersForDiffraction(b, rx, tx)
		if err != nil {
			return 0, err
		}
		if len(corners) == 0 {
			continue
		}
		if len(corners) > 2 {
			log.WithFields(logrus.Fields{
				"building_index": i,
				"corner_count":   len(corners),
			}).Warn("nlos diffraction: more than two candidate corners, geometrically inconsistent")
			continue
		}

		var candidates vlib.VectorF
		for _, c := range corners {
			reachable, err := e.cornerReachesTx(c, tx, all)
			if err != nil {
				return 0, err
			}
			if !reachable {
				continue
			}
			theta := cornerAngleDeg([2]float64{c.X, c.Y}, [2]float64{rx.X, rx.Y}, [2]float64{tx.X, tx.Y})
			candidates.AppendAtEnd(diffFunct(theta))
		}
		if candidates.Size() == 0 {
			continue
		}
		best := candidates[0]
		for _, v := range candidates {
			if v < best {
				best = v
			}
		}
		return best, nil
	}
	return math.Inf(1), nil
}

// cornerReachesTx validates that the diffracted ray from corner to tx is
// not blocked by any building in all.
func (e *Engine) cornerReachesTx(corner, tx geometry.Vector3, all []building.Building) (bool, error) {
	cornerAtTxHeight := geometry.Vector3{X: corner.X, Y: corner.Y, Z: tx.Z}
	blockers, err := e.oracle.BuildingsBetween(cornerAtTxHeight, tx, all)
	if err != nil {
		return false, err
	}
	return len(blockers) == 0, nil
}

// losDiffractionBonus accounts for grazing diffraction that adds to LOS
// when a nearby building corner intrudes on the Fresnel region (spec
// §4.6.4). A building contributing more than one candidate corner marks
// the whole configuration as geometrically inconsistent: logged, and 0
// returned immediately.
func (e *Engine) losDiffractionBonus(all []building.Building, rx, tx geometry.Vector3) (float64, error) {
	var candidates vlib.VectorF
	for i, b := range all {
		corners, err := e.oracle.CornersForDiffraction(b, rx, tx)
		if err != nil {
			return 0, err
		}
		if len(corners) > 1 {
			log.WithFields(logrus.Fields{
				"building_index": i,
				"corner_count":   len(corners),
			}).Warn("los diffraction bonus: more than one candidate corner in LOS, geometrically inconsistent")
			return 0, nil
		}
		if len(corners) == 0 {
			continue
		}
		c := corners[0]
		reachable, err := e.cornerReachesTx(c, tx, all)
		if err != nil {
			return 0, err
		}
		if !reachable {
			continue
		}
		theta := cornerAngleDeg([2]float64{c.X, c.Y}, [2]float64{rx.X, rx.Y}, [2]float64{tx.X, tx.Y})
		candidates.AppendAtEnd(diffFunct(-theta))
	}
	if candidates.Size() == 0 {
		return 0, nil
	}
	best := candidates[0]
	for _, v := range candidates {
		if v > best {
			best = v
		}
	}
	if best < 0 {
		return 0, nil
	}
	return best, nil
}

// reflectionLoss evaluates the specular-reflection candidate for every
// building and returns the minimum, or +Inf if none apply (spec §4.6.5).
func (e *Engine) reflectionLoss(all []building.Building, rx, tx geometry.Vector3) (float64, error) {
	best := math.Inf(1)
	for i, b := range all {
		r, ok, err := e.oracle.ReflectionPoint(b, rx, tx)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		rAtRx := geometry.Vector3{X: r.X, Y: r.Y, Z: rx.Z}
		rAtTx := geometry.Vector3{X: r.X, Y: r.Y, Z: tx.Z}
		if segmentOccludedByOwnBuilding(rx, rAtRx, b.Box) || segmentOccludedByOwnBuilding(tx, rAtTx, b.Box) {
			continue
		}

		rho, ok := b.Material.ReflectionCoefficient()
		if !ok {
			log.WithFields(logrus.Fields{
				"building_index": i,
				"reason":         "unknown wall material",
			}).Warn("reflection loss: skipping building with unknown material")
			continue
		}

		l1 := e.los.LossDb(tx, rAtTx, e.config.FrequencyHz)
		l2 := e.los.LossDb(rAtRx, rx, e.config.FrequencyHz)

		firstHalf := e.config.TxGainDBm - l1
		var gRx float64
		if firstHalf > 0 {
			gRx = firstHalf*rho - l2
		} else {
			gRx = firstHalf*(2-rho) - l2
		}
		candidate := e.config.TxGainDBm - gRx

		if candidate < best {
			best = candidate
		}
	}
	return best, nil
}

// segmentOccludedByOwnBuilding reports whether the midpoint of the
// segment from p to its own building's reflection point r lies strictly
// inside the building's box, which is taken as the segment passing
// through the interior rather than merely grazing the face at r. A
// segment that crosses the interior only in its half nearer r is not
// reported. Used to skip a reflection its own building occludes (spec
// §4.6.5).
func segmentOccludedByOwnBuilding(p, r geometry.Vector3, box geometry.Box) bool {
	mid := geometry.Vector3{X: (p.X + r.X) / 2, Y: (p.Y + r.Y) / 2, Z: (p.Z + r.Z) / 2}
	return mid.X > box.XMin && mid.X < box.XMax &&
		mid.Y > box.YMin && mid.Y < box.YMax &&
		mid.Z > box.ZMin && mid.Z < box.ZMax
}

// noise draws the bounded uniform noise term of spec §4.6.6 from the
// engine's own RNG stream: rand.Float64() scaled into [-delta,delta],
// the same pattern the teacher's examples use for ad hoc jitter.
func (e *Engine) noise(loss float64) float64 {
	if !e.config.NoiseEnabled {
		return 0
	}
	y := 0.25*loss + 5
	delta := 0.2 * y
	return -delta + e.rng.Float64()*2*delta
}
