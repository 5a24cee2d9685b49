// Package visibility implements the visibility oracle (C4): deciding
// which buildings block a segment, enumerating diffraction-candidate
// corners, and constructing specular reflection points.
package visibility

import (
	"github.com/wiless/foba-pathloss/building"
	"github.com/wiless/foba-pathloss/geometry"
	"github.com/wiless/foba-pathloss/zone"
)

// Oracle answers visibility queries against a fixed building set. It
// holds no state of its own; every method is a pure function of its
// arguments, including the buildings passed to it.
type Oracle struct{}

// NewOracle returns a ready-to-use visibility oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

func canon(a, b zone.Zone) zone.Pair {
	p := zone.NewPair(a, b)
	x, y := p.Code()
	return zone.Pair{A: x, B: y}
}

func pairSet(pairs ...[2]zone.Zone) map[zone.Pair]bool {
	set := make(map[zone.Pair]bool, len(pairs))
	for _, pr := range pairs {
		set[canon(pr[0], pr[1])] = true
	}
	return set
}

// defaultLOSPairs never block: both endpoints on the same side of the
// building, or in opposite corners sharing a plane (spec §4.4.1).
var defaultLOSPairs = pairSet(
	[2]zone.Zone{zone.A, zone.A}, [2]zone.Zone{zone.B, zone.B},
	[2]zone.Zone{zone.C, zone.C}, [2]zone.Zone{zone.D, zone.D},
	[2]zone.Zone{zone.E, zone.E}, [2]zone.Zone{zone.F, zone.F},
	[2]zone.Zone{zone.G, zone.G}, [2]zone.Zone{zone.H, zone.H},
	[2]zone.Zone{zone.A, zone.B}, [2]zone.Zone{zone.A, zone.C},
	[2]zone.Zone{zone.A, zone.H}, [2]zone.Zone{zone.B, zone.C},
	[2]zone.Zone{zone.C, zone.D}, [2]zone.Zone{zone.C, zone.E},
	[2]zone.Zone{zone.D, zone.E}, [2]zone.Zone{zone.E, zone.F},
	[2]zone.Zone{zone.E, zone.G}, [2]zone.Zone{zone.F, zone.G},
	[2]zone.Zone{zone.G, zone.H}, [2]zone.Zone{zone.A, zone.G},
)

// defaultNLOSPairs always block: the two points straddle the building
// along a principal axis (spec §4.4.1).
var defaultNLOSPairs = pairSet(
	[2]zone.Zone{zone.H, zone.D}, [2]zone.Zone{zone.B, zone.F},
)

// BuildingsBetween returns the subset of candidates whose zone-pair
// classification (or, for the diagonal/edge-strip cases not covered by
// the default sets, a full segment/box intersection test) blocks the
// segment pq.
func (o *Oracle) BuildingsBetween(p, q geometry.Vector3, candidates []building.Building) ([]building.Building, error) {
	var blockers []building.Building
	for _, b := range candidates {
		blocked, err := o.blocks(p, q, b)
		if err != nil {
			return nil, err
		}
		if blocked {
			blockers = append(blockers, b)
		}
	}
	return blockers, nil
}

func (o *Oracle) blocks(p, q geometry.Vector3, b building.Building) (bool, error) {
	zp, err := zone.Classify(p, b)
	if err != nil {
		return false, err
	}
	zq, err := zone.Classify(q, b)
	if err != nil {
		return false, err
	}

	pair := canon(zp, zq)
	if defaultLOSPairs[pair] {
		return false, nil
	}
	if defaultNLOSPairs[pair] {
		return true, nil
	}
	if p.Z >= b.Box.ZMax && q.Z >= b.Box.ZMax {
		// Segment passes above the rooftop.
		return false, nil
	}

	// The remaining "interesting" diagonal/edge-strip cases are resolved
	// with a full closed segment/box intersection test (C1) rather than a
	// hand-rolled planar slab check: the original's NLOSplan test treats
	// the z-crossing with a single strict inequality and is explicitly
	// undefined for segments grazing the rooftop exactly (spec §9, open
	// question 4). The segment/box test is inclusive on all faces, so
	// grazing cases (shared x/y equal to a building face) resolve to
	// blocking, matching the spec's "special case" note.
	return geometry.SegmentIntersectsBox(p, q, b.Box), nil
}

// cornerXY is a planar diffraction-candidate corner. Its z component is
// informational only: diffraction geometry is planar in xy (spec §4.4.2)
// and the engine uses the nodes' own heights for the free-space legs.
func cornerXY(b building.Building, x, y float64) geometry.Vector3 {
	return geometry.Vector3{X: x, Y: y, Z: 0}
}

type cornerRule struct {
	pairs   []zone.Pair
	corners func(b building.Building) []geometry.Vector3
}

func mkPairs(zs ...[2]zone.Zone) []zone.Pair {
	out := make([]zone.Pair, 0, len(zs))
	for _, z := range zs {
		out = append(out, canon(z[0], z[1]))
	}
	return out
}

var cornerRules = []cornerRule{
	{
		// BG, HB, HC -> (xMin, yMax)
		pairs: mkPairs([2]zone.Zone{zone.B, zone.G}, [2]zone.Zone{zone.H, zone.B}, [2]zone.Zone{zone.H, zone.C}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{cornerXY(b, b.Box.XMin, b.Box.YMax)}
		},
	},
	{
		// BE, DB, DA -> (xMax, yMax)
		pairs: mkPairs([2]zone.Zone{zone.B, zone.E}, [2]zone.Zone{zone.D, zone.B}, [2]zone.Zone{zone.D, zone.A}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{cornerXY(b, b.Box.XMax, b.Box.YMax)}
		},
	},
	{
		// HE, FH, FA -> (xMin, yMin)
		pairs: mkPairs([2]zone.Zone{zone.H, zone.E}, [2]zone.Zone{zone.F, zone.H}, [2]zone.Zone{zone.F, zone.A}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{cornerXY(b, b.Box.XMin, b.Box.YMin)}
		},
	},
	{
		// DG, FD, FC -> (xMax, yMin). The source returns (xMin, yMax) here,
		// which duplicates the BG/HB/HC rule above; DESIGN.md records this
		// as the resolution of spec §9 open question 1, preferring the
		// geometrically symmetric value.
		pairs: mkPairs([2]zone.Zone{zone.D, zone.G}, [2]zone.Zone{zone.F, zone.D}, [2]zone.Zone{zone.F, zone.C}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{cornerXY(b, b.Box.XMax, b.Box.YMin)}
		},
	},
	{
		// CG / GC -> both (xMin, yMax) and (xMax, yMin)
		pairs: mkPairs([2]zone.Zone{zone.C, zone.G}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{
				cornerXY(b, b.Box.XMin, b.Box.YMax),
				cornerXY(b, b.Box.XMax, b.Box.YMin),
			}
		},
	},
	{
		// AE / EA -> both (xMin, yMin) and (xMax, yMax)
		pairs: mkPairs([2]zone.Zone{zone.A, zone.E}),
		corners: func(b building.Building) []geometry.Vector3 {
			return []geometry.Vector3{
				cornerXY(b, b.Box.XMin, b.Box.YMin),
				cornerXY(b, b.Box.XMax, b.Box.YMax),
			}
		},
	},
}

// CornersForDiffraction returns the 0, 1 or 2 candidate diffraction
// corners for the building given the rx/tx zone pair (spec §4.4.2).
func (o *Oracle) CornersForDiffraction(b building.Building, rx, tx geometry.Vector3) ([]geometry.Vector3, error) {
	zrx, err := zone.Classify(rx, b)
	if err != nil {
		return nil, err
	}
	ztx, err := zone.Classify(tx, b)
	if err != nil {
		return nil, err
	}
	pair := canon(zrx, ztx)
	for _, rule := range cornerRules {
		for _, p := range rule.pairs {
			if p == pair {
				return rule.corners(b), nil
			}
		}
	}
	return nil, nil
}

type mirrorAxis int

const (
	mirrorNone mirrorAxis = iota
	mirrorYMax
	mirrorYMin
	mirrorXMin
	mirrorXMax
)

var reflectionRules = []struct {
	pairs []zone.Pair
	axis  mirrorAxis
}{
	{
		pairs: mkPairs(
			[2]zone.Zone{zone.A, zone.B}, [2]zone.Zone{zone.B, zone.C},
			[2]zone.Zone{zone.A, zone.C}, [2]zone.Zone{zone.B, zone.B},
		),
		axis: mirrorYMax,
	},
	{
		pairs: mkPairs(
			[2]zone.Zone{zone.G, zone.F}, [2]zone.Zone{zone.F, zone.E},
			[2]zone.Zone{zone.E, zone.G}, [2]zone.Zone{zone.F, zone.F},
		),
		axis: mirrorYMin,
	},
	{
		pairs: mkPairs(
			[2]zone.Zone{zone.A, zone.H}, [2]zone.Zone{zone.H, zone.G},
			[2]zone.Zone{zone.A, zone.G}, [2]zone.Zone{zone.H, zone.H},
		),
		axis: mirrorXMin,
	},
	{
		pairs: mkPairs(
			[2]zone.Zone{zone.C, zone.D}, [2]zone.Zone{zone.D, zone.E},
			[2]zone.Zone{zone.C, zone.E}, [2]zone.Zone{zone.D, zone.D},
		),
		axis: mirrorXMax,
	},
}

// ReflectionPoint selects a mirror face from the rx/tx strip pair and
// returns the image-method intersection point, or false if no face
// applies (spec §4.4.3). The returned z is informational (set to 1, as
// in the source); loss computation uses the nodes' own heights.
func (o *Oracle) ReflectionPoint(b building.Building, rx, tx geometry.Vector3) (geometry.Vector3, bool, error) {
	zrx, err := zone.Classify(rx, b)
	if err != nil {
		return geometry.Vector3{}, false, err
	}
	ztx, err := zone.Classify(tx, b)
	if err != nil {
		return geometry.Vector3{}, false, err
	}
	pair := canon(zrx, ztx)

	var axis mirrorAxis
	for _, rule := range reflectionRules {
		for _, p := range rule.pairs {
			if p == pair {
				axis = rule.axis
			}
		}
	}
	if axis == mirrorNone {
		return geometry.Vector3{}, false, nil
	}

	switch axis {
	case mirrorYMax:
		return reflectOnY(rx, tx, b.Box.YMax), true, nil
	case mirrorYMin:
		return reflectOnY(rx, tx, b.Box.YMin), true, nil
	case mirrorXMin:
		return reflectOnX(rx, tx, b.Box.XMin), true, nil
	case mirrorXMax:
		return reflectOnX(rx, tx, b.Box.XMax), true, nil
	}
	return geometry.Vector3{}, false, nil
}

// reflectOnY mirrors p through the plane y=faceY, draws a line to q and
// intersects it with the face.
func reflectOnY(p, q geometry.Vector3, faceY float64) geometry.Vector3 {
	mirrored := geometry.Vector3{X: p.X, Y: 2*faceY - p.Y, Z: p.Z}
	t := (faceY - mirrored.Y) / (q.Y - mirrored.Y)
	x := mirrored.X + t*(q.X-mirrored.X)
	return geometry.Vector3{X: x, Y: faceY, Z: 1}
}

// reflectOnX mirrors p through the plane x=faceX, draws a line to q and
// intersects it with the face.
func reflectOnX(p, q geometry.Vector3, faceX float64) geometry.Vector3 {
	mirrored := geometry.Vector3{X: 2*faceX - p.X, Y: p.Y, Z: p.Z}
	t := (faceX - mirrored.X) / (q.X - mirrored.X)
	y := mirrored.Y + t*(q.Y-mirrored.Y)
	return geometry.Vector3{X: faceX, Y: y, Z: 1}
}
