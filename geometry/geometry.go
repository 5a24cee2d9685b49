// Package geometry provides the 3D vector and axis-aligned box primitives
// shared by the rest of the path-loss engine.
package geometry

import "math"

// Vector3 is an (x, y, z) triple; z is the vertical axis. Construction is
// pure and the value has no lifecycle.
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 builds a Vector3 from its three components.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q Vector3) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Box is an axis-aligned rectangular box. Boundaries are immutable once
// constructed; xMin < xMax, yMin < yMax, 0 <= zMin < zMax is a precondition
// enforced by NewBox.
type Box struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// NewBox validates and constructs a Box. Panics on malformed bounds, since
// a malformed box is a scene-construction programming error, not a
// runtime condition callers can recover from.
func NewBox(xMin, xMax, yMin, yMax, zMin, zMax float64) Box {
	if !(xMin < xMax) || !(yMin < yMax) || !(zMin < zMax) || zMin < 0 {
		panic("geometry: invalid box bounds")
	}
	return Box{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax, ZMin: zMin, ZMax: zMax}
}

// Contains2D reports whether (x, y) is strictly inside the box's planar
// footprint (used by the zone classifier's Inside case).
func (b Box) Contains2D(x, y float64) bool {
	return b.XMin < x && x < b.XMax && b.YMin < y && y < b.YMax
}

// SegmentIntersectsBox reports whether the closed segment pq meets the
// closed box b, inclusive of its faces (a segment grazing a face counts
// as intersecting). Implemented as a slab test against the box's three
// axis-aligned slabs.
func SegmentIntersectsBox(p, q Vector3, b Box) bool {
	d := Vector3{X: q.X - p.X, Y: q.Y - p.Y, Z: q.Z - p.Z}

	tMin, tMax := 0.0, 1.0

	clip := func(p0, d0, lo, hi float64) bool {
		if d0 == 0 {
			return p0 >= lo && p0 <= hi
		}
		t1 := (lo - p0) / d0
		t2 := (hi - p0) / d0
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		return tMin <= tMax
	}

	if !clip(p.X, d.X, b.XMin, b.XMax) {
		return false
	}
	if !clip(p.Y, d.Y, b.YMin, b.YMax) {
		return false
	}
	if !clip(p.Z, d.Z, b.ZMin, b.ZMax) {
		return false
	}
	return tMin <= tMax
}
