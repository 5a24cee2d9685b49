// Package zone implements the nine-way planar classification of a point
// relative to a single building's footprint (C3):
//
//	A | B | C
//	---+---+---
//	H | # | D        # = building footprint
//	---+---+---
//	G | F | E
package zone

import (
	"fmt"

	"github.com/wiless/foba-pathloss/building"
	"github.com/wiless/foba-pathloss/geometry"
)

// Zone is one of the nine classification labels.
type Zone int

const (
	Inside Zone = iota
	A
	B
	C
	D
	E
	F
	G
	H
)

var names = [...]string{"Inside", "A", "B", "C", "D", "E", "F", "G", "H"}

func (z Zone) String() string {
	if int(z) < 0 || int(z) >= len(names) {
		return "Unknown"
	}
	return names[z]
}

// InsideBuildingError is returned by Classify when a node resolves to the
// Inside zone, signalling a scene-construction mistake (a node embedded
// in a wall) rather than a mechanism to compute against.
type InsideBuildingError struct {
	Point geometry.Vector3
}

func (e *InsideBuildingError) Error() string {
	return fmt.Sprintf("zone: point %+v is inside the building footprint", e.Point)
}

// Classify maps a point to its Zone relative to b, using the point's xy
// coordinates only. Inside requires the point to be strictly within the
// footprint on both axes; a point exactly on an edge or corner resolves
// to the neighbouring A–H zone, not Inside. Returns InsideBuildingError
// when the point is Inside, since that is a precondition violation the
// caller must surface rather than silently proceed past.
func Classify(p geometry.Vector3, b building.Building) (Zone, error) {
	bx := b.Box
	x, y := p.X, p.Y

	if bx.Contains2D(x, y) {
		return Inside, &InsideBuildingError{Point: p}
	}

	switch {
	case x <= bx.XMin:
		switch {
		case y >= bx.YMax:
			return A, nil
		case y <= bx.YMin:
			return G, nil
		default:
			return H, nil
		}
	case x >= bx.XMax:
		switch {
		case y >= bx.YMax:
			return C, nil
		case y <= bx.YMin:
			return E, nil
		default:
			return D, nil
		}
	default: // bx.XMin < x < bx.XMax
		switch {
		case y >= bx.YMax:
			return B, nil
		case y <= bx.YMin:
			return F, nil
		}
	}

	// Unreachable: Contains2D already covers bx.XMin < x < bx.XMax &&
	// bx.YMin < y < bx.YMax, so the strip branch above always matches B or F.
	panic("zone: unreachable classification branch")
}

// Pair is the unordered two-letter zone-pair code used throughout C4 to
// decide blocking, corner selection and reflection faces.
type Pair struct {
	A, B Zone
}

// Code returns the pair in a canonical (sorted) order so that callers can
// match against an unordered set without enumerating both orders.
func (p Pair) Code() (Zone, Zone) {
	if p.A <= p.B {
		return p.A, p.B
	}
	return p.B, p.A
}

// NewPair builds a Pair from two zones.
func NewPair(a, b Zone) Pair {
	return Pair{A: a, B: b}
}
