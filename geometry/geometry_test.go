package geometry_test

import (
	"testing"

	"github.com/wiless/foba-pathloss/geometry"
)

func TestDistance(t *testing.T) {
	p := geometry.NewVector3(0, 0, 0)
	q := geometry.NewVector3(3, 4, 0)
	if got := geometry.Distance(p, q); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestSegmentIntersectsBoxThrough(t *testing.T) {
	box := geometry.NewBox(20, 25, 20, 25, 0, 15)
	p := geometry.NewVector3(23, 15, 5)
	q := geometry.NewVector3(23, 30, 5)
	if !geometry.SegmentIntersectsBox(p, q, box) {
		t.Error("expected segment crossing the box in y to intersect")
	}
}

func TestSegmentIntersectsBoxMiss(t *testing.T) {
	box := geometry.NewBox(20, 25, 20, 25, 0, 15)
	p := geometry.NewVector3(15, 15, 5)
	q := geometry.NewVector3(15, 30, 5)
	if geometry.SegmentIntersectsBox(p, q, box) {
		t.Error("expected segment at x=15 (outside [20,25]) to miss the box")
	}
}

func TestSegmentIntersectsBoxGrazesFace(t *testing.T) {
	box := geometry.NewBox(20, 25, 20, 25, 0, 15)
	p := geometry.NewVector3(20, 15, 5)
	q := geometry.NewVector3(20, 30, 5)
	if !geometry.SegmentIntersectsBox(p, q, box) {
		t.Error("expected segment grazing the x=20 face to count as intersecting")
	}
}

func TestSegmentIntersectsBoxAboveRooftop(t *testing.T) {
	box := geometry.NewBox(20, 25, 20, 25, 0, 15)
	p := geometry.NewVector3(22, 15, 20)
	q := geometry.NewVector3(22, 30, 20)
	if geometry.SegmentIntersectsBox(p, q, box) {
		t.Error("expected segment above rooftop to miss the box")
	}
}

func TestNewBoxPanicsOnMalformedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected NewBox to panic on xMin >= xMax")
		}
	}()
	geometry.NewBox(25, 20, 0, 10, 0, 5)
}
