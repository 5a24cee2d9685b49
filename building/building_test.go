package building_test

import (
	"testing"

	"github.com/wiless/foba-pathloss/building"
)

func TestRegistryAddAtCount(t *testing.T) {
	r := building.NewRegistry()
	if r.Count() != 0 {
		t.Fatalf("new registry count = %d, want 0", r.Count())
	}
	b := building.Spec{XMin: 0, XMax: 10, YMin: 0, YMax: 10, ZMin: 0, ZMax: 5, Material: "Wood"}.Build()
	idx := r.Add(b)
	if idx != 0 {
		t.Errorf("first Add index = %d, want 0", idx)
	}
	if r.Count() != 1 {
		t.Errorf("count after Add = %d, want 1", r.Count())
	}
	if r.At(0).Material != building.Wood {
		t.Errorf("At(0).Material = %v, want Wood", r.At(0).Material)
	}
}

func TestSpecBuildUnknownMaterial(t *testing.T) {
	b := building.Spec{XMin: 0, XMax: 10, YMin: 0, YMax: 10, ZMin: 0, ZMax: 5, Material: "Brick"}.Build()
	if b.Material != building.UnknownMaterial {
		t.Errorf("Material = %v, want UnknownMaterial", b.Material)
	}
	if _, ok := b.Material.PenetrationDB(); ok {
		t.Error("expected PenetrationDB to report not-ok for UnknownMaterial")
	}
}

func TestMaterialCoefficients(t *testing.T) {
	cases := []struct {
		m        building.Material
		wantPen  float64
		wantRho  float64
	}{
		{building.Wood, 20, 0.4},
		{building.ConcreteWithWindows, 30, 0.6},
		{building.ConcreteWithoutWindows, 30, 0.61},
		{building.StoneBlocks, 40, 0.9},
	}
	for _, c := range cases {
		pen, ok := c.m.PenetrationDB()
		if !ok || pen != c.wantPen {
			t.Errorf("%v.PenetrationDB() = %v,%v want %v,true", c.m, pen, ok, c.wantPen)
		}
		rho, ok := c.m.ReflectionCoefficient()
		if !ok || rho != c.wantRho {
			t.Errorf("%v.ReflectionCoefficient() = %v,%v want %v,true", c.m, rho, ok, c.wantRho)
		}
	}
}
