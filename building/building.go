// Package building implements the process-wide building registry (C2):
// an ordered, indexed collection of Buildings populated once at scene
// construction and read concurrently thereafter.
package building

import (
	ms "github.com/mitchellh/mapstructure"

	"github.com/wiless/foba-pathloss/geometry"
)

// Material is the tagged exterior-wall material. Each case carries an
// implicit penetration coefficient (dB, one-way) and reflection
// coefficient (linear, 0..1) used by the dominant-path engine.
type Material int

const (
	Wood Material = iota
	ConcreteWithWindows
	ConcreteWithoutWindows
	StoneBlocks

	// UnknownMaterial is what Spec.Build assigns for an unrecognized
	// material string; it has no penetration or reflection coefficient,
	// and callers decoding untrusted Spec values can compare against it
	// before the engine ever sees it.
	UnknownMaterial
)

var materialNames = [...]string{
	"Wood",
	"ConcreteWithWindows",
	"ConcreteWithoutWindows",
	"StoneBlocks",
	"Unknown",
}

func (m Material) String() string {
	if int(m) < 0 || int(m) >= len(materialNames) {
		return "Unknown"
	}
	return materialNames[m]
}

// PenetrationDB is the one-way penetration loss in dB for the material.
// The engine doubles this to model entry+exit traversal (spec §4.6.2).
// ok is false for UnknownMaterial or any unrecognized value.
func (m Material) PenetrationDB() (db float64, ok bool) {
	switch m {
	case Wood:
		return 20, true
	case ConcreteWithWindows:
		return 30, true
	case ConcreteWithoutWindows:
		return 30, true
	case StoneBlocks:
		return 40, true
	default:
		return 0, false
	}
}

// ReflectionCoefficient is the linear (0..1) specular reflection
// coefficient rho used by the reflection model (spec §4.6.5).
func (m Material) ReflectionCoefficient() (rho float64, ok bool) {
	switch m {
	case Wood:
		return 0.4, true
	case ConcreteWithWindows:
		return 0.6, true
	case ConcreteWithoutWindows:
		return 0.61, true
	case StoneBlocks:
		return 0.9, true
	default:
		return 0, false
	}
}

// Type is an opaque classification tag the engine never inspects; it is
// carried for callers (scene builders, visualizers) that distinguish use
// classes.
type Type int

const (
	Residential Type = iota
	Office
	Commercial
)

// Building is (Box, Material, Type). Created once by the scene builder,
// registered into a Registry, and never mutated afterward.
type Building struct {
	Box      geometry.Box
	Material Material
	Type     Type
}

// Spec is the wire-shaped description of a building, decodable from a
// generic map via mapstructure the way the teacher decodes
// deployment.NodeType/DropParameter from JSON-ish maps.
type Spec struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
	Material   string
	Type       string `mapstructure:"Type"`
}

var specMaterialNames = map[string]Material{
	"Wood":                   Wood,
	"ConcreteWithWindows":    ConcreteWithWindows,
	"ConcreteWithoutWindows": ConcreteWithoutWindows,
	"StoneBlocks":            StoneBlocks,
}

var specTypeNames = map[string]Type{
	"Residential": Residential,
	"Office":      Office,
	"Commercial":  Commercial,
}

// DecodeSpec turns a generic map (e.g. parsed JSON) into a Spec using
// mapstructure, mirroring deployment.go's ms.Decode call sites.
func DecodeSpec(raw map[string]interface{}) (Spec, error) {
	var s Spec
	err := ms.Decode(raw, &s)
	return s, err
}

// Build converts a Spec into a Building. Unrecognized Material/Type
// strings fall back to UnknownMaterial/Residential respectively; the
// engine is responsible for surfacing UnknownMaterial as a recoverable
// warning (spec §7).
func (s Spec) Build() Building {
	mat, ok := specMaterialNames[s.Material]
	if !ok {
		mat = UnknownMaterial
	}
	typ, ok := specTypeNames[s.Type]
	if !ok {
		typ = Residential
	}
	return Building{
		Box:      geometry.NewBox(s.XMin, s.XMax, s.YMin, s.YMax, s.ZMin, s.ZMax),
		Material: mat,
		Type:     typ,
	}
}

// Registry is the process-wide indexed collection of buildings (C2).
// Writes only happen at scene construction; reads are concurrent-safe
// once construction is complete (the zero value is ready for Add).
type Registry struct {
	buildings []Building
}

// NewRegistry returns an empty registry ready to be populated.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a building and returns its index.
func (r *Registry) Add(b Building) int {
	r.buildings = append(r.buildings, b)
	return len(r.buildings) - 1
}

// Count returns the number of registered buildings.
func (r *Registry) Count() int {
	return len(r.buildings)
}

// At returns the building at index i. Panics on an out-of-range index,
// since the registry is logically immutable by query time and an
// out-of-range index is a caller programming error.
func (r *Registry) At(i int) Building {
	return r.buildings[i]
}

// Iter returns the full sequence of registered buildings. The returned
// slice is owned by the registry and must not be mutated by callers.
func (r *Registry) Iter() []Building {
	return r.buildings
}
