// Command fobademo is a throwaway example driver, the way the teacher's
// examples/testpathloss.go sweeps a single model and prints a loss
// curve. It is not part of the core engine (command-line parsing and
// example drivers are explicitly out of scope per spec §1) — it exists
// only to exercise the engine end to end with a scene containing a
// single building.
package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/wiless/foba-pathloss/building"
	"github.com/wiless/foba-pathloss/engine"
	"github.com/wiless/foba-pathloss/geometry"
)

type scenario struct {
	name string
	rx   geometry.Vector3
	tx   geometry.Vector3
}

func main() {
	registry := building.NewRegistry()
	registry.Add(building.Building{
		Box:      geometry.NewBox(20, 25, 20, 25, 0, 15),
		Material: building.ConcreteWithWindows,
		Type:     building.Residential,
	})

	e := engine.New(2.16e9, 20, registry)
	e.SetNoiseEnabled(false)

	scenarios := []scenario{
		{"LOS, no interaction", geometry.NewVector3(15, 15, 5), geometry.NewVector3(15, 30, 5)},
		{"penetration through two walls", geometry.NewVector3(23, 15, 5), geometry.NewVector3(23, 30, 5)},
		{"diffraction at a corner, theta~0", geometry.NewVector3(25, 15, 5), geometry.NewVector3(15, 25, 5)},
		{"LOS-diffraction bonus, theta~-5", geometry.NewVector3(24, 15, 5), geometry.NewVector3(15, 25, 5)},
		{"diffraction, theta~6", geometry.NewVector3(26, 15, 5), geometry.NewVector3(15, 25, 5)},
		{"diffraction, theta~9.5", geometry.NewVector3(29, 15, 5), geometry.NewVector3(15, 25, 5)},
	}

	bold := color.New(color.FgCyan, color.Bold)
	for _, s := range scenarios {
		loss, err := e.Loss(engine.StaticPosition(s.rx), engine.StaticPosition(s.tx))
		if err != nil {
			color.Red("%-34s error: %v", s.name, err)
			continue
		}
		bold.Printf("%-34s", s.name)
		fmt.Printf(" loss=%6.2f dB\n", loss)
	}
}
