package world

import (
	"fmt"

	"github.com/Versifine/fpcontroller/internal/physics"
)

// Template describes what Instantiate builds. Shapes are boxes anchored at the
// centre of their bottom face.
type Template struct {
	Name       string  `yaml:"name"`
	HalfWidth  float64 `yaml:"half_width"`
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	RigidBody  bool    `yaml:"rigid_body"`
	UseGravity bool    `yaml:"use_gravity"`
	Carryable  bool    `yaml:"carryable"`
}

func DefaultTemplates() []Template {
	return []Template{
		{Name: "bullet", HalfWidth: 0.05, Height: 0.1, Mass: 1, RigidBody: true, UseGravity: true},
		{Name: "crate", HalfWidth: 0.25, Height: 0.5, Mass: 2, RigidBody: true, UseGravity: true, Carryable: true},
		{Name: "marker", HalfWidth: 0.1, Height: 0.2},
	}
}

func (t Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is empty")
	}
	if t.HalfWidth <= 0 || t.Height <= 0 {
		return fmt.Errorf("template %q: size must be positive", t.Name)
	}
	if t.Carryable && !t.RigidBody {
		return fmt.Errorf("template %q: carryable requires rigid_body", t.Name)
	}
	if t.RigidBody && t.Mass <= 0 {
		return fmt.Errorf("template %q: rigid body mass must be positive", t.Name)
	}
	return nil
}

func (t Template) shape() physics.Shape {
	return physics.Shape{HalfWidth: t.HalfWidth, Height: t.Height}
}
