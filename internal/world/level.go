package world

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Versifine/fpcontroller/internal/controller"
)

// Level is the YAML description of a playable area.
type Level struct {
	Name     string     `yaml:"name"`
	Spawn    mgl64.Vec3 `yaml:"spawn"`
	SpawnYaw float64    `yaml:"spawn_yaw"`
	Floor    FloorSpec  `yaml:"floor"`
	Boxes    []BoxSpec  `yaml:"boxes"`
	Props    []PropSpec `yaml:"props"`
}

// FloorSpec is a square slab one block thick whose top face sits at Y+1.
type FloorSpec struct {
	Y      int    `yaml:"y"`
	Radius int    `yaml:"radius"`
	Block  string `yaml:"block"`
}

type BoxSpec struct {
	Min   [3]int `yaml:"min"`
	Max   [3]int `yaml:"max"`
	Block string `yaml:"block"`
}

type PropSpec struct {
	Template string     `yaml:"template"`
	Position mgl64.Vec3 `yaml:"position"`
}

func DefaultLevel() Level {
	return Level{
		Name:  "yard",
		Spawn: mgl64.Vec3{0, 0, 0},
		Floor: FloorSpec{Y: -1, Radius: 16, Block: "stone"},
		Boxes: []BoxSpec{
			{Min: [3]int{-16, 0, 16}, Max: [3]int{16, 2, 16}, Block: "wall"},
			{Min: [3]int{4, 0, 4}, Max: [3]int{5, 0, 5}, Block: "stone"},
			{Min: [3]int{-6, 1, 6}, Max: [3]int{-3, 1, 6}, Block: "glass"},
		},
		Props: []PropSpec{
			{Template: "crate", Position: mgl64.Vec3{0, 0.25, 2}},
			{Template: "crate", Position: mgl64.Vec3{2, 0.25, 3}},
		},
	}
}

func LoadLevel(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("read level: %w", err)
	}
	var level Level
	if err := yaml.Unmarshal(data, &level); err != nil {
		return Level{}, fmt.Errorf("parse level %s: %w", path, err)
	}
	return level, nil
}

// Build writes the level's blocks and spawns its props.
func (w *World) Build(level Level) error {
	if level.Floor.Radius > 0 {
		kind, err := w.blockKind(level.Floor.Block)
		if err != nil {
			return fmt.Errorf("level %q floor: %w", level.Name, err)
		}
		r := level.Floor.Radius
		w.blocks.Fill([3]int{-r, level.Floor.Y, -r}, [3]int{r, level.Floor.Y, r}, kind)
	}

	for i, box := range level.Boxes {
		kind, err := w.blockKind(box.Block)
		if err != nil {
			return fmt.Errorf("level %q box %d: %w", level.Name, i, err)
		}
		w.blocks.Fill(box.Min, box.Max, kind)
	}

	for i, prop := range level.Props {
		pose := controller.Pose{Position: prop.Position, Rotation: mgl64.QuatIdent()}
		if _, err := w.Instantiate(prop.Template, pose); err != nil {
			return fmt.Errorf("level %q prop %d: %w", level.Name, i, err)
		}
	}
	return nil
}

func (w *World) blockKind(name string) (BlockKind, error) {
	if name == "" {
		return BlockStone, nil
	}
	kind, ok := w.blocks.KindByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown block %q", name)
	}
	return kind, nil
}
