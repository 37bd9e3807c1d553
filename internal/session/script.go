package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/world"
)

var ErrExpectation = errors.New("expectation failed")

// Script is a timed list of controller commands for headless runs.
type Script struct {
	Name     string       `yaml:"name"`
	Duration float64      `yaml:"duration"`
	Steps    []ScriptStep `yaml:"steps"`
	Expect   *Expectation `yaml:"expect"`
}

type ScriptStep struct {
	At    float64    `yaml:"at"`
	Do    string     `yaml:"do"`
	Edge  string     `yaml:"edge"`
	Value mgl64.Vec2 `yaml:"value"`
}

// Expectation is checked against the final snapshot. Unset fields are not
// checked.
type Expectation struct {
	Position  *mgl64.Vec3 `yaml:"position"`
	Tolerance float64     `yaml:"tolerance"`
	Stance    string      `yaml:"stance"`
	Grounded  *bool       `yaml:"grounded"`
	Holding   *bool       `yaml:"holding"`
	Entities  *int        `yaml:"entities"`
}

type timedCommand struct {
	at  float64
	cmd controller.Command
}

type RunResult struct {
	Ticks    uint64
	Elapsed  float64
	Final    world.Snapshot
	Commands int
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return script, nil
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if _, err := script.commands(); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Script) commands() ([]timedCommand, error) {
	out := make([]timedCommand, 0, len(s.Steps))
	for i, step := range s.Steps {
		action, ok := controller.ParseAction(step.Do)
		if !ok {
			return nil, fmt.Errorf("step %d: unknown action %q", i, step.Do)
		}
		edge, ok := controller.ParseEdge(step.Edge)
		if !ok {
			return nil, fmt.Errorf("step %d: unknown edge %q", i, step.Edge)
		}
		if step.At < 0 {
			return nil, fmt.Errorf("step %d: negative time %v", i, step.At)
		}
		out = append(out, timedCommand{
			at:  step.At,
			cmd: controller.Command{Action: action, Edge: edge, Value: step.Value},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out, nil
}

// Length is the run time: Duration when set, otherwise just past the last step.
func (s *Script) Length() float64 {
	if s.Duration > 0 {
		return s.Duration
	}
	last := 0.0
	for _, step := range s.Steps {
		last = math.Max(last, step.At)
	}
	return last + 1
}

// Run feeds the script into the session tick by tick. A command due at time t
// is queued before the first tick starting at or after t. report, when not
// nil, receives a snapshot every snapshotEvery seconds. The final snapshot is
// taken after pending event handlers have returned.
func (s *Session) Run(ctx context.Context, script *Script, seconds, snapshotEvery float64, report func(world.Snapshot)) (RunResult, error) {
	commands, err := script.commands()
	if err != nil {
		return RunResult{}, err
	}
	if seconds <= 0 {
		seconds = script.Length()
	}

	dt := s.TickInterval()
	totalTicks := uint64(math.Ceil(seconds/dt - 1e-9))
	reportEvery := uint64(0)
	if snapshotEvery > 0 {
		reportEvery = uint64(math.Max(1, math.Round(snapshotEvery/dt)))
	}

	var result RunResult
	next := 0
	for tick := uint64(0); tick < totalTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		now := float64(tick) * dt
		for next < len(commands) && commands[next].at <= now+1e-9 {
			s.Submit(commands[next].cmd)
			next++
			result.Commands++
		}
		s.Step()
		result.Ticks++
		if report != nil && reportEvery > 0 && result.Ticks%reportEvery == 0 {
			report(s.Snapshot())
		}
	}

	s.bus.Wait()
	result.Elapsed = float64(result.Ticks) * dt
	result.Final = s.Snapshot()
	s.log.Info("Script finished", "script", script.Name, "ticks", result.Ticks, "commands", result.Commands)
	return result, nil
}

// Check compares the expectation with snap and reports every mismatch.
func (e *Expectation) Check(snap world.Snapshot) error {
	if e == nil {
		return nil
	}
	var errs []error
	p := snap.Player
	if e.Position != nil {
		tol := e.Tolerance
		if tol <= 0 {
			tol = 0.05
		}
		if !withinTolerance(p.Position, *e.Position, tol) {
			errs = append(errs, fmt.Errorf("%w: position %v, want %v (tol %g)", ErrExpectation, p.Position, *e.Position, tol))
		}
	}
	if e.Stance != "" && e.Stance != p.Stance {
		errs = append(errs, fmt.Errorf("%w: stance %s, want %s", ErrExpectation, p.Stance, e.Stance))
	}
	if e.Grounded != nil && *e.Grounded != p.Grounded {
		errs = append(errs, fmt.Errorf("%w: grounded %v, want %v", ErrExpectation, p.Grounded, *e.Grounded))
	}
	if e.Holding != nil && *e.Holding != p.Holding {
		errs = append(errs, fmt.Errorf("%w: holding %v, want %v", ErrExpectation, p.Holding, *e.Holding))
	}
	if e.Entities != nil && *e.Entities != len(snap.Entities) {
		errs = append(errs, fmt.Errorf("%w: %d entities, want %d", ErrExpectation, len(snap.Entities), *e.Entities))
	}
	return errors.Join(errs...)
}

// withinTolerance reports whether every axis of got is within tol world units
// of want.
func withinTolerance(got, want mgl64.Vec3, tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}
