package script

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilecombat/collision"
)

// Behaviour scripts must define on_spawn(self), on_collision(self, evt) and
// on_animation_complete(self, animation). Globals are re-run on every
// callback; per-entity data lives in self.state.
const dispatchScript = `
if __phase == "spawn" {
	on_spawn(__self)
} else if __phase == "collision" {
	on_collision(__self, __event)
} else if __phase == "animation_complete" {
	on_animation_complete(__self, __animation)
}
`

// Program is a compiled behaviour script shared by every entity running it.
type Program struct {
	path     string
	compiled *tengo.Compiled
}

// Compile compiles src as the behaviour script named path.
func Compile(path string, src []byte) (*Program, error) {
	full := string(src) + "\n" + dispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__self", map[string]any{})
	_ = s.Add("__event", map[string]any{})
	_ = s.Add("__animation", 0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	return &Program{path: path, compiled: compiled}, nil
}

// Path returns the script's resource path.
func (p *Program) Path() string { return p.path }

// Instance creates a binding with its own globals and state.
func (p *Program) Instance() *Tengo {
	return &Tengo{
		path:     p.path,
		compiled: p.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

// Tengo runs a behaviour script for one entity. It is not safe for concurrent use.
type Tengo struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

func (t *Tengo) OnSpawn(self Actor) error {
	return t.run("spawn", self, nil, 0)
}

func (t *Tengo) OnCollision(self Actor, evt collision.PhasedEvent) error {
	return t.run("collision", self, eventObject(self, evt), 0)
}

func (t *Tengo) OnAnimationComplete(self Actor, animationID int) error {
	return t.run("animation_complete", self, nil, animationID)
}

// State returns the value stored under key in self.state by the script.
func (t *Tengo) State(key string) any {
	obj, ok := t.state.Value[key]
	if !ok {
		return nil
	}
	return objectToAny(obj)
}

func (t *Tengo) run(phase string, self Actor, evt tengo.Object, animationID int) error {
	if t == nil || t.compiled == nil {
		return fmt.Errorf("script: nil runtime")
	}
	if evt == nil {
		evt = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := t.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := t.compiled.Set("__self", t.selfObject(self)); err != nil {
		return err
	}
	if err := t.compiled.Set("__event", evt); err != nil {
		return err
	}
	if err := t.compiled.Set("__animation", animationID); err != nil {
		return err
	}
	if err := t.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s %s: %w", t.path, phase, err)
	}
	return nil
}

func (t *Tengo) selfObject(self Actor) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"state": t.state,
	}
	if self == nil {
		return &tengo.ImmutableMap{Value: values}
	}
	values["id"] = &tengo.Int{Value: int64(self.ID())}
	values["name"] = &tengo.String{Value: self.Name()}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y := self.Position()
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Float{Value: x},
			"y": &tengo.Float{Value: y},
		}}, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		dx, okX := objectNumber(args[0])
		dy, okY := objectNumber(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		self.Move(dx, dy)
		return tengo.TrueValue, nil
	}}

	values["flip"] = &tengo.UserFunction{Name: "flip", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		self.SetFlip(!args[0].IsFalsy())
		return tengo.TrueValue, nil
	}}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		n, ok := objectNumber(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		tile := int(n)
		if err := self.Play(tile); err != nil {
			log.Printf("script: %s entity=%d play %d: %v", t.path, self.ID(), tile, err)
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["pause"] = &tengo.UserFunction{Name: "pause", Value: func(args ...tengo.Object) (tengo.Object, error) {
		self.Pause()
		return tengo.TrueValue, nil
	}}

	values["resume"] = &tengo.UserFunction{Name: "resume", Value: func(args ...tengo.Object) (tengo.Object, error) {
		self.Resume()
		return tengo.TrueValue, nil
	}}

	values["active_tile"] = &tengo.UserFunction{Name: "active_tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(self.ActiveTileID())}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: %s entity=%d %s", t.path, self.ID(), strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func eventObject(self Actor, evt collision.PhasedEvent) *tengo.ImmutableMap {
	var isAttacker tengo.Object = tengo.FalseValue
	if self != nil && evt.Attacker.Entity == self.ID() {
		isAttacker = tengo.TrueValue
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"phase":       &tengo.String{Value: evt.Phase.String()},
		"attacker":    contactObject(evt.Attacker),
		"defender":    contactObject(evt.Defender),
		"overlap":     rectObject(evt.Overlap.X, evt.Overlap.Y, evt.Overlap.Width, evt.Overlap.Height),
		"is_attacker": isAttacker,
	}}
}

func contactObject(c collision.Contact) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"entity": &tengo.Int{Value: int64(c.Entity)},
		"shape":  &tengo.Int{Value: int64(c.Shape.ID)},
		"name":   &tengo.String{Value: c.Shape.Name},
		"kind":   &tengo.String{Value: c.Shape.Kind.String()},
		"rect":   rectObject(c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height),
	}}
}

func rectObject(x, y, w, h float64) *tengo.ImmutableMap {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x":      &tengo.Float{Value: x},
		"y":      &tengo.Float{Value: y},
		"width":  &tengo.Float{Value: w},
		"height": &tengo.Float{Value: h},
	}}
}

// Factory compiles behaviour scripts on first use and hands out per-entity
// instances. It is safe for concurrent use.
type Factory struct {
	// Load reads the script source for a resource path.
	Load func(path string) ([]byte, error)

	mu       sync.Mutex
	programs map[string]*Program
}

// NewFactory creates a factory reading sources with load.
func NewFactory(load func(path string) ([]byte, error)) *Factory {
	return &Factory{Load: load, programs: make(map[string]*Program)}
}

// Binding returns a fresh binding for the script at path.
func (f *Factory) Binding(path string) (Binding, error) {
	p, err := f.Program(path)
	if err != nil {
		return nil, err
	}
	return p.Instance(), nil
}

// Program returns the compiled script at path.
func (f *Factory) Program(path string) (*Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.programs == nil {
		f.programs = make(map[string]*Program)
	}
	if p, ok := f.programs[path]; ok {
		return p, nil
	}
	if f.Load == nil {
		return nil, fmt.Errorf("script: no loader for %s", path)
	}
	src, err := f.Load(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	p, err := Compile(path, src)
	if err != nil {
		return nil, err
	}
	f.programs[path] = p
	return p, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectNumber(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return float64(v.Value), true
	case *tengo.Float:
		return v.Value, true
	}
	return 0, false
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
