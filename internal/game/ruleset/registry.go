package ruleset

import (
	"fmt"
	"sort"
)

// Registry provides fast lookup of loaded classes and armor by ID.
type Registry struct {
	classes map[string]*Class
	armor   map[string]*Armor
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		armor:   make(map[string]*Armor),
	}
}

// Load builds a Registry from the class and armor content directories,
// rejecting duplicate IDs. Empty directories are allowed; missing ones
// are not.
func Load(classDir, armorDir string) (*Registry, error) {
	r := NewRegistry()

	classes, err := LoadClasses(classDir)
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	for _, c := range classes {
		if _, dup := r.classes[c.ID]; dup {
			return nil, fmt.Errorf("duplicate class id %q", c.ID)
		}
		r.RegisterClass(c)
	}

	armor, err := LoadArmor(armorDir)
	if err != nil {
		return nil, fmt.Errorf("loading armor: %w", err)
	}
	for _, a := range armor {
		if _, dup := r.armor[a.ID]; dup {
			return nil, fmt.Errorf("duplicate armor id %q", a.ID)
		}
		r.RegisterArmor(a)
	}

	return r, nil
}

// RegisterClass adds a Class to the registry.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: c is retrievable via Class using c.ID; if called twice
// with the same ID, the last call wins.
func (r *Registry) RegisterClass(c *Class) {
	if c == nil {
		panic("Registry.RegisterClass: precondition violated: class must be non-nil")
	}
	if c.ID == "" {
		panic("Registry.RegisterClass: precondition violated: class ID must be non-empty")
	}
	r.classes[c.ID] = c
}

// RegisterArmor adds an Armor to the registry.
//
// Precondition: a must be non-nil with a non-empty ID.
func (r *Registry) RegisterArmor(a *Armor) {
	if a == nil {
		panic("Registry.RegisterArmor: precondition violated: armor must be non-nil")
	}
	if a.ID == "" {
		panic("Registry.RegisterArmor: precondition violated: armor ID must be non-empty")
	}
	r.armor[a.ID] = a
}

// Class returns the Class for the given ID, if registered.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Armor returns the Armor for the given ID, if registered.
func (r *Registry) Armor(id string) (*Armor, bool) {
	a, ok := r.armor[id]
	return a, ok
}

// Classes returns all registered classes sorted by ID.
func (r *Registry) Classes() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ArmorList returns all registered armor sorted by ID.
func (r *Registry) ArmorList() []*Armor {
	out := make([]*Armor, 0, len(r.armor))
	for _, a := range r.armor {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
