package ruleset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

// Class defines a playable character class. The companion reads it for
// derived stats only: the hit die sizes hit-point recovery rolls, the key
// ability drives the spell attack bonus, and trained saves add
// proficiency to the matching save rolls.
//
// Precondition: ID, Name, and KeyAbility must be non-empty after loading.
type Class struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	HitDie       int      `yaml:"hit_die"`
	KeyAbility   string   `yaml:"key_ability"`   // three-letter abbreviation, e.g. "int"
	TrainedSaves []string `yaml:"trained_saves"` // attribute abbreviations
}

var validHitDice = map[int]struct{}{4: {}, 6: {}, 8: {}, 10: {}, 12: {}}

// Validate reports an error if the Class is missing required fields or
// contains illegal values.
//
// Postcondition: Returns nil iff the class is well-formed.
func (c *Class) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := validHitDice[c.HitDie]; !ok {
		errs = append(errs, fmt.Errorf("hit_die %d is not one of 4, 6, 8, 10, 12", c.HitDie))
	}
	if _, ok := dice.ParseAttribute(c.KeyAbility); !ok {
		errs = append(errs, fmt.Errorf("key_ability %q is not an ability abbreviation", c.KeyAbility))
	}
	for _, s := range c.TrainedSaves {
		if _, ok := dice.ParseAttribute(s); !ok {
			errs = append(errs, fmt.Errorf("trained save %q is not an ability abbreviation", s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// KeyAttribute returns the class key ability as a dice attribute.
//
// Precondition: the class passed Validate.
func (c *Class) KeyAttribute() dice.Attribute {
	attr, _ := dice.ParseAttribute(c.KeyAbility)
	return attr
}

// TrainsSave reports whether the class adds proficiency to saves on attr.
func (c *Class) TrainsSave(attr dice.Attribute) bool {
	for _, s := range c.TrainedSaves {
		if strings.EqualFold(s, string(attr)) {
			return true
		}
	}
	return false
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, validated classes or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("class file %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}
