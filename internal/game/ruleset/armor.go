package ruleset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Armor categories. Heavy armor ignores dexterity entirely; the dex cap
// field expresses that as 0, while -1 means uncapped.
const (
	CategoryLight  = "light"
	CategoryMedium = "medium"
	CategoryHeavy  = "heavy"
)

var validCategories = map[string]struct{}{
	CategoryLight:  {},
	CategoryMedium: {},
	CategoryHeavy:  {},
}

// Armor defines the static properties of a worn armor, loaded from YAML.
// BaseAC replaces the unarmored 10; DexCap limits how much of the
// dexterity modifier still applies.
type Armor struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	BaseAC      int     `yaml:"base_ac"`
	DexCap      int     `yaml:"dex_cap"` // -1 = uncapped, 0 = dexterity ignored
	StrengthReq int     `yaml:"strength_req"`
	Weight      float64 `yaml:"weight"`
}

// Validate reports an error if the Armor is missing required fields or
// contains illegal values.
//
// Postcondition: Returns nil iff the armor is well-formed.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := validCategories[a.Category]; !ok {
		errs = append(errs, fmt.Errorf("category %q is not light, medium, or heavy", a.Category))
	}
	if a.BaseAC < 10 {
		errs = append(errs, fmt.Errorf("base_ac %d must be >= 10", a.BaseAC))
	}
	if a.DexCap < -1 {
		errs = append(errs, fmt.Errorf("dex_cap %d must be >= -1", a.DexCap))
	}
	if a.StrengthReq < 0 {
		errs = append(errs, errors.New("strength_req must be >= 0"))
	}
	if a.Weight < 0 {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// DexBonus returns how much of dexMod this armor lets through to AC.
func (a *Armor) DexBonus(dexMod int) int {
	switch {
	case a.DexCap < 0:
		return dexMod
	case a.DexCap == 0:
		return 0
	case dexMod > a.DexCap:
		return a.DexCap
	default:
		return dexMod
	}
}

// LoadArmor reads all .yaml files in dir and parses each as an Armor.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, validated armor or a non-nil error.
func LoadArmor(dir string) ([]*Armor, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	armor := make([]*Armor, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a Armor
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing armor file %s: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("armor file %s: %w", path, err)
		}
		armor = append(armor, &a)
	}
	return armor, nil
}
