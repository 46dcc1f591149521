package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
	"github.com/pedrohwah/shadowsofavernus/internal/game/ruleset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadClasses_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "wizard.yaml"), `
id: wizard
name: "Wizard"
description: "A scholarly magic-user wielding the arcane."
hit_die: 6
key_ability: int
trained_saves:
  - int
  - wis
`)
	classes, err := ruleset.LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, "wizard", c.ID)
	assert.Equal(t, "Wizard", c.Name)
	assert.Equal(t, 6, c.HitDie)
	assert.Equal(t, dice.INT, c.KeyAttribute())
	assert.True(t, c.TrainsSave(dice.WIS))
	assert.False(t, c.TrainsSave(dice.STR))
}

func TestLoadClasses_RejectsBadContent(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing id", "name: Broken\nhit_die: 8\nkey_ability: str\n"},
		{"bad hit die", "id: x\nname: X\nhit_die: 7\nkey_ability: str\n"},
		{"bad key ability", "id: x\nname: X\nhit_die: 8\nkey_ability: luck\n"},
		{"bad trained save", "id: x\nname: X\nhit_die: 8\nkey_ability: str\ntrained_saves: [brawn]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "bad.yaml"), tc.yaml)
			_, err := ruleset.LoadClasses(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadArmor_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chain_mail.yaml"), `
id: chain_mail
name: "Chain Mail"
description: "Interlocking metal rings over a quilted layer."
category: heavy
base_ac: 16
dex_cap: 0
strength_req: 13
weight: 55
`)
	armor, err := ruleset.LoadArmor(dir)
	require.NoError(t, err)
	require.Len(t, armor, 1)

	a := armor[0]
	assert.Equal(t, "chain_mail", a.ID)
	assert.Equal(t, ruleset.CategoryHeavy, a.Category)
	assert.Equal(t, 16, a.BaseAC)
	assert.Equal(t, 13, a.StrengthReq)
}

func TestLoadArmor_RejectsBadContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), `
id: cardboard
name: "Cardboard"
category: flimsy
base_ac: 3
`)
	_, err := ruleset.LoadArmor(dir)
	assert.Error(t, err)
}

func TestArmor_DexBonus(t *testing.T) {
	uncapped := &ruleset.Armor{DexCap: -1}
	assert.Equal(t, 4, uncapped.DexBonus(4))
	assert.Equal(t, -1, uncapped.DexBonus(-1))

	medium := &ruleset.Armor{DexCap: 2}
	assert.Equal(t, 2, medium.DexBonus(4), "cap limits positive dex")
	assert.Equal(t, 1, medium.DexBonus(1))
	assert.Equal(t, -1, medium.DexBonus(-1), "penalties pass through a cap")

	heavy := &ruleset.Armor{DexCap: 0}
	assert.Equal(t, 0, heavy.DexBonus(4), "heavy armor ignores dexterity")
	assert.Equal(t, 0, heavy.DexBonus(-2))
}

func TestLoad_BuildsRegistry(t *testing.T) {
	classDir, armorDir := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(classDir, "fighter.yaml"), `
id: fighter
name: "Fighter"
hit_die: 10
key_ability: str
trained_saves: [str, con]
`)
	writeFile(t, filepath.Join(armorDir, "leather.yaml"), `
id: leather
name: "Leather"
category: light
base_ac: 11
dex_cap: -1
weight: 10
`)

	reg, err := ruleset.Load(classDir, armorDir)
	require.NoError(t, err)

	c, ok := reg.Class("fighter")
	require.True(t, ok)
	assert.Equal(t, "Fighter", c.Name)

	a, ok := reg.Armor("leather")
	require.True(t, ok)
	assert.Equal(t, 11, a.BaseAC)

	_, ok = reg.Class("bard")
	assert.False(t, ok)

	assert.Len(t, reg.Classes(), 1)
	assert.Len(t, reg.ArmorList(), 1)
}

func TestLoad_MissingDirFails(t *testing.T) {
	_, err := ruleset.Load(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestLoad_EmptyDirsAllowed(t *testing.T) {
	reg, err := ruleset.Load(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reg.Classes())
	assert.Empty(t, reg.ArmorList())
}

func TestRegistry_RegisterPanicsOnBadInput(t *testing.T) {
	reg := ruleset.NewRegistry()
	assert.Panics(t, func() { reg.RegisterClass(nil) })
	assert.Panics(t, func() { reg.RegisterClass(&ruleset.Class{}) })
	assert.Panics(t, func() { reg.RegisterArmor(nil) })
}
