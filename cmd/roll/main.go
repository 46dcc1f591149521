// Package main provides an offline dice roller for trying expressions
// without a running server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pedrohwah/shadowsofavernus/internal/game/character"
	"github.com/pedrohwah/shadowsofavernus/internal/game/dice"
)

func main() {
	expression := flag.String("e", "1d20", "dice expression to evaluate")
	repeat := flag.Int("n", 1, "number of rolls")
	advantage := flag.Bool("adv", false, "roll a single d20 with advantage")
	disadvantage := flag.Bool("dis", false, "roll a single d20 with disadvantage")
	seed := flag.Int64("seed", 0, "seed for a deterministic pseudo-random source")

	strength := flag.Int("str", 10, "character strength score")
	dexterity := flag.Int("dex", 10, "character dexterity score")
	constitution := flag.Int("con", 10, "character constitution score")
	intelligence := flag.Int("int", 10, "character intelligence score")
	wisdom := flag.Int("wis", 10, "character wisdom score")
	charisma := flag.Int("cha", 10, "character charisma score")
	lucky := flag.Bool("lucky", false, "character has the luck trait")
	flag.Parse()

	if *repeat < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		os.Exit(1)
	}

	// Only flags that were actually set matter: a character is supplied
	// when any sheet flag appears, and the pseudo source only replaces
	// the crypto one when -seed appears.
	seeded := false
	withCharacter := false
	sheetFlags := map[string]bool{
		"str": true, "dex": true, "con": true,
		"int": true, "wis": true, "cha": true, "lucky": true,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seeded = true
		}
		if sheetFlags[f.Name] {
			withCharacter = true
		}
	})

	src := dice.NewCryptoSource()
	if seeded {
		src = dice.NewPseudoSource(*seed)
	}
	roller := dice.NewRoller(src)

	req := dice.Request{
		Expression:   *expression,
		Advantage:    *advantage,
		Disadvantage: *disadvantage,
	}
	if withCharacter {
		req.Character = &character.Character{
			Abilities: character.AbilityScores{
				Strength:     *strength,
				Dexterity:    *dexterity,
				Constitution: *constitution,
				Intelligence: *intelligence,
				Wisdom:       *wisdom,
				Charisma:     *charisma,
			},
			Luck: *lucky,
		}
	}

	for i := 0; i < *repeat; i++ {
		result, err := roller.Roll(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid expression %q: %v\n", *expression, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stdout, result.Details)
	}
}
