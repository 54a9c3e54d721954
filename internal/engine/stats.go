package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// PassiveBase is the flat base of a passive skill score
const PassiveBase = 10

// Modifier returns floor((score - 10) / 2). Go division truncates toward
// zero, so odd scores below 10 are adjusted down.
func Modifier(score int) int {
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// AbilityTotals applies an armor overlay to base scores, clamping each total
// to the ability range. A nil armor adds nothing.
func AbilityTotals(base sheet.Abilities, armor *sheet.Armor) sheet.Abilities {
	out := base
	for _, a := range sheet.AllAbilities {
		total := base.Get(a)
		if armor != nil {
			total += armor.AbilityBonuses[a]
		}
		out = out.With(a, clamp(total, sheet.MinAbilityScore, sheet.MaxAbilityScore))
	}
	return out
}

// ArmorClass returns the race preset AC plus the equipped armor's bonus
func ArmorClass(race string, armor *sheet.Armor) int {
	ac := sheet.PresetForRace(race).BaseAC
	if armor != nil {
		ac += armor.ACBonus
	}
	return ac
}

// Castable reports whether the character has the MP to cast spell
func Castable(c *sheet.Character, spell sheet.Spell) bool {
	return c.CurrentMP >= spell.MPCost
}

func proficient(flag bool) int {
	if flag {
		return sheet.ProficiencyBonus
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Calculate derives the full sheet for c. Equipped items and known spells
// that are missing from lib resolve as absent and are listed as missing.
func Calculate(c *sheet.Character, lib *sheet.Library) *Sheet {
	if lib == nil {
		lib = sheet.NewLibrary()
	}

	out := &Sheet{
		Character:        c,
		ProficiencyBonus: sheet.ProficiencyBonus,
		Abilities:        make(map[sheet.Ability]AbilityScore, len(sheet.AllAbilities)),
		Saves:            make(map[sheet.Ability]Score, len(sheet.AllAbilities)),
		Skills:           make(map[sheet.Skill]Score, len(sheet.AllSkills)),
		Passives:         make(map[sheet.Skill]int, len(sheet.PassiveSkills)),
		KnownSpells:      []KnownSpell{},
		PassiveTraits:    []sheet.Passive{},
		MissingSpellIDs:  []string{},
		MissingTraitIDs:  []string{},
	}

	if w, ok := lib.Weapon(c.EquippedWeaponID); ok {
		out.Weapon = &w
	}
	if a, ok := lib.ArmorPiece(c.EquippedArmorID); ok {
		out.Armor = &a
	}

	totals := AbilityTotals(c.AbilitiesBase, out.Armor)
	modifiers := make(map[sheet.Ability]int, len(sheet.AllAbilities))
	for _, a := range sheet.AllAbilities {
		total := totals.Get(a)
		modifiers[a] = Modifier(total)
		out.Abilities[a] = AbilityScore{
			Base:     c.AbilitiesBase.Get(a),
			Bonus:    total - c.AbilitiesBase.Get(a),
			Total:    total,
			Modifier: modifiers[a],
		}
		prof := c.SaveProficiencies[a]
		out.Saves[a] = Score{Value: modifiers[a] + proficient(prof), Proficient: prof}
	}

	for _, skill := range sheet.AllSkills {
		prof := c.SkillProficiencies[skill]
		out.Skills[skill] = Score{
			Value:      modifiers[sheet.SkillAbility[skill]] + proficient(prof),
			Proficient: prof,
		}
	}
	for _, skill := range sheet.PassiveSkills {
		out.Passives[skill] = PassiveBase + out.Skills[skill].Value
	}

	out.ArmorClass = ArmorClass(c.Race, out.Armor)

	for _, id := range c.KnownSpellIDs {
		spell, ok := lib.Spell(id)
		if !ok {
			out.MissingSpellIDs = append(out.MissingSpellIDs, id)
			continue
		}
		out.KnownSpells = append(out.KnownSpells, KnownSpell{Spell: spell, Castable: Castable(c, spell)})
	}
	for _, id := range c.PassiveIDs {
		trait, ok := lib.Passive(id)
		if !ok {
			out.MissingTraitIDs = append(out.MissingTraitIDs, id)
			continue
		}
		out.PassiveTraits = append(out.PassiveTraits, trait)
	}

	return out
}
