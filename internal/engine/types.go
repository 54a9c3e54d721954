package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// AbilityScore is one ability after the armor overlay
type AbilityScore struct {
	Base     int `json:"base"`
	Bonus    int `json:"bonus"`
	Total    int `json:"total"`
	Modifier int `json:"modifier"`
}

// Score is a skill or save bonus
type Score struct {
	Value      int  `json:"value"`
	Proficient bool `json:"proficient"`
}

// KnownSpell is a resolved known spell
type KnownSpell struct {
	sheet.Spell
	Castable bool `json:"castable"`
}

// Sheet is the derived view of a character. It is recomputed on every read
// and never persisted.
type Sheet struct {
	Character        *sheet.Character               `json:"character"`
	ProficiencyBonus int                            `json:"proficiencyBonus"`
	Abilities        map[sheet.Ability]AbilityScore `json:"abilities"`
	Saves            map[sheet.Ability]Score        `json:"saves"`
	Skills           map[sheet.Skill]Score          `json:"skills"`
	Passives         map[sheet.Skill]int            `json:"passives"`
	ArmorClass       int                            `json:"armorClass"`
	Weapon           *sheet.Weapon                  `json:"weapon,omitempty"`
	Armor            *sheet.Armor                   `json:"armor,omitempty"`
	KnownSpells      []KnownSpell                   `json:"knownSpells"`
	PassiveTraits    []sheet.Passive                `json:"passiveTraits"`
	MissingSpellIDs  []string                       `json:"missingSpellIds"`
	MissingTraitIDs  []string                       `json:"missingTraitIds"`
}

// CalculateSheetInput contains the character and the library it references
type CalculateSheetInput struct {
	Character *sheet.Character
	Library   *sheet.Library
}

// CalculateSheetOutput contains the derived sheet
type CalculateSheetOutput struct {
	Sheet *Sheet
}

// RollDamageInput contains a free-text damage description such as
// "2d6+3 fire"
type RollDamageInput struct {
	Damage string
}

// RollDamageOutput contains the rolled total
type RollDamageOutput struct {
	Expression  DamageExpression
	Total       int
	Description string
}

// DamageExpression is the NdM+K prefix of a damage text
type DamageExpression struct {
	Count    int
	Size     int
	Modifier int
}
