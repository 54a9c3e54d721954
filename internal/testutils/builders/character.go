// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// CharacterBuilder provides a fluent interface for building test Character
// instances. Build normalizes, so out of range values come back clamped.
type CharacterBuilder struct {
	character *sheet.Character
}

// NewCharacterBuilder creates a new builder with minimal defaults
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		character: sheet.NormalizeCharacter([]byte(`{
			"id": "char-test-123",
			"publicCode": "ABCDEF123456",
			"name": "Test Character",
			"race": "Human"
		}`)),
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithPublicCode sets the public code
func (b *CharacterBuilder) WithPublicCode(code string) *CharacterBuilder {
	b.character.PublicCode = code
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.Name = name
	return b
}

// WithRace sets the race without touching vitals
func (b *CharacterBuilder) WithRace(race string) *CharacterBuilder {
	b.character.Race = race
	return b
}

// WithLevel sets the level
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.character.Level = level
	return b
}

// WithHP sets current and max HP
func (b *CharacterBuilder) WithHP(current, maxHP int) *CharacterBuilder {
	b.character.CurrentHP = current
	b.character.MaxHP = maxHP
	return b
}

// WithMP sets current and max MP
func (b *CharacterBuilder) WithMP(current, maxMP int) *CharacterBuilder {
	b.character.CurrentMP = current
	b.character.MaxMP = maxMP
	return b
}

// WithAbilities sets the base ability scores
func (b *CharacterBuilder) WithAbilities(str, dex, con, intel, wis, cha int) *CharacterBuilder {
	b.character.AbilitiesBase = sheet.Abilities{Str: str, Dex: dex, Con: con, Int: intel, Wis: wis, Cha: cha}
	return b
}

// WithSkill marks a skill proficient
func (b *CharacterBuilder) WithSkill(skill sheet.Skill) *CharacterBuilder {
	b.character.SkillProficiencies[skill] = true
	return b
}

// WithKnownSpells replaces the known spell ids
func (b *CharacterBuilder) WithKnownSpells(ids ...string) *CharacterBuilder {
	b.character.KnownSpellIDs = ids
	return b
}

// WithEquipped sets both equipment slots
func (b *CharacterBuilder) WithEquipped(weaponID, armorID string) *CharacterBuilder {
	b.character.EquippedWeaponID = weaponID
	b.character.EquippedArmorID = armorID
	return b
}

// WithPersonalBank sets the personal bank
func (b *CharacterBuilder) WithPersonalBank(bank sheet.Bank) *CharacterBuilder {
	b.character.PersonalBank = bank
	return b
}

// WithPartyCodes sets the party member codes
func (b *CharacterBuilder) WithPartyCodes(codes ...string) *CharacterBuilder {
	for i := range b.character.PartyMemberCodes {
		b.character.PartyMemberCodes[i] = ""
		if i < len(codes) {
			b.character.PartyMemberCodes[i] = codes[i]
		}
	}
	return b
}

// Build returns the normalized character
func (b *CharacterBuilder) Build() *sheet.Character {
	return b.character.Normalize()
}
