// Package sheet holds the character sheet entities, their reference tables
// and the normalizers that coerce any stored document into a valid entity.
package sheet

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Entity type names reported through core.Entity
const (
	EntityTypeCharacter = "character"
	EntityTypeSpell     = "spell"
	EntityTypeWeapon    = "weapon"
	EntityTypeArmor     = "armor"
	EntityTypePassive   = "passive"
)

var (
	_ core.Entity = (*Character)(nil)
	_ core.Entity = Spell{}
	_ core.Entity = Weapon{}
	_ core.Entity = Armor{}
	_ core.Entity = Passive{}
)

// Spell is a library spell. MPCost always equals MPTier.Cost().
type Spell struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Essence     string `json:"essence"`
	MPTier      MPTier `json:"mpTier"`
	MPCost      int    `json:"mpCost"`
	Damage      string `json:"damage"`
	Range       string `json:"range"`
	Description string `json:"description"`
}

// GetID implements core.Entity
func (s Spell) GetID() string { return s.ID }

// GetType implements core.Entity
func (s Spell) GetType() string { return EntityTypeSpell }

// GetName returns the display name
func (s Spell) GetName() string { return s.Name }

// Weapon is a library weapon
type Weapon struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WeaponType string `json:"weaponType"`
	Damage     string `json:"damage"`
}

// GetID implements core.Entity
func (w Weapon) GetID() string { return w.ID }

// GetType implements core.Entity
func (w Weapon) GetType() string { return EntityTypeWeapon }

// GetName returns the display name
func (w Weapon) GetName() string { return w.Name }

// Armor is a library armor piece. AbilityBonuses never holds zero entries.
type Armor struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ACBonus        int             `json:"acBonus"`
	Effect         string          `json:"effect"`
	AbilityBonuses map[Ability]int `json:"abilityBonuses"`
}

// GetID implements core.Entity
func (a Armor) GetID() string { return a.ID }

// GetType implements core.Entity
func (a Armor) GetType() string { return EntityTypeArmor }

// GetName returns the display name
func (a Armor) GetName() string { return a.Name }

// Passive is a library passive trait
type Passive struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetID implements core.Entity
func (p Passive) GetID() string { return p.ID }

// GetType implements core.Entity
func (p Passive) GetType() string { return EntityTypePassive }

// GetName returns the display name
func (p Passive) GetName() string { return p.Name }

// Abilities holds the six ability scores
type Abilities struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// DefaultAbilities returns all scores at 10
func DefaultAbilities() Abilities {
	return Abilities{
		Str: DefaultAbilityScore,
		Dex: DefaultAbilityScore,
		Con: DefaultAbilityScore,
		Int: DefaultAbilityScore,
		Wis: DefaultAbilityScore,
		Cha: DefaultAbilityScore,
	}
}

// Get returns the score for an ability
func (a Abilities) Get(ability Ability) int {
	switch ability {
	case AbilityStr:
		return a.Str
	case AbilityDex:
		return a.Dex
	case AbilityCon:
		return a.Con
	case AbilityInt:
		return a.Int
	case AbilityWis:
		return a.Wis
	case AbilityCha:
		return a.Cha
	}
	return 0
}

// With returns a copy with one score replaced
func (a Abilities) With(ability Ability, score int) Abilities {
	switch ability {
	case AbilityStr:
		a.Str = score
	case AbilityDex:
		a.Dex = score
	case AbilityCon:
		a.Con = score
	case AbilityInt:
		a.Int = score
	case AbilityWis:
		a.Wis = score
	case AbilityCha:
		a.Cha = score
	}
	return a
}

// Bank is a four-tier currency ledger
type Bank struct {
	Bronze  int `json:"bronze"`
	Silver  int `json:"silver"`
	Gold    int `json:"gold"`
	Diamond int `json:"diamond"`
}

// Get returns the count for a coin
func (b Bank) Get(coin Coin) int {
	switch coin {
	case CoinBronze:
		return b.Bronze
	case CoinSilver:
		return b.Silver
	case CoinGold:
		return b.Gold
	case CoinDiamond:
		return b.Diamond
	}
	return 0
}

// With returns a copy with one coin count replaced
func (b Bank) With(coin Coin, count int) Bank {
	switch coin {
	case CoinBronze:
		b.Bronze = count
	case CoinSilver:
		b.Silver = count
	case CoinGold:
		b.Gold = count
	case CoinDiamond:
		b.Diamond = count
	}
	return b
}

// Character is the root aggregate. Spell, passive and equipment fields are
// weak references into the library and may dangle.
type Character struct {
	ID         string `json:"id"`
	PublicCode string `json:"publicCode"`

	Name    string `json:"name"`
	Race    string `json:"race"`
	Subtype string `json:"subtype"`
	Rank    Rank   `json:"rank"`

	PartyName        string            `json:"partyName"`
	PartyMembers     [PartySize]string `json:"partyMembers"`
	PartyMemberCodes [PartySize]string `json:"partyMemberCodes"`
	MissionDirective string            `json:"missionDirective"`
	Notes            string            `json:"notes"`

	Level     int `json:"level"`
	MaxHP     int `json:"maxHp"`
	MaxMP     int `json:"maxMp"`
	CurrentHP int `json:"currentHp"`
	CurrentMP int `json:"currentMp"`

	AbilitiesBase      Abilities        `json:"abilitiesBase"`
	SkillProficiencies map[Skill]bool   `json:"skillProficiencies"`
	SaveProficiencies  map[Ability]bool `json:"saveProficiencies"`

	KnownSpellIDs    []string `json:"knownSpellIds"`
	PassiveIDs       []string `json:"passiveIds"`
	EquippedWeaponID string   `json:"equippedWeaponId,omitempty"`
	EquippedArmorID  string   `json:"equippedArmorId,omitempty"`

	PersonalBank Bank `json:"personalBank"`
	PartyBank    Bank `json:"partyBank"`
}

// GetID implements core.Entity
func (c *Character) GetID() string { return c.ID }

// GetType implements core.Entity
func (c *Character) GetType() string { return EntityTypeCharacter }

// Bank returns the selected bank
func (c *Character) Bank(key BankKey) Bank {
	if key == BankParty {
		return c.PartyBank
	}
	return c.PersonalBank
}

// Equipped returns the id in a slot, empty when nothing is equipped
func (c *Character) Equipped(slot Slot) string {
	switch slot {
	case SlotWeapon:
		return c.EquippedWeaponID
	case SlotArmor:
		return c.EquippedArmorID
	}
	return ""
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.SkillProficiencies = make(map[Skill]bool, len(c.SkillProficiencies))
	for k, v := range c.SkillProficiencies {
		out.SkillProficiencies[k] = v
	}
	out.SaveProficiencies = make(map[Ability]bool, len(c.SaveProficiencies))
	for k, v := range c.SaveProficiencies {
		out.SaveProficiencies[k] = v
	}
	out.KnownSpellIDs = append([]string{}, c.KnownSpellIDs...)
	out.PassiveIDs = append([]string{}, c.PassiveIDs...)
	return &out
}

// PublicVitals is what a public code grants read access to
type PublicVitals struct {
	Name          string    `json:"name"`
	Race          string    `json:"race"`
	Level         int       `json:"level"`
	CurrentHP     int       `json:"currentHp"`
	MaxHP         int       `json:"maxHp"`
	CurrentMP     int       `json:"currentMp"`
	MaxMP         int       `json:"maxMp"`
	AbilitiesBase Abilities `json:"abilitiesBase"`
}

// Vitals projects the publicly shareable subset
func (c *Character) Vitals() PublicVitals {
	return PublicVitals{
		Name:          c.Name,
		Race:          c.Race,
		Level:         c.Level,
		CurrentHP:     c.CurrentHP,
		MaxHP:         c.MaxHP,
		CurrentMP:     c.CurrentMP,
		MaxMP:         c.MaxMP,
		AbilitiesBase: c.AbilitiesBase,
	}
}
