package sheet

import "math"

// Character bounds
const (
	MinLevel     = 1
	MaxLevel     = 20
	DefaultLevel = 5

	MaxVital = 9999

	MinAbilityScore     = 1
	MaxAbilityScore     = 30
	DefaultAbilityScore = 10

	// ProficiencyBonus is fixed to the level 5 value; it does not scale with Level
	ProficiencyBonus = 3

	PartySize          = 4
	MaxPartyCodeLength = 16

	MaxCoins = math.MaxInt32

	// Armor bonus bounds. An ability bonus of ±29 already spans the whole
	// ability range, so anything larger is meaningless.
	MaxACBonus      = 99
	MaxAbilityBonus = MaxAbilityScore - MinAbilityScore
)

// Ability is a six-score ability key
type Ability string

// Ability keys
const (
	AbilityStr Ability = "str"
	AbilityDex Ability = "dex"
	AbilityCon Ability = "con"
	AbilityInt Ability = "int"
	AbilityWis Ability = "wis"
	AbilityCha Ability = "cha"
)

// AllAbilities lists abilities in sheet order
var AllAbilities = []Ability{AbilityStr, AbilityDex, AbilityCon, AbilityInt, AbilityWis, AbilityCha}

// Skill is a skill proficiency key
type Skill string

// Skill keys
const (
	SkillAcrobatics     Skill = "acrobatics"
	SkillAnimalHandling Skill = "animalHandling"
	SkillArcana         Skill = "arcana"
	SkillAthletics      Skill = "athletics"
	SkillDeception      Skill = "deception"
	SkillHistory        Skill = "history"
	SkillInsight        Skill = "insight"
	SkillIntimidation   Skill = "intimidation"
	SkillInvestigation  Skill = "investigation"
	SkillMedicine       Skill = "medicine"
	SkillNature         Skill = "nature"
	SkillPerception     Skill = "perception"
	SkillPerformance    Skill = "performance"
	SkillPersuasion     Skill = "persuasion"
	SkillReligion       Skill = "religion"
	SkillSleightOfHand  Skill = "sleightOfHand"
	SkillStealth        Skill = "stealth"
	SkillSurvival       Skill = "survival"
)

// AllSkills lists skills alphabetically, as the sheet shows them
var AllSkills = []Skill{
	SkillAcrobatics, SkillAnimalHandling, SkillArcana, SkillAthletics,
	SkillDeception, SkillHistory, SkillInsight, SkillIntimidation,
	SkillInvestigation, SkillMedicine, SkillNature, SkillPerception,
	SkillPerformance, SkillPersuasion, SkillReligion, SkillSleightOfHand,
	SkillStealth, SkillSurvival,
}

// SkillAbility maps every skill to the ability that drives it
var SkillAbility = map[Skill]Ability{
	SkillAcrobatics:     AbilityDex,
	SkillAnimalHandling: AbilityWis,
	SkillArcana:         AbilityInt,
	SkillAthletics:      AbilityStr,
	SkillDeception:      AbilityCha,
	SkillHistory:        AbilityInt,
	SkillInsight:        AbilityWis,
	SkillIntimidation:   AbilityCha,
	SkillInvestigation:  AbilityInt,
	SkillMedicine:       AbilityWis,
	SkillNature:         AbilityInt,
	SkillPerception:     AbilityWis,
	SkillPerformance:    AbilityCha,
	SkillPersuasion:     AbilityCha,
	SkillReligion:       AbilityInt,
	SkillSleightOfHand:  AbilityDex,
	SkillStealth:        AbilityDex,
	SkillSurvival:       AbilityWis,
}

// PassiveSkills are the skills with a passive (10 + bonus) score
var PassiveSkills = []Skill{SkillPerception, SkillInvestigation, SkillInsight}

// MPTier is a spell cost band
type MPTier string

// MP tiers, cheapest first. None is the fallback.
const (
	MPTierNone     MPTier = "None"
	MPTierLow      MPTier = "Low"
	MPTierMed      MPTier = "Med"
	MPTierHigh     MPTier = "High"
	MPTierVeryHigh MPTier = "VeryHigh"
	MPTierExtreme  MPTier = "Extreme"
)

// MPTiers lists tiers in table order
var MPTiers = []MPTier{MPTierNone, MPTierLow, MPTierMed, MPTierHigh, MPTierVeryHigh, MPTierExtreme}

var mpTierCost = map[MPTier]int{
	MPTierNone:     0,
	MPTierLow:      25,
	MPTierMed:      50,
	MPTierHigh:     100,
	MPTierVeryHigh: 150,
	MPTierExtreme:  200,
}

// Cost returns the fixed MP cost for the tier. Unknown tiers cost nothing.
func (t MPTier) Cost() int {
	return mpTierCost[t]
}

// Rank is a character's adventurer rank
type Rank string

// Ranks, lowest first. Bronze is the fallback.
const (
	RankBronze  Rank = "Bronze"
	RankSilver  Rank = "Silver"
	RankGold    Rank = "Gold"
	RankDiamond Rank = "Diamond"
)

// Ranks lists ranks in order
var Ranks = []Rank{RankBronze, RankSilver, RankGold, RankDiamond}

// Coin is a currency tier
type Coin string

// Coins, lowest first
const (
	CoinBronze  Coin = "bronze"
	CoinSilver  Coin = "silver"
	CoinGold    Coin = "gold"
	CoinDiamond Coin = "diamond"
)

// Coins lists currency tiers in order
var Coins = []Coin{CoinBronze, CoinSilver, CoinGold, CoinDiamond}

// BankKey selects one of a character's two banks
type BankKey string

// Bank keys
const (
	BankPersonal BankKey = "personal"
	BankParty    BankKey = "party"
)

// Slot is an equipment slot
type Slot string

// Equipment slots
const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
)

// RacePreset holds the base vitals and armor class for a recognized race
type RacePreset struct {
	Name   string
	BaseHP int
	BaseMP int
	BaseAC int
}

// RacePresets lists the recognized races. Human is first and is the fallback
// for any free-text race that matches none of them.
var RacePresets = []RacePreset{
	{Name: "Human", BaseHP: 100, BaseMP: 100, BaseAC: 14},
	{Name: "Elf", BaseHP: 80, BaseMP: 140, BaseAC: 13},
	{Name: "Dwarf", BaseHP: 130, BaseMP: 70, BaseAC: 16},
	{Name: "Orc", BaseHP: 140, BaseMP: 60, BaseAC: 15},
	{Name: "Beastkin", BaseHP: 110, BaseMP: 90, BaseAC: 15},
}

// PresetForRace returns the preset matching race case-insensitively, or the
// Human preset.
func PresetForRace(race string) RacePreset {
	key := enumKey(race)
	for _, p := range RacePresets {
		if enumKey(p.Name) == key {
			return p
		}
	}
	return RacePresets[0]
}

// ParseCoin matches a coin name case-insensitively
func ParseCoin(s string) (Coin, bool) {
	key := enumKey(s)
	for _, c := range Coins {
		if enumKey(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

// ParseBankKey matches a bank name case-insensitively
func ParseBankKey(s string) (BankKey, bool) {
	switch enumKey(s) {
	case enumKey(string(BankPersonal)):
		return BankPersonal, true
	case enumKey(string(BankParty)):
		return BankParty, true
	}
	return "", false
}

// ParseSlot matches an equipment slot case-insensitively
func ParseSlot(s string) (Slot, bool) {
	switch enumKey(s) {
	case enumKey(string(SlotWeapon)):
		return SlotWeapon, true
	case enumKey(string(SlotArmor)):
		return SlotArmor, true
	}
	return "", false
}
