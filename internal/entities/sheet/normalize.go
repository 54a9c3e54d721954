package sheet

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

// legacyPublicCodeKey is where documents written before public codes were
// renamed kept the code
const legacyPublicCodeKey = "shareCode"

// Normalizer turns arbitrary documents into valid entities. Every method is
// total: malformed input falls back field by field and never errors.
type Normalizer struct {
	ids   idgen.Generator
	codes idgen.Generator
}

// NewNormalizer creates a normalizer with the given id and public code
// generators. Nil generators use the crypto-backed defaults.
func NewNormalizer(ids, codes idgen.Generator) *Normalizer {
	if ids == nil {
		ids = idgen.NewUUID()
	}
	if codes == nil {
		codes = idgen.NewPublicCode()
	}
	return &Normalizer{ids: ids, codes: codes}
}

var defaultNormalizer = NewNormalizer(nil, nil)

// NormalizeSpell normalizes a spell document with the default generators
func NormalizeSpell(raw []byte) Spell { return defaultNormalizer.Spell(raw) }

// NormalizeWeapon normalizes a weapon document with the default generators
func NormalizeWeapon(raw []byte) Weapon { return defaultNormalizer.Weapon(raw) }

// NormalizeArmor normalizes an armor document with the default generators
func NormalizeArmor(raw []byte) Armor { return defaultNormalizer.Armor(raw) }

// NormalizePassive normalizes a passive document with the default generators
func NormalizePassive(raw []byte) Passive { return defaultNormalizer.Passive(raw) }

// NormalizeCharacter normalizes a character document with the default
// generators
func NormalizeCharacter(raw []byte) *Character { return defaultNormalizer.Character(raw) }

// NormalizeBank normalizes a bank document
func NormalizeBank(raw []byte) Bank { return bankFrom(parseObject(raw)) }

// NormalizeAbilities normalizes an ability score document
func NormalizeAbilities(raw []byte) Abilities { return abilitiesFrom(parseObject(raw)) }

func (n *Normalizer) id(v gjson.Result) string {
	if id := str(v); id != "" {
		return id
	}
	return n.ids.Generate()
}

// Spell normalizes a spell. MPCost is always recomputed from the tier.
func (n *Normalizer) Spell(raw []byte) Spell {
	doc := parseObject(raw)
	tier := matchMPTier(str(doc.Get("mpTier")))
	return Spell{
		ID:          n.id(doc.Get("id")),
		Name:        str(doc.Get("name")),
		Essence:     str(doc.Get("essence")),
		MPTier:      tier,
		MPCost:      tier.Cost(),
		Damage:      str(doc.Get("damage")),
		Range:       str(doc.Get("range")),
		Description: str(doc.Get("description")),
	}
}

// Weapon normalizes a weapon
func (n *Normalizer) Weapon(raw []byte) Weapon {
	doc := parseObject(raw)
	return Weapon{
		ID:         n.id(doc.Get("id")),
		Name:       str(doc.Get("name")),
		WeaponType: str(doc.Get("weaponType")),
		Damage:     str(doc.Get("damage")),
	}
}

// Armor normalizes an armor piece, dropping zero and unrecognized ability
// bonuses
func (n *Normalizer) Armor(raw []byte) Armor {
	doc := parseObject(raw)
	return Armor{
		ID:             n.id(doc.Get("id")),
		Name:           str(doc.Get("name")),
		ACBonus:        intField(doc.Get("acBonus"), 0, -MaxACBonus, MaxACBonus),
		Effect:         str(doc.Get("effect")),
		AbilityBonuses: abilityBonusesFrom(doc.Get("abilityBonuses")),
	}
}

// Passive normalizes a passive trait
func (n *Normalizer) Passive(raw []byte) Passive {
	doc := parseObject(raw)
	return Passive{
		ID:          n.id(doc.Get("id")),
		Name:        str(doc.Get("name")),
		Description: str(doc.Get("description")),
	}
}

// Character normalizes a character document of any version. Missing ids and
// public codes are generated; vitals default to the race preset and then to
// full.
func (n *Normalizer) Character(raw []byte) *Character {
	doc := parseObject(raw)

	race := str(doc.Get("race"))
	preset := PresetForRace(race)
	switch {
	case race == "":
		race = RacePresets[0].Name
	case enumKey(race) == enumKey(preset.Name):
		race = preset.Name
	}

	code := NormalizeCode(str(doc.Get("publicCode")))
	if code == "" {
		code = NormalizeCode(str(doc.Get(legacyPublicCodeKey)))
	}
	if code == "" {
		code = n.codes.Generate()
	}

	maxHP := intField(doc.Get("maxHp"), preset.BaseHP, 0, MaxVital)
	maxMP := intField(doc.Get("maxMp"), preset.BaseMP, 0, MaxVital)

	return &Character{
		ID:         n.id(doc.Get("id")),
		PublicCode: code,

		Name:    str(doc.Get("name")),
		Race:    race,
		Subtype: str(doc.Get("subtype")),
		Rank:    matchRank(str(doc.Get("rank"))),

		PartyName:        str(doc.Get("partyName")),
		PartyMembers:     fixedStrings(doc.Get("partyMembers"), identity),
		PartyMemberCodes: fixedStrings(doc.Get("partyMemberCodes"), NormalizeCode),
		MissionDirective: str(doc.Get("missionDirective")),
		Notes:            str(doc.Get("notes")),

		Level:     intField(doc.Get("level"), DefaultLevel, MinLevel, MaxLevel),
		MaxHP:     maxHP,
		MaxMP:     maxMP,
		CurrentHP: intField(doc.Get("currentHp"), maxHP, 0, maxHP),
		CurrentMP: intField(doc.Get("currentMp"), maxMP, 0, maxMP),

		AbilitiesBase:      abilitiesFrom(doc.Get("abilitiesBase")),
		SkillProficiencies: skillFlagsFrom(doc.Get("skillProficiencies")),
		SaveProficiencies:  saveFlagsFrom(doc.Get("saveProficiencies")),

		KnownSpellIDs:    idList(doc.Get("knownSpellIds")),
		PassiveIDs:       idList(doc.Get("passiveIds")),
		EquippedWeaponID: str(doc.Get("equippedWeaponId")),
		EquippedArmorID:  str(doc.Get("equippedArmorId")),

		PersonalBank: bankFrom(doc.Get("personalBank")),
		PartyBank:    bankFrom(doc.Get("partyBank")),
	}
}

// Renormalize runs a character back through normalization. Mutations call it
// after every change to restore bounds.
func (n *Normalizer) Renormalize(c *Character) *Character {
	if c == nil {
		return n.Character(nil)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return c.Clone()
	}
	return n.Character(data)
}

// Normalize returns a re-normalized copy using the default generators
func (c *Character) Normalize() *Character {
	return defaultNormalizer.Renormalize(c)
}

func abilitiesFrom(v gjson.Result) Abilities {
	out := DefaultAbilities()
	if !v.IsObject() {
		return out
	}
	for _, a := range AllAbilities {
		out = out.With(a, intField(v.Get(string(a)), DefaultAbilityScore, MinAbilityScore, MaxAbilityScore))
	}
	return out
}

func abilityBonusesFrom(v gjson.Result) map[Ability]int {
	out := make(map[Ability]int)
	if !v.IsObject() {
		return out
	}
	v.ForEach(func(key, value gjson.Result) bool {
		ability, ok := matchAbility(key.String())
		if !ok {
			return true
		}
		if _, dup := out[ability]; dup {
			return true
		}
		f, ok := number(value)
		if !ok {
			return true
		}
		if bonus := clampInt(f, -MaxAbilityBonus, MaxAbilityBonus); bonus != 0 {
			out[ability] = bonus
		}
		return true
	})
	return out
}

func skillFlagsFrom(v gjson.Result) map[Skill]bool {
	out := make(map[Skill]bool, len(AllSkills))
	for _, s := range AllSkills {
		out[s] = v.IsObject() && flag(v.Get(string(s)))
	}
	return out
}

func saveFlagsFrom(v gjson.Result) map[Ability]bool {
	out := make(map[Ability]bool, len(AllAbilities))
	for _, a := range AllAbilities {
		out[a] = v.IsObject() && flag(v.Get(string(a)))
	}
	return out
}

func bankFrom(v gjson.Result) Bank {
	var out Bank
	if !v.IsObject() {
		return out
	}
	for _, coin := range Coins {
		out = out.With(coin, intField(v.Get(string(coin)), 0, 0, MaxCoins))
	}
	return out
}

// collection walks a JSON array, skipping entries that are not objects.
// Anything other than an array yields nothing.
func collection(raw []byte, each func(item []byte)) {
	if !gjson.ValidBytes(raw) {
		return
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return
	}
	for _, item := range doc.Array() {
		if !item.IsObject() {
			continue
		}
		each([]byte(item.Raw))
	}
}

// ParseSpells reads a stored spell collection
func (n *Normalizer) ParseSpells(raw []byte) []Spell {
	out := []Spell{}
	collection(raw, func(item []byte) { out = append(out, n.Spell(item)) })
	return out
}

// ParseWeapons reads a stored weapon collection
func (n *Normalizer) ParseWeapons(raw []byte) []Weapon {
	out := []Weapon{}
	collection(raw, func(item []byte) { out = append(out, n.Weapon(item)) })
	return out
}

// ParseArmor reads a stored armor collection
func (n *Normalizer) ParseArmor(raw []byte) []Armor {
	out := []Armor{}
	collection(raw, func(item []byte) { out = append(out, n.Armor(item)) })
	return out
}

// ParsePassives reads a stored passive collection
func (n *Normalizer) ParsePassives(raw []byte) []Passive {
	out := []Passive{}
	collection(raw, func(item []byte) { out = append(out, n.Passive(item)) })
	return out
}

// ParseCharacters reads a stored character collection
func (n *Normalizer) ParseCharacters(raw []byte) []*Character {
	out := []*Character{}
	collection(raw, func(item []byte) { out = append(out, n.Character(item)) })
	return out
}

// IsPresetRace reports whether race names one of the recognized presets
func IsPresetRace(race string) bool {
	key := enumKey(race)
	for _, p := range RacePresets {
		if enumKey(p.Name) == key {
			return true
		}
	}
	return false
}

