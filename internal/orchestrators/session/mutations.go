package session

import (
	"fmt"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/actions"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// Mutation is one play-time change to a character. Build one with the
// constructors below and run it with Apply.
type Mutation struct {
	Name  string
	apply func(c *sheet.Character, lib *sheet.Library) (*sheet.Character, bool)
}

func always(name string, fn func(c *sheet.Character) *sheet.Character) Mutation {
	return Mutation{
		Name: name,
		apply: func(c *sheet.Character, _ *sheet.Library) (*sheet.Character, bool) {
			return fn(c), true
		},
	}
}

// CastSpell pays the MP cost of a library spell. It is refused when the
// spell is not in the library or MP is short.
func CastSpell(spellID string) Mutation {
	return Mutation{
		Name: "cast " + spellID,
		apply: func(c *sheet.Character, lib *sheet.Library) (*sheet.Character, bool) {
			spell, ok := lib.Spell(spellID)
			if !ok {
				return c.Clone(), false
			}
			return actions.CastSpell(c, spell)
		},
	}
}

// AdjustHP adds delta to current HP
func AdjustHP(delta int) Mutation {
	return always(fmt.Sprintf("hp %+d", delta), func(c *sheet.Character) *sheet.Character {
		return actions.AdjustHP(c, delta)
	})
}

// SetHP sets current HP
func SetHP(value int) Mutation {
	return always(fmt.Sprintf("hp = %d", value), func(c *sheet.Character) *sheet.Character {
		return actions.SetHP(c, value)
	})
}

// AdjustMP adds delta to current MP
func AdjustMP(delta int) Mutation {
	return always(fmt.Sprintf("mp %+d", delta), func(c *sheet.Character) *sheet.Character {
		return actions.AdjustMP(c, delta)
	})
}

// SetMP sets current MP
func SetMP(value int) Mutation {
	return always(fmt.Sprintf("mp = %d", value), func(c *sheet.Character) *sheet.Character {
		return actions.SetMP(c, value)
	})
}

// HealFull restores HP to max
func HealFull() Mutation {
	return always("heal full", actions.HealFull)
}

// RestoreFull restores MP to max
func RestoreFull() Mutation {
	return always("restore full", actions.RestoreFull)
}

// Rest restores both HP and MP to max
func Rest() Mutation {
	return always("rest", func(c *sheet.Character) *sheet.Character {
		return actions.RestoreFull(actions.HealFull(c))
	})
}

// Equip puts an item id in a slot
func Equip(slot sheet.Slot, itemID string) Mutation {
	return Mutation{
		Name: fmt.Sprintf("equip %s %s", slot, itemID),
		apply: func(c *sheet.Character, _ *sheet.Library) (*sheet.Character, bool) {
			return actions.Equip(c, slot, itemID)
		},
	}
}

// Unequip empties a slot
func Unequip(slot sheet.Slot) Mutation {
	return always("unequip "+string(slot), func(c *sheet.Character) *sheet.Character {
		return actions.Unequip(c, slot)
	})
}

// LearnSpell adds a spell id to the known spells
func LearnSpell(spellID string) Mutation {
	return always("learn "+spellID, func(c *sheet.Character) *sheet.Character {
		return actions.AddKnownSpell(c, spellID)
	})
}

// ForgetSpell removes a spell id from the known spells
func ForgetSpell(spellID string) Mutation {
	return always("forget "+spellID, func(c *sheet.Character) *sheet.Character {
		return actions.RemoveKnownSpell(c, spellID)
	})
}

// AddPassive adds a passive id
func AddPassive(passiveID string) Mutation {
	return always("add passive "+passiveID, func(c *sheet.Character) *sheet.Character {
		return actions.AddPassive(c, passiveID)
	})
}

// RemovePassive removes a passive id
func RemovePassive(passiveID string) Mutation {
	return always("remove passive "+passiveID, func(c *sheet.Character) *sheet.Character {
		return actions.RemovePassive(c, passiveID)
	})
}

// SetBank sets a coin count
func SetBank(key sheet.BankKey, coin sheet.Coin, value float64) Mutation {
	return always(fmt.Sprintf("%s %s = %v", key, coin, value), func(c *sheet.Character) *sheet.Character {
		return actions.SetBank(c, key, coin, value)
	})
}

// BumpBank adds delta to a coin count
func BumpBank(key sheet.BankKey, coin sheet.Coin, delta float64) Mutation {
	return always(fmt.Sprintf("%s %s %+v", key, coin, delta), func(c *sheet.Character) *sheet.Character {
		return actions.BumpBank(c, key, coin, delta)
	})
}

// RestoreMPWithCoin spends one personal coin to restore MP. It is refused
// when the chosen coin has no balance. An empty coin picks the first coin
// with a positive balance.
func RestoreMPWithCoin(coin sheet.Coin) Mutation {
	name := "restore mp with " + string(coin)
	if coin == "" {
		name = "restore mp"
	}
	return Mutation{
		Name: name,
		apply: func(c *sheet.Character, _ *sheet.Library) (*sheet.Character, bool) {
			if coin == "" {
				return actions.ConsumeCoinForMPRestore(c, actions.SelectRestoreCoin(c.PersonalBank, coin))
			}
			return actions.ConsumeCoinForMPRestore(c, coin)
		},
	}
}

// SetPartyMember writes a roster name
func SetPartyMember(index int, name string) Mutation {
	return always(fmt.Sprintf("party member %d", index), func(c *sheet.Character) *sheet.Character {
		return actions.SetPartyMember(c, index, name)
	})
}

// SetPartyMemberCode writes a roster public code
func SetPartyMemberCode(index int, code string) Mutation {
	return always(fmt.Sprintf("party code %d", index), func(c *sheet.Character) *sheet.Character {
		return actions.SetPartyMemberCode(c, index, code)
	})
}

// SetPartyName sets the party name
func SetPartyName(name string) Mutation {
	return always("party name", func(c *sheet.Character) *sheet.Character {
		out := c.Clone()
		out.PartyName = name
		return out.Normalize()
	})
}
