// Package actions holds the play-time state transitions of a character.
// Every action returns a new, re-normalized character and leaves its input
// untouched. Actions that can be refused also report whether they applied;
// a refused action returns the character unchanged and is not an error.
package actions

import (
	"math"
	"slices"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

func apply(c *sheet.Character, edit func(*sheet.Character)) *sheet.Character {
	out := c.Clone()
	edit(out)
	return out.Normalize()
}

// AdjustHP adds delta to current HP, clamped to [0, max]
func AdjustHP(c *sheet.Character, delta int) *sheet.Character {
	return SetHP(c, c.CurrentHP+clampDelta(delta))
}

// SetHP sets current HP, clamped to [0, max]
func SetHP(c *sheet.Character, value int) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		out.CurrentHP = clampVital(value, out.MaxHP)
	})
}

// AdjustMP adds delta to current MP, clamped to [0, max]
func AdjustMP(c *sheet.Character, delta int) *sheet.Character {
	return SetMP(c, c.CurrentMP+clampDelta(delta))
}

// SetMP sets current MP, clamped to [0, max]
func SetMP(c *sheet.Character, value int) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		out.CurrentMP = clampVital(value, out.MaxMP)
	})
}

// HealFull sets current HP to max
func HealFull(c *sheet.Character) *sheet.Character {
	return SetHP(c, c.MaxHP)
}

// RestoreFull sets current MP to max
func RestoreFull(c *sheet.Character) *sheet.Character {
	return SetMP(c, c.MaxMP)
}

// CastSpell pays the spell's MP cost. It is refused when current MP is below
// the cost.
func CastSpell(c *sheet.Character, spell sheet.Spell) (*sheet.Character, bool) {
	if c.CurrentMP < spell.MPCost {
		return c.Clone(), false
	}
	return SetMP(c, c.CurrentMP-spell.MPCost), true
}

// Equip puts itemID in slot. The id is not checked against the library; an
// empty id is refused.
func Equip(c *sheet.Character, slot sheet.Slot, itemID string) (*sheet.Character, bool) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return c.Clone(), false
	}
	switch slot {
	case sheet.SlotWeapon:
		return apply(c, func(out *sheet.Character) { out.EquippedWeaponID = itemID }), true
	case sheet.SlotArmor:
		return apply(c, func(out *sheet.Character) { out.EquippedArmorID = itemID }), true
	}
	return c.Clone(), false
}

// Unequip empties slot
func Unequip(c *sheet.Character, slot sheet.Slot) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		switch slot {
		case sheet.SlotWeapon:
			out.EquippedWeaponID = ""
		case sheet.SlotArmor:
			out.EquippedArmorID = ""
		}
	})
}

// AddKnownSpell prepends id to the known spells. Known ids are left in place.
func AddKnownSpell(c *sheet.Character, id string) *sheet.Character {
	id = strings.TrimSpace(id)
	return apply(c, func(out *sheet.Character) {
		if id != "" && !slices.Contains(out.KnownSpellIDs, id) {
			out.KnownSpellIDs = append([]string{id}, out.KnownSpellIDs...)
		}
	})
}

// RemoveKnownSpell drops id from the known spells
func RemoveKnownSpell(c *sheet.Character, id string) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		out.KnownSpellIDs = without(out.KnownSpellIDs, id)
	})
}

// AddPassive appends id to the passives. Present ids are left in place.
func AddPassive(c *sheet.Character, id string) *sheet.Character {
	id = strings.TrimSpace(id)
	return apply(c, func(out *sheet.Character) {
		if id != "" && !slices.Contains(out.PassiveIDs, id) {
			out.PassiveIDs = append(out.PassiveIDs, id)
		}
	})
}

// RemovePassive drops id from the passives
func RemovePassive(c *sheet.Character, id string) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		out.PassiveIDs = without(out.PassiveIDs, id)
	})
}

// SetBank sets a coin count, floored to a non-negative integer
func SetBank(c *sheet.Character, key sheet.BankKey, coin sheet.Coin, value float64) *sheet.Character {
	count := floorCount(value)
	return apply(c, func(out *sheet.Character) {
		if key == sheet.BankParty {
			out.PartyBank = out.PartyBank.With(coin, count)
			return
		}
		out.PersonalBank = out.PersonalBank.With(coin, count)
	})
}

// BumpBank adds delta to a coin count. The count never goes below zero.
func BumpBank(c *sheet.Character, key sheet.BankKey, coin sheet.Coin, delta float64) *sheet.Character {
	return SetBank(c, key, coin, float64(c.Bank(key).Get(coin))+delta)
}

// ConsumeCoinForMPRestore spends one coin from the personal bank to restore
// MP to max in a single update. It is refused when that coin's balance is
// zero.
func ConsumeCoinForMPRestore(c *sheet.Character, coin sheet.Coin) (*sheet.Character, bool) {
	balance := c.PersonalBank.Get(coin)
	if balance <= 0 || !slices.Contains(sheet.Coins, coin) {
		return c.Clone(), false
	}
	return apply(c, func(out *sheet.Character) {
		out.PersonalBank = out.PersonalBank.With(coin, balance-1)
		out.CurrentMP = out.MaxMP
	}), true
}

// SelectRestoreCoin keeps the selected coin while it has a balance, otherwise
// falls back to the first coin with a positive balance. When every balance
// is zero the selection is returned unchanged.
func SelectRestoreCoin(bank sheet.Bank, selected sheet.Coin) sheet.Coin {
	if bank.Get(selected) > 0 {
		return selected
	}
	for _, coin := range sheet.Coins {
		if bank.Get(coin) > 0 {
			return coin
		}
	}
	return selected
}

// SetPartyMember writes a roster name. Out of range slots are ignored.
func SetPartyMember(c *sheet.Character, index int, name string) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		if index >= 0 && index < sheet.PartySize {
			out.PartyMembers[index] = name
		}
	})
}

// SetPartyMemberCode writes a roster public code, normalized to uppercase
// alphanumerics. Out of range slots are ignored.
func SetPartyMemberCode(c *sheet.Character, index int, code string) *sheet.Character {
	return apply(c, func(out *sheet.Character) {
		if index >= 0 && index < sheet.PartySize {
			out.PartyMemberCodes[index] = sheet.NormalizeCode(code)
		}
	})
}

// clampDelta bounds an adjustment to what any vital can move, so adding it
// never overflows
func clampDelta(delta int) int {
	return max(-sheet.MaxVital, min(delta, sheet.MaxVital))
}

func clampVital(v, maxValue int) int {
	if v < 0 {
		return 0
	}
	if v > maxValue {
		return maxValue
	}
	return v
}

func floorCount(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= sheet.MaxCoins {
		return sheet.MaxCoins
	}
	return int(math.Floor(v))
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
