package testutils

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
)

const (
	// TestUserID is the default signed-in user for fixtures
	TestUserID = "user-test-001"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Thorin Oakenshield"
)

// CreateTestLibrary creates a small library covering every collection
func CreateTestLibrary() *sheet.Library {
	return &sheet.Library{
		Spells: []sheet.Spell{
			{ID: "spell-ember", Name: "Ember", Essence: "Fire", MPTier: sheet.MPTierLow, MPCost: 25, Damage: "1d6"},
			{ID: "spell-blaze", Name: "Blaze", Essence: "Fire", MPTier: sheet.MPTierMed, MPCost: 50, Damage: "2d8+2"},
			{ID: "spell-rime", Name: "Rime", Essence: "Ice", MPTier: sheet.MPTierHigh, MPCost: 100, Damage: "3d6"},
		},
		Weapons: []sheet.Weapon{
			{ID: "weapon-axe", Name: "Battle Axe", WeaponType: "Heavy", Damage: "1d10+2"},
		},
		Armor: []sheet.Armor{
			{ID: "armor-chain", Name: "Chain Shirt", ACBonus: 3, AbilityBonuses: map[sheet.Ability]int{}},
			{ID: "armor-titan", Name: "Titan Plate", ACBonus: 5, AbilityBonuses: map[sheet.Ability]int{sheet.AbilityStr: 2}},
		},
		Passives: []sheet.Passive{
			{ID: "passive-keen", Name: "Keen Senses", Description: "Never surprised"},
		},
	}
}

// CreateTestCharacter creates a normalized character with fixed identity
func CreateTestCharacter(id string) *sheet.Character {
	return builders.NewCharacterBuilder().
		WithID(id).
		WithPublicCode("C0DE" + id).
		WithName(TestCharacterName).
		Build()
}

// CreateTestRecord wraps a character in a remote row owned by userID
func CreateTestRecord(c *sheet.Character, userID string, updatedAt time.Time) *character.Record {
	data, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	return &character.Record{
		ID:         c.ID,
		UserID:     userID,
		PublicCode: c.PublicCode,
		Name:       c.Name,
		Data:       data,
		UpdatedAt:  updatedAt,
	}
}
