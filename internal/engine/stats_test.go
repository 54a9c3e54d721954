package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

func TestModifier(t *testing.T) {
	testCases := map[int]int{
		1:  -5,
		8:  -1,
		9:  -1,
		10: 0,
		11: 0,
		16: 3,
		20: 5,
		30: 10,
	}
	for score, want := range testCases {
		assert.Equal(t, want, engine.Modifier(score), "modifier(%d)", score)
	}
}

func TestModifierIsFloor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		score := rapid.IntRange(-100, 100).Draw(t, "score")
		m := engine.Modifier(score)
		// floor((score-10)/2) is the largest m with 2m <= score-10
		require.LessOrEqual(t, 2*m, score-10)
		require.Greater(t, 2*(m+1), score-10)
	})
}

type StatsTestSuite struct {
	suite.Suite
	lib       *sheet.Library
	character *sheet.Character
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func (s *StatsTestSuite) SetupTest() {
	s.lib = sheet.NewLibrary()
	s.lib.Armor = []sheet.Armor{
		{ID: "chain", Name: "Chain Shirt", ACBonus: 3, AbilityBonuses: map[sheet.Ability]int{}},
		{ID: "gauntlets", Name: "Ogre Gauntlets", ACBonus: 1, AbilityBonuses: map[sheet.Ability]int{
			sheet.AbilityStr: 6,
			sheet.AbilityDex: -2,
		}},
	}
	s.lib.Weapons = []sheet.Weapon{{ID: "axe", Name: "Axe", Damage: "1d8+2"}}
	s.lib.Spells = []sheet.Spell{
		{ID: "bolt", Name: "Bolt", Essence: "Storm", MPTier: sheet.MPTierMed, MPCost: 50},
		{ID: "spark", Name: "Spark", Essence: "Storm", MPTier: sheet.MPTierLow, MPCost: 25},
	}
	s.lib.Passives = []sheet.Passive{{ID: "keen", Name: "Keen Senses"}}

	s.character = sheet.NewNormalizer(nil, nil).NewCharacter(sheet.Draft{
		Name: "Ysolde",
		Race: "Human",
		Abilities: &sheet.Abilities{
			Str: 28, Dex: 16, Con: 12, Int: 9, Wis: 14, Cha: 10,
		},
		SkillProficiencies: map[sheet.Skill]bool{
			sheet.SkillStealth:    true,
			sheet.SkillPerception: true,
		},
		SaveProficiencies: map[sheet.Ability]bool{sheet.AbilityDex: true},
	})
}

func (s *StatsTestSuite) TestArmorClass() {
	s.Equal(14, engine.Calculate(s.character, s.lib).ArmorClass)

	s.character.EquippedArmorID = "chain"
	s.Equal(17, engine.Calculate(s.character, s.lib).ArmorClass)

	s.character.EquippedArmorID = ""
	s.Equal(14, engine.Calculate(s.character, s.lib).ArmorClass)
}

func (s *StatsTestSuite) TestArmorClassUsesRacePreset() {
	s.Equal(16, engine.ArmorClass("dwarf", nil))
	s.Equal(14, engine.ArmorClass("Half-Giant", nil))
	s.Equal(16, engine.ArmorClass("Elf", &sheet.Armor{ACBonus: 3}))
}

func (s *StatsTestSuite) TestSkillScores() {
	result := engine.Calculate(s.character, s.lib)

	// dex 16 -> +3
	s.Equal(engine.Score{Value: 6, Proficient: true}, result.Skills[sheet.SkillStealth])
	s.Equal(engine.Score{Value: 3}, result.Skills[sheet.SkillAcrobatics])
	// int 9 -> -1
	s.Equal(engine.Score{Value: -1}, result.Skills[sheet.SkillArcana])
	s.Len(result.Skills, len(sheet.AllSkills))
}

func (s *StatsTestSuite) TestSavesAndPassives() {
	result := engine.Calculate(s.character, s.lib)

	s.Equal(engine.Score{Value: 6, Proficient: true}, result.Saves[sheet.AbilityDex])
	s.Equal(engine.Score{Value: 9}, result.Saves[sheet.AbilityStr])

	// wis 14 -> +2
	s.Equal(15, result.Passives[sheet.SkillPerception])
	s.Equal(12, result.Passives[sheet.SkillInsight])
	// int 9 -> -1
	s.Equal(9, result.Passives[sheet.SkillInvestigation])
}

func (s *StatsTestSuite) TestArmorOverlayClampsTotals() {
	s.character.EquippedArmorID = "gauntlets"
	result := engine.Calculate(s.character, s.lib)

	str := result.Abilities[sheet.AbilityStr]
	s.Equal(28, str.Base)
	s.Equal(30, str.Total)
	s.Equal(2, str.Bonus)
	s.Equal(10, str.Modifier)

	dex := result.Abilities[sheet.AbilityDex]
	s.Equal(14, dex.Total)
	s.Equal(2, dex.Modifier)
	s.Equal(engine.Score{Value: 2}, result.Skills[sheet.SkillAcrobatics])
	s.Equal(15, result.ArmorClass)

	s.Equal(28, s.character.AbilitiesBase.Str, "base scores are never mutated")
}

func (s *StatsTestSuite) TestCastability() {
	s.character.CurrentMP = 40
	s.character.KnownSpellIDs = []string{"bolt", "spark"}

	result := engine.Calculate(s.character, s.lib)

	s.Require().Len(result.KnownSpells, 2)
	s.Equal("bolt", result.KnownSpells[0].ID)
	s.False(result.KnownSpells[0].Castable)
	s.True(result.KnownSpells[1].Castable)
}

func (s *StatsTestSuite) TestDanglingReferencesRenderAbsent() {
	s.character.EquippedWeaponID = "gone"
	s.character.EquippedArmorID = "also-gone"
	s.character.KnownSpellIDs = []string{"missing", "spark"}
	s.character.PassiveIDs = []string{"keen", "lost"}

	result := engine.Calculate(s.character, s.lib)

	s.Nil(result.Weapon)
	s.Nil(result.Armor)
	s.Equal(14, result.ArmorClass)
	s.Require().Len(result.KnownSpells, 1)
	s.Equal("spark", result.KnownSpells[0].ID)
	s.Equal([]string{"missing"}, result.MissingSpellIDs)
	s.Require().Len(result.PassiveTraits, 1)
	s.Equal("Keen Senses", result.PassiveTraits[0].Name)
	s.Equal([]string{"lost"}, result.MissingTraitIDs)
}

func (s *StatsTestSuite) TestEquippedWeaponResolves() {
	s.character.EquippedWeaponID = "axe"
	result := engine.Calculate(s.character, s.lib)
	s.Require().NotNil(result.Weapon)
	s.Equal("Axe", result.Weapon.Name)
}

func (s *StatsTestSuite) TestEngineCalculateSheet() {
	e, err := engine.New(&engine.Config{})
	s.Require().NoError(err)

	_, err = e.CalculateSheet(context.Background(), &engine.CalculateSheetInput{})
	s.Error(err)

	out, err := e.CalculateSheet(context.Background(), &engine.CalculateSheetInput{
		Character: s.character,
	})
	s.Require().NoError(err)
	s.Equal(14, out.Sheet.ArmorClass)
	s.Equal(sheet.ProficiencyBonus, out.Sheet.ProficiencyBonus)
}
