package actions_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/actions"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

type ActionsTestSuite struct {
	suite.Suite
	character *sheet.Character
}

func TestActionsSuite(t *testing.T) {
	suite.Run(t, new(ActionsTestSuite))
}

func (s *ActionsTestSuite) SetupTest() {
	n := sheet.NewNormalizer(idgen.NewSequential("char-"), idgen.NewSequential("CODE"))
	s.character = n.Character([]byte(`{
		"name": "Tamsin",
		"maxHp": 120, "currentHp": 90,
		"maxMp": 200, "currentMp": 40,
		"personalBank": {"bronze": 2}
	}`))
}

func (s *ActionsTestSuite) TestAdjustAndSetVitals() {
	s.Equal(120, actions.AdjustHP(s.character, 500).CurrentHP)
	s.Equal(0, actions.AdjustHP(s.character, -500).CurrentHP)
	s.Equal(80, actions.AdjustHP(s.character, -10).CurrentHP)
	s.Equal(7, actions.SetHP(s.character, 7).CurrentHP)
	s.Equal(0, actions.SetMP(s.character, -1).CurrentMP)
	s.Equal(200, actions.AdjustMP(s.character, 1000).CurrentMP)
	s.Equal(120, actions.HealFull(s.character).CurrentHP)
	s.Equal(200, actions.RestoreFull(s.character).CurrentMP)

	s.Equal(90, s.character.CurrentHP, "input is not modified")
}

func (s *ActionsTestSuite) TestExtremeAdjustmentsSaturate() {
	s.Equal(120, actions.AdjustHP(s.character, math.MaxInt).CurrentHP)
	s.Equal(0, actions.AdjustHP(s.character, math.MinInt).CurrentHP)
	s.Equal(200, actions.AdjustMP(s.character, math.MaxInt).CurrentMP)
	s.Equal(0, actions.AdjustMP(s.character, math.MinInt).CurrentMP)
}

func (s *ActionsTestSuite) TestCastSpell() {
	s.Run("rejected when short on MP", func() {
		out, applied := actions.CastSpell(s.character, sheet.Spell{ID: "s", MPCost: 50})
		s.False(applied)
		s.Equal(40, out.CurrentMP)
	})
	s.Run("pays the cost", func() {
		out, applied := actions.CastSpell(s.character, sheet.Spell{ID: "s", MPCost: 25})
		s.True(applied)
		s.Equal(15, out.CurrentMP)
	})
	s.Run("exact balance", func() {
		out, applied := actions.CastSpell(s.character, sheet.Spell{ID: "s", MPCost: 40})
		s.True(applied)
		s.Equal(0, out.CurrentMP)
	})
}

func (s *ActionsTestSuite) TestEquip() {
	out, applied := actions.Equip(s.character, sheet.SlotArmor, "not-in-library")
	s.True(applied)
	s.Equal("not-in-library", out.EquippedArmorID)

	out, applied = actions.Equip(out, sheet.SlotWeapon, "w1")
	s.True(applied)
	s.Equal("w1", out.EquippedWeaponID)
	s.Equal("not-in-library", out.EquippedArmorID)

	_, applied = actions.Equip(out, sheet.SlotWeapon, "  ")
	s.False(applied)

	_, applied = actions.Equip(out, sheet.Slot("ring"), "r1")
	s.False(applied)

	out = actions.Unequip(out, sheet.SlotArmor)
	s.Empty(out.EquippedArmorID)
	s.Equal("w1", out.EquippedWeaponID)
}

func (s *ActionsTestSuite) TestKnownSpellsPrependAsSet() {
	out := actions.AddKnownSpell(s.character, "a")
	out = actions.AddKnownSpell(out, "b")
	out = actions.AddKnownSpell(out, "a")
	s.Equal([]string{"b", "a"}, out.KnownSpellIDs)

	out = actions.RemoveKnownSpell(out, "b")
	s.Equal([]string{"a"}, out.KnownSpellIDs)
	out = actions.RemoveKnownSpell(out, "zzz")
	s.Equal([]string{"a"}, out.KnownSpellIDs)
}

func (s *ActionsTestSuite) TestPassivesAppendAsSet() {
	out := actions.AddPassive(s.character, "a")
	out = actions.AddPassive(out, "b")
	out = actions.AddPassive(out, "b")
	s.Equal([]string{"a", "b"}, out.PassiveIDs)

	out = actions.RemovePassive(out, "a")
	s.Equal([]string{"b"}, out.PassiveIDs)
}

func (s *ActionsTestSuite) TestBank() {
	out := actions.SetBank(s.character, sheet.BankParty, sheet.CoinGold, 7.9)
	s.Equal(7, out.PartyBank.Gold)
	s.Equal(0, out.PersonalBank.Gold)

	out = actions.BumpBank(out, sheet.BankParty, sheet.CoinGold, -10)
	s.Equal(0, out.PartyBank.Gold)

	out = actions.BumpBank(out, sheet.BankPersonal, sheet.CoinBronze, 3)
	s.Equal(5, out.PersonalBank.Bronze)

	out = actions.SetBank(out, sheet.BankPersonal, sheet.CoinDiamond, math.NaN())
	s.Equal(0, out.PersonalBank.Diamond)

	out = actions.SetBank(out, sheet.BankPersonal, sheet.CoinSilver, math.Inf(1))
	s.Equal(sheet.MaxCoins, out.PersonalBank.Silver)
}

func (s *ActionsTestSuite) TestConsumeCoinForMPRestore() {
	out, applied := actions.ConsumeCoinForMPRestore(s.character, sheet.CoinBronze)
	s.True(applied)
	s.Equal(1, out.PersonalBank.Bronze)
	s.Equal(200, out.CurrentMP)

	out, applied = actions.ConsumeCoinForMPRestore(s.character, sheet.CoinSilver)
	s.False(applied)
	s.Equal(0, out.PersonalBank.Silver)
	s.Equal(2, out.PersonalBank.Bronze)
	s.Equal(40, out.CurrentMP)
}

func (s *ActionsTestSuite) TestSelectRestoreCoin() {
	bank := sheet.Bank{Silver: 0, Gold: 3, Diamond: 1}
	s.Equal(sheet.CoinDiamond, actions.SelectRestoreCoin(bank, sheet.CoinDiamond))
	s.Equal(sheet.CoinGold, actions.SelectRestoreCoin(bank, sheet.CoinSilver))
	s.Equal(sheet.CoinBronze, actions.SelectRestoreCoin(sheet.Bank{}, sheet.CoinBronze))
}

func (s *ActionsTestSuite) TestPartyRoster() {
	out := actions.SetPartyMember(s.character, 2, "  Orla ")
	s.Equal([sheet.PartySize]string{"", "", "Orla", ""}, out.PartyMembers)

	out = actions.SetPartyMemberCode(out, 0, "ab-cd 12")
	s.Equal("ABCD12", out.PartyMemberCodes[0])

	same := actions.SetPartyMember(out, 4, "nobody")
	s.Equal(out.PartyMembers, same.PartyMembers)
	same = actions.SetPartyMemberCode(out, -1, "X")
	s.Equal(out.PartyMemberCodes, same.PartyMemberCodes)
}

func TestActionsPreserveBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := sheet.NormalizeCharacter([]byte(`{"maxHp":50,"maxMp":80}`))
		for i := 0; i < 20; i++ {
			switch rapid.IntRange(0, 5).Draw(t, "op") {
			case 0:
				c = actions.AdjustHP(c, rapid.IntRange(-200, 200).Draw(t, "hp"))
			case 1:
				c = actions.AdjustMP(c, rapid.IntRange(-200, 200).Draw(t, "mp"))
			case 2:
				cost := rapid.SampledFrom(sheet.MPTiers).Draw(t, "tier").Cost()
				c, _ = actions.CastSpell(c, sheet.Spell{MPCost: cost})
			case 3:
				c = actions.BumpBank(c, sheet.BankPersonal, sheet.CoinBronze, float64(rapid.IntRange(-5, 5).Draw(t, "coins")))
			case 4:
				c, _ = actions.ConsumeCoinForMPRestore(c, sheet.CoinBronze)
			case 5:
				c = actions.RestoreFull(c)
			}
			require.True(t, c.CurrentHP >= 0 && c.CurrentHP <= c.MaxHP)
			require.True(t, c.CurrentMP >= 0 && c.CurrentMP <= c.MaxMP)
			require.GreaterOrEqual(t, c.PersonalBank.Bronze, 0)
		}
	})
}
