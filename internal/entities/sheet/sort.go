package sheet

import (
	"slices"
	"strconv"
	"strings"
)

// Named is any library entity with a display name
type Named interface {
	GetName() string
}

// SortSpells orders spells by essence, then MP cost, then name. Essence and
// name compare case-insensitively. The input is not modified.
func SortSpells(spells []Spell) []Spell {
	out := slices.Clone(spells)
	slices.SortStableFunc(out, func(a, b Spell) int {
		if c := strings.Compare(strings.ToLower(a.Essence), strings.ToLower(b.Essence)); c != 0 {
			return c
		}
		if a.MPCost != b.MPCost {
			return a.MPCost - b.MPCost
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// SortByName orders library entities by name, case-insensitively. The input
// is not modified.
func SortByName[T Named](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return strings.Compare(strings.ToLower(a.GetName()), strings.ToLower(b.GetName()))
	})
	return out
}

// Searchable exposes the user-visible text of an entity
type Searchable interface {
	SearchFields() []string
}

// Filter keeps items where any visible field contains query,
// case-insensitively. A blank query keeps everything.
func Filter[T Searchable](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q == "" || matches(item.SearchFields(), q) {
			out = append(out, item)
		}
	}
	return out
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// SearchFields implements Searchable
func (s Spell) SearchFields() []string {
	return []string{s.Name, s.Essence, string(s.MPTier), strconv.Itoa(s.MPCost), s.Damage, s.Range, s.Description}
}

// SearchFields implements Searchable
func (w Weapon) SearchFields() []string {
	return []string{w.Name, w.WeaponType, w.Damage}
}

// SearchFields implements Searchable
func (a Armor) SearchFields() []string {
	fields := []string{a.Name, strconv.Itoa(a.ACBonus), a.Effect}
	for _, ability := range AllAbilities {
		if bonus, ok := a.AbilityBonuses[ability]; ok {
			fields = append(fields, string(ability)+" "+strconv.Itoa(bonus))
		}
	}
	return fields
}

// SearchFields implements Searchable
func (p Passive) SearchFields() []string {
	return []string{p.Name, p.Description}
}

// SearchFields implements Searchable
func (c *Character) SearchFields() []string {
	return []string{c.Name, c.Race, c.Subtype, string(c.Rank), c.PartyName, strconv.Itoa(c.Level)}
}
