package sheet

import "slices"

// Library is the user-authored set of spells, weapons, armor and passives
// that characters reference by id
type Library struct {
	Spells   []Spell   `json:"spells"`
	Weapons  []Weapon  `json:"weapons"`
	Armor    []Armor   `json:"armor"`
	Passives []Passive `json:"passives"`
}

// NewLibrary returns an empty library with non-nil collections
func NewLibrary() *Library {
	return &Library{
		Spells:   []Spell{},
		Weapons:  []Weapon{},
		Armor:    []Armor{},
		Passives: []Passive{},
	}
}

// Clone returns a copy whose collections can be modified independently
func (l *Library) Clone() *Library {
	if l == nil {
		return NewLibrary()
	}
	out := &Library{
		Spells:   slices.Clone(l.Spells),
		Weapons:  slices.Clone(l.Weapons),
		Armor:    make([]Armor, len(l.Armor)),
		Passives: slices.Clone(l.Passives),
	}
	for i, a := range l.Armor {
		bonuses := make(map[Ability]int, len(a.AbilityBonuses))
		for k, v := range a.AbilityBonuses {
			bonuses[k] = v
		}
		a.AbilityBonuses = bonuses
		out.Armor[i] = a
	}
	if out.Spells == nil {
		out.Spells = []Spell{}
	}
	if out.Weapons == nil {
		out.Weapons = []Weapon{}
	}
	if out.Passives == nil {
		out.Passives = []Passive{}
	}
	return out
}

// Spell looks up a spell. A dangling id resolves to false.
func (l *Library) Spell(id string) (Spell, bool) { return find(l.Spells, id) }

// Weapon looks up a weapon
func (l *Library) Weapon(id string) (Weapon, bool) { return find(l.Weapons, id) }

// ArmorPiece looks up an armor piece
func (l *Library) ArmorPiece(id string) (Armor, bool) { return find(l.Armor, id) }

// Passive looks up a passive
func (l *Library) Passive(id string) (Passive, bool) { return find(l.Passives, id) }

type identified interface {
	GetID() string
}

func find[T identified](items []T, id string) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	return zero, false
}

// Upsert replaces the item with the same id or appends it
func Upsert[T identified](items []T, item T) []T {
	out := slices.Clone(items)
	for i, existing := range out {
		if existing.GetID() == item.GetID() {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

// Remove drops the item with id. found is false when nothing matched.
func Remove[T identified](items []T, id string) (out []T, found bool) {
	out = make([]T, 0, len(items))
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	return out, found
}
