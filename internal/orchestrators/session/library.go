package session

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// GetLibrary returns the library sorted for display and filtered by query
func (o *Orchestrator) GetLibrary(_ context.Context, input *GetLibraryInput) (*GetLibraryOutput, error) {
	if input == nil {
		input = &GetLibraryInput{}
	}

	o.mu.Lock()
	lib := o.library.Clone()
	o.mu.Unlock()

	return &GetLibraryOutput{
		Library: &sheet.Library{
			Spells:   sheet.Filter(sheet.SortSpells(lib.Spells), input.Query),
			Weapons:  sheet.Filter(sheet.SortByName(lib.Weapons), input.Query),
			Armor:    sheet.Filter(sheet.SortByName(lib.Armor), input.Query),
			Passives: sheet.Filter(sheet.SortByName(lib.Passives), input.Query),
		},
	}, nil
}

// UpsertLibraryItem normalizes a raw item and replaces the item with the same
// id, or adds it
func (o *Orchestrator) UpsertLibraryItem(
	ctx context.Context,
	input *UpsertLibraryItemInput,
) (*UpsertLibraryItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	lib := o.library.Clone()
	var (
		id   string
		item any
		key  string
		coll any
	)
	switch input.Kind {
	case KindSpell:
		spell := o.normalizer.Spell(input.Item)
		lib.Spells = sheet.Upsert(lib.Spells, spell)
		id, item, key, coll = spell.ID, spell, local.KeySpells, lib.Spells
	case KindWeapon:
		weapon := o.normalizer.Weapon(input.Item)
		lib.Weapons = sheet.Upsert(lib.Weapons, weapon)
		id, item, key, coll = weapon.ID, weapon, local.KeyWeapons, lib.Weapons
	case KindArmor:
		armor := o.normalizer.Armor(input.Item)
		lib.Armor = sheet.Upsert(lib.Armor, armor)
		id, item, key, coll = armor.ID, armor, local.KeyArmor, lib.Armor
	case KindPassive:
		passive := o.normalizer.Passive(input.Item)
		lib.Passives = sheet.Upsert(lib.Passives, passive)
		id, item, key, coll = passive.ID, passive, local.KeyPassives, lib.Passives
	default:
		return nil, errors.InvalidArgumentf("unknown library kind %q", input.Kind)
	}

	if err := o.write(ctx, key, coll); err != nil {
		return nil, err
	}
	o.library = lib

	slog.DebugContext(ctx, "library item saved",
		"kind", string(input.Kind),
		"id", id)

	return &UpsertLibraryItemOutput{ID: id, Item: item}, nil
}

// DeleteLibraryItem removes an item. Characters that reference it keep the
// dangling id.
func (o *Orchestrator) DeleteLibraryItem(
	ctx context.Context,
	input *DeleteLibraryItemInput,
) (*DeleteLibraryItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	lib := o.library.Clone()
	var (
		found bool
		key   string
		coll  any
	)
	switch input.Kind {
	case KindSpell:
		lib.Spells, found = sheet.Remove(lib.Spells, input.ID)
		key, coll = local.KeySpells, lib.Spells
	case KindWeapon:
		lib.Weapons, found = sheet.Remove(lib.Weapons, input.ID)
		key, coll = local.KeyWeapons, lib.Weapons
	case KindArmor:
		lib.Armor, found = sheet.Remove(lib.Armor, input.ID)
		key, coll = local.KeyArmor, lib.Armor
	case KindPassive:
		lib.Passives, found = sheet.Remove(lib.Passives, input.ID)
		key, coll = local.KeyPassives, lib.Passives
	default:
		return nil, errors.InvalidArgumentf("unknown library kind %q", input.Kind)
	}
	if !found {
		return nil, errors.NotFoundf("%s %s not found", input.Kind, input.ID)
	}

	if err := o.write(ctx, key, coll); err != nil {
		return nil, err
	}
	o.library = lib

	return &DeleteLibraryItemOutput{}, nil
}
