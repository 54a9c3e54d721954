package session

import (
	"context"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/local"
)

// CreateCharacter builds a character from a draft and adds it to the top of
// the list
func (o *Orchestrator) CreateCharacter(
	ctx context.Context,
	input *CreateCharacterInput,
) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	c := o.normalizer.NewCharacter(input.Draft)

	o.mu.Lock()
	defer o.mu.Unlock()

	list := append([]*sheet.Character{c}, o.characters...)
	if err := o.write(ctx, local.KeyCharacters, list); err != nil {
		return nil, err
	}
	o.characters = list
	o.queueUpsert(ctx, c)

	slog.InfoContext(ctx, "character created",
		"character_id", c.ID,
		"public_code", c.PublicCode)

	return &CreateCharacterOutput{Character: c.Clone()}, nil
}

// ListCharacters returns the characters in list order, filtered by query
func (o *Orchestrator) ListCharacters(_ context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		input = &ListCharactersInput{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	matched := sheet.Filter(o.characters, input.Query)
	out := make([]*sheet.Character, len(matched))
	for i, c := range matched {
		out[i] = c.Clone()
	}
	return &ListCharactersOutput{Characters: out}, nil
}

// GetCharacter returns one character
func (o *Orchestrator) GetCharacter(_ context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	c, err := o.find(input.ID)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: c.Clone()}, nil
}

// UpdateProfile applies a partial profile edit
func (o *Orchestrator) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*UpdateProfileOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	c, err := o.find(input.ID)
	if err != nil {
		return nil, err
	}
	updated := o.normalizer.ApplyProfile(c, input.Profile)
	if err := o.commit(ctx, updated); err != nil {
		return nil, err
	}
	return &UpdateProfileOutput{Character: updated.Clone()}, nil
}

// DeleteCharacter removes a character locally and, when signed in, remotely
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	i := o.indexOf(input.ID)
	if i < 0 {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}

	list := slices.Delete(slices.Clone(o.characters), i, i+1)
	if err := o.write(ctx, local.KeyCharacters, list); err != nil {
		return nil, err
	}
	o.characters = list
	o.queueDelete(ctx, input.ID)

	slog.InfoContext(ctx, "character deleted", "character_id", input.ID)

	return &DeleteCharacterOutput{}, nil
}

// GetSheet derives the displayed sheet of a character against the current
// library
func (o *Orchestrator) GetSheet(ctx context.Context, input *GetSheetInput) (*GetSheetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	c, err := o.find(input.ID)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	c = c.Clone()
	lib := o.library.Clone()
	o.mu.Unlock()

	out, err := o.engine.CalculateSheet(ctx, &engine.CalculateSheetInput{Character: c, Library: lib})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to calculate sheet for %s", input.ID)
	}
	return &GetSheetOutput{Sheet: out.Sheet}, nil
}

// Apply runs a mutation. A refused mutation is reported with Applied false
// and is not persisted.
func (o *Orchestrator) Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Mutation.apply == nil {
		return nil, errors.InvalidArgument("mutation is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	c, err := o.find(input.CharacterID)
	if err != nil {
		return nil, err
	}

	updated, applied := input.Mutation.apply(c.Clone(), o.library)
	if !applied {
		slog.DebugContext(ctx, "mutation refused",
			"character_id", c.ID,
			"mutation", input.Mutation.Name)
		return &ApplyOutput{Character: c.Clone(), Applied: false}, nil
	}

	if err := o.commit(ctx, updated); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "mutation applied",
		"character_id", c.ID,
		"mutation", input.Mutation.Name)

	return &ApplyOutput{Character: updated.Clone(), Applied: true}, nil
}

// RollDamage rolls the damage text of a library spell or weapon
func (o *Orchestrator) RollDamage(ctx context.Context, input *RollDamageInput) (*RollDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	var (
		name, damage string
		ok           bool
	)
	switch input.Kind {
	case KindSpell:
		var spell sheet.Spell
		spell, ok = o.library.Spell(input.ItemID)
		name, damage = spell.Name, spell.Damage
	case KindWeapon:
		var weapon sheet.Weapon
		weapon, ok = o.library.Weapon(input.ItemID)
		name, damage = weapon.Name, weapon.Damage
	default:
		o.mu.Unlock()
		return nil, errors.InvalidArgumentf("%q items have no damage", input.Kind)
	}
	o.mu.Unlock()

	if !ok {
		return nil, errors.NotFoundf("%s %s not found", input.Kind, input.ItemID)
	}

	out, err := o.engine.RollDamage(ctx, &engine.RollDamageInput{Damage: damage})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll damage for %s", name)
	}
	return &RollDamageOutput{Item: name, Result: out}, nil
}

// find returns the stored character. Callers hold o.mu.
func (o *Orchestrator) find(id string) (*sheet.Character, error) {
	if id == "" {
		return nil, errors.InvalidArgument("character id is required")
	}
	i := o.indexOf(id)
	if i < 0 {
		return nil, errors.NotFoundf("character %s not found", id)
	}
	return o.characters[i], nil
}

// commit replaces a character in place, saves the list and queues the remote
// upsert. Callers hold o.mu.
func (o *Orchestrator) commit(ctx context.Context, c *sheet.Character) error {
	list := slices.Clone(o.characters)
	if i := o.indexOf(c.ID); i >= 0 {
		list[i] = c
	} else {
		list = append([]*sheet.Character{c}, list...)
	}

	if err := o.write(ctx, local.KeyCharacters, list); err != nil {
		return err
	}
	o.characters = list
	o.queueUpsert(ctx, c)
	return nil
}
