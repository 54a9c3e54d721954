package session

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
)

const (
	notFoundMessage    = "Not found"
	errorMessagePrefix = "Error: "
)

// LookupCode returns the public vitals of the character holding a code.
// Public lookups need a remote store but no signed-in user.
func (o *Orchestrator) LookupCode(ctx context.Context, input *LookupCodeInput) (*LookupCodeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	code := sheet.NormalizeCode(input.Code)
	if code == "" {
		return nil, errors.InvalidArgument("code is required")
	}
	if o.remoteRepo == nil {
		return nil, errors.Unavailable("remote store is not configured")
	}

	found, err := o.remoteRepo.FindByPublicCode(ctx, characterrepo.FindByPublicCodeInput{Code: code})
	if err != nil {
		return nil, err
	}

	c := o.normalizer.Character(found.Record.Data)
	return &LookupCodeOutput{Vitals: c.Vitals()}, nil
}

// LookupParty looks up every roster code of a character in parallel. A
// failing slot never affects the others.
func (o *Orchestrator) LookupParty(ctx context.Context, input *LookupPartyInput) (*LookupPartyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	c, err := o.find(input.CharacterID)
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	codes := c.PartyMemberCodes
	o.mu.Unlock()

	report := input.OnSlot
	if report == nil {
		report = func(int, PartySlot) {}
	}

	out := &LookupPartyOutput{}
	g, gctx := errgroup.WithContext(ctx)
	for i, code := range codes {
		if code == "" {
			out.Slots[i] = PartySlot{State: SlotEmpty}
			continue
		}

		report(i, PartySlot{Code: code, State: SlotLoading})
		g.Go(func() error {
			slot := o.lookupSlot(gctx, code)
			// each goroutine owns its own index
			out.Slots[i] = slot
			report(i, slot)
			return nil
		})
	}
	_ = g.Wait()

	slog.DebugContext(ctx, "party lookup finished",
		"character_id", input.CharacterID)

	return out, nil
}

func (o *Orchestrator) lookupSlot(ctx context.Context, code string) PartySlot {
	found, err := o.LookupCode(ctx, &LookupCodeInput{Code: code})
	switch {
	case err == nil:
		vitals := found.Vitals
		return PartySlot{Code: code, State: SlotFound, Vitals: &vitals}
	case errors.IsNotFound(err):
		return PartySlot{Code: code, State: SlotNotFound, Message: notFoundMessage}
	default:
		slog.WarnContext(ctx, "party lookup failed",
			"code", code,
			"error", err.Error())
		return PartySlot{Code: code, State: SlotError, Message: errorMessagePrefix + errors.GetMessage(err)}
	}
}
