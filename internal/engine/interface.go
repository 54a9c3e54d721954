// Package engine derives the displayed and usable values of a character
// sheet from a normalized character and the library it references
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-sheet/internal/engine Engine

import (
	"context"
)

// Engine provides sheet calculations and damage rolls
type Engine interface {
	CalculateSheet(ctx context.Context, input *CalculateSheetInput) (*CalculateSheetOutput, error)
	RollDamage(ctx context.Context, input *RollDamageInput) (*RollDamageOutput, error)

	CalculateAbilityModifier(score int) int
}
