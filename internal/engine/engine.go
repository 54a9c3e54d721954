package engine

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

type engine struct{}

// Config configures the engine. It has no dependencies today.
type Config struct{}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	return nil
}

// New creates an engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &engine{}, nil
}

func (e *engine) CalculateAbilityModifier(score int) int {
	return Modifier(score)
}

func (e *engine) CalculateSheet(
	ctx context.Context,
	input *CalculateSheetInput,
) (*CalculateSheetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	return &CalculateSheetOutput{Sheet: Calculate(input.Character, input.Library)}, nil
}

func (e *engine) RollDamage(
	ctx context.Context,
	input *RollDamageInput,
) (*RollDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	expr, err := ParseDamage(input.Damage)
	if err != nil {
		return nil, err
	}

	total, description, err := expr.Roll()
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "rolled damage",
		"expression", expr.String(),
		"total", total)

	return &RollDamageOutput{
		Expression:  expr,
		Total:       total,
		Description: description,
	}, nil
}
