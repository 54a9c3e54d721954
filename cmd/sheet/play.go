package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

func (c *cli) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play-time changes to a character",
		Long: `Play commands change one character and report whether the change was
applied. A refused change (not enough MP, unknown spell, no coins) leaves
the character untouched and is not an error.

Negative amounts go after --, as in: sheet play hp <id> -- -5`,
	}

	cmd.AddCommand(
		c.mutationCmd("cast <id> <spell-id>", "Cast a library spell, paying its MP cost", 2,
			func(args []string) (session.Mutation, error) {
				return session.CastSpell(args[1]), nil
			}),
		c.mutationCmd("hp <id> <n|+n|-n|full>", "Set, adjust or refill HP", 2,
			func(args []string) (session.Mutation, error) {
				return vitalsMutation(args[1], session.SetHP, session.AdjustHP, session.HealFull)
			}),
		c.mutationCmd("mp <id> <n|+n|-n|full>", "Set, adjust or refill MP", 2,
			func(args []string) (session.Mutation, error) {
				return vitalsMutation(args[1], session.SetMP, session.AdjustMP, session.RestoreFull)
			}),
		c.mutationCmd("rest <id>", "Refill HP and MP", 1,
			func([]string) (session.Mutation, error) {
				return session.Rest(), nil
			}),
		c.mutationCmd("equip <id> <weapon|armor> <item-id>", "Equip a library item", 3,
			func(args []string) (session.Mutation, error) {
				slot, err := parseSlot(args[1])
				if err != nil {
					return session.Mutation{}, err
				}
				return session.Equip(slot, args[2]), nil
			}),
		c.mutationCmd("unequip <id> <weapon|armor>", "Empty an equipment slot", 2,
			func(args []string) (session.Mutation, error) {
				slot, err := parseSlot(args[1])
				if err != nil {
					return session.Mutation{}, err
				}
				return session.Unequip(slot), nil
			}),
		c.mutationCmd("learn <id> <spell-id>", "Add a spell to the known spells", 2,
			func(args []string) (session.Mutation, error) {
				return session.LearnSpell(args[1]), nil
			}),
		c.mutationCmd("forget <id> <spell-id>", "Remove a spell from the known spells", 2,
			func(args []string) (session.Mutation, error) {
				return session.ForgetSpell(args[1]), nil
			}),
		c.mutationCmd("trait <id> <passive-id>", "Add a passive trait", 2,
			func(args []string) (session.Mutation, error) {
				return session.AddPassive(args[1]), nil
			}),
		c.mutationCmd("untrait <id> <passive-id>", "Remove a passive trait", 2,
			func(args []string) (session.Mutation, error) {
				return session.RemovePassive(args[1]), nil
			}),
		c.mutationCmd("bank <id> <personal|party> <coin> <n|+n|-n>", "Set or adjust a coin count", 4,
			func(args []string) (session.Mutation, error) {
				key, ok := sheet.ParseBankKey(args[1])
				if !ok {
					return session.Mutation{}, errors.InvalidArgumentf("unknown bank %q", args[1])
				}
				coin, err := parseCoin(args[2])
				if err != nil {
					return session.Mutation{}, err
				}
				amt, err := parseAmount(args[3])
				if err != nil || amt.full {
					return session.Mutation{}, errors.InvalidArgumentf("invalid coin amount %q", args[3])
				}
				if amt.relative {
					return session.BumpBank(key, coin, amt.value), nil
				}
				return session.SetBank(key, coin, amt.value), nil
			}),
		c.rollCmd(),
	)

	restore := c.mutationCmd("restore <id> [coin]", "Spend one personal coin to restore MP", 2,
		func(args []string) (session.Mutation, error) {
			if len(args) < 2 {
				return session.RestoreMPWithCoin(""), nil
			}
			coin, err := parseCoin(args[1])
			if err != nil {
				return session.Mutation{}, err
			}
			return session.RestoreMPWithCoin(coin), nil
		})
	restore.Args = cobra.RangeArgs(1, 2)
	cmd.AddCommand(restore)
	return cmd
}

// mutationCmd builds a command whose first argument is the character id and
// whose remaining arguments build the mutation
func (c *cli) mutationCmd(
	use, short string, nargs int,
	build func(args []string) (session.Mutation, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mutation, err := build(args)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.Apply(ctx, &session.ApplyInput{CharacterID: args[0], Mutation: mutation})
				if err != nil {
					return err
				}
				ch := out.Character
				status := "applied"
				if !out.Applied {
					status = "refused"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (HP %d/%d, MP %d/%d)\n",
					mutation.Name, status, ch.CurrentHP, ch.MaxHP, ch.CurrentMP, ch.MaxMP)
				return nil
			})
		},
	}
}

func (c *cli) rollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll <spell|weapon> <item-id>",
		Short: "Roll the damage of a spell or weapon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.RollDamage(ctx, &session.RollDamageInput{
					Kind:   session.LibraryKind(strings.ToLower(args[0])),
					ItemID: args[1],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d (%s)\n", out.Item, out.Result.Total, out.Result.Description)
				return nil
			})
		},
	}
}

// amount is a parsed "n", "+n", "-n" or "full" argument
type amount struct {
	value    float64
	relative bool
	full     bool
}

func parseAmount(s string) (amount, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "full") {
		return amount{full: true}, nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return amount{}, errors.InvalidArgumentf("invalid amount %q", s)
	}
	return amount{
		value:    value,
		relative: strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"),
	}, nil
}

func vitalsMutation(
	arg string,
	set func(int) session.Mutation,
	adjust func(int) session.Mutation,
	full func() session.Mutation,
) (session.Mutation, error) {
	amt, err := parseAmount(arg)
	if err != nil {
		return session.Mutation{}, err
	}
	value := int(max(-sheet.MaxVital, min(amt.value, sheet.MaxVital)))
	switch {
	case amt.full:
		return full(), nil
	case amt.relative:
		return adjust(value), nil
	default:
		return set(value), nil
	}
}

func parseSlot(s string) (sheet.Slot, error) {
	slot, ok := sheet.ParseSlot(s)
	if !ok {
		return "", errors.InvalidArgumentf("unknown slot %q", s)
	}
	return slot, nil
}

func parseCoin(s string) (sheet.Coin, error) {
	coin, ok := sheet.ParseCoin(s)
	if !ok {
		return "", errors.InvalidArgumentf("unknown coin %q", s)
	}
	return coin, nil
}
