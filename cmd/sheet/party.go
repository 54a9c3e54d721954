package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

func (c *cli) partyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "party",
		Short: "Party roster and public code lookups",
	}
	cmd.AddCommand(c.partyLookupCmd(), c.partySetCmd(), c.partyCodeCmd())
	return cmd
}

func (c *cli) partyLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <id>",
		Short: "Look up every roster code of a character in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				var mu sync.Mutex
				out, err := s.LookupParty(ctx, &session.LookupPartyInput{
					CharacterID: args[0],
					OnSlot: func(i int, slot session.PartySlot) {
						if slot.State != session.SlotLoading {
							return
						}
						mu.Lock()
						defer mu.Unlock()
						fmt.Fprintf(cmd.ErrOrStderr(), "slot %d: looking up %s\n", i+1, slot.Code)
					},
				})
				if err != nil {
					return err
				}
				for i, slot := range out.Slots {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, describeSlot(slot))
				}
				return nil
			})
		},
	}
}

func describeSlot(slot session.PartySlot) string {
	switch slot.State {
	case session.SlotEmpty:
		return "-"
	case session.SlotFound:
		v := slot.Vitals
		return fmt.Sprintf("%s [%s] %s L%d  HP %d/%d  MP %d/%d",
			v.Name, slot.Code, v.Race, v.Level, v.CurrentHP, v.MaxHP, v.CurrentMP, v.MaxMP)
	default:
		return fmt.Sprintf("[%s] %s", slot.Code, slot.Message)
	}
}

func (c *cli) partySetCmd() *cobra.Command {
	var name, code, partyName string
	cmd := &cobra.Command{
		Use:   "set <id> <slot 1-4>",
		Short: "Set the name and public code of a roster slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil || slot < 1 || slot > sheet.PartySize {
				return errors.InvalidArgumentf("slot must be between 1 and %d", sheet.PartySize)
			}
			f := cmd.Flags()

			var mutations []session.Mutation
			if f.Changed("name") {
				mutations = append(mutations, session.SetPartyMember(slot-1, name))
			}
			if f.Changed("code") {
				mutations = append(mutations, session.SetPartyMemberCode(slot-1, code))
			}
			if f.Changed("party-name") {
				mutations = append(mutations, session.SetPartyName(partyName))
			}
			if len(mutations) == 0 {
				return errors.InvalidArgument("nothing to set; pass --name, --code or --party-name")
			}

			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				var ch *sheet.Character
				for _, m := range mutations {
					out, err := s.Apply(ctx, &session.ApplyInput{CharacterID: args[0], Mutation: m})
					if err != nil {
						return err
					}
					ch = out.Character
				}
				return printJSON(cmd, map[string]any{
					"partyName":        ch.PartyName,
					"partyMembers":     ch.PartyMembers,
					"partyMemberCodes": ch.PartyMemberCodes,
				})
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "member display name")
	f.StringVar(&code, "code", "", "member public code")
	f.StringVar(&partyName, "party-name", "", "party name")
	return cmd
}

func (c *cli) partyCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code <public-code>",
		Short: "Show the public vitals behind a code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.LookupCode(ctx, &session.LookupCodeInput{Code: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Vitals)
			})
		},
	}
}
