package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

// libraryCmd builds the add/list/delete commands for one library kind
func (c *cli) libraryCmd(kind session.LibraryKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage %s entries in the library", kind),
	}
	cmd.AddCommand(
		c.libraryAddCmd(kind),
		c.libraryListCmd(kind),
		c.libraryDeleteCmd(kind),
	)
	return cmd
}

func (c *cli) libraryAddCmd(kind session.LibraryKind) *cobra.Command {
	return &cobra.Command{
		Use:   "add <json|->",
		Short: fmt.Sprintf("Add or replace a %s from a JSON document; - reads stdin", kind),
		Example: fmt.Sprintf(
			`  sheet spell add '{"name":"Ember","essence":"Fire","mpTier":"Low","damage":"1d6"}'
  sheet %s add - < item.json`, kind),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := []byte(args[0])
			if args[0] == "-" {
				var err error
				if doc, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return errors.Wrap(err, "failed to read stdin")
				}
			}
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.UpsertLibraryItem(ctx, &session.UpsertLibraryItemInput{Kind: kind, Item: doc})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Item)
			})
		},
	}
}

func (c *cli) libraryListCmd(kind session.LibraryKind) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s entries in display order", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.GetLibrary(ctx, &session.GetLibraryInput{Query: query})
				if err != nil {
					return err
				}
				return printLibrary(cmd.OutOrStdout(), kind, out.Library)
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive filter")
	return cmd
}

func (c *cli) libraryDeleteCmd(kind session.LibraryKind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s; characters keep their dangling reference", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				_, err := s.DeleteLibraryItem(ctx, &session.DeleteLibraryItemInput{Kind: kind, ID: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", kind, args[0])
				return nil
			})
		},
	}
}

func printLibrary(out io.Writer, kind session.LibraryKind, lib *sheet.Library) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	switch kind {
	case session.KindSpell:
		fmt.Fprintln(w, "ID\tNAME\tESSENCE\tTIER\tMP\tDAMAGE")
		for _, sp := range lib.Spells {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", sp.ID, sp.Name, sp.Essence, sp.MPTier, sp.MPCost, sp.Damage)
		}
	case session.KindWeapon:
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tDAMAGE")
		for _, wp := range lib.Weapons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", wp.ID, wp.Name, wp.WeaponType, wp.Damage)
		}
	case session.KindArmor:
		fmt.Fprintln(w, "ID\tNAME\tAC\tBONUSES")
		for _, a := range lib.Armor {
			bonuses := make([]string, 0, len(a.AbilityBonuses))
			for _, ab := range sheet.AllAbilities {
				if v := a.AbilityBonuses[ab]; v != 0 {
					bonuses = append(bonuses, fmt.Sprintf("%s%+d", ab, v))
				}
			}
			fmt.Fprintf(w, "%s\t%s\t+%d\t%s\n", a.ID, a.Name, a.ACBonus, strings.Join(bonuses, " "))
		}
	case session.KindPassive:
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, p := range lib.Passives {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
		}
	}
	return w.Flush()
}
