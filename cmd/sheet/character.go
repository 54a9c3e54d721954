package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

func (c *cli) characterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Create, edit and remove characters",
	}
	cmd.AddCommand(
		c.characterCreateCmd(),
		c.characterListCmd(),
		c.characterShowCmd(),
		c.characterEditCmd(),
		c.characterDeleteCmd(),
	)
	return cmd
}

func (c *cli) characterCreateCmd() *cobra.Command {
	var (
		draft   sheet.Draft
		rawJSON string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a character from flags or a JSON draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rawJSON != "" {
				if err := json.Unmarshal([]byte(rawJSON), &draft); err != nil {
					return errors.InvalidArgumentf("invalid draft json: %v", err)
				}
			}
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.CreateCharacter(ctx, &session.CreateCharacterInput{Draft: draft})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Character)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&draft.Name, "name", "", "character name")
	f.StringVar(&draft.Race, "race", "", "race; presets set base HP, MP and AC")
	f.StringVar(&draft.Subtype, "subtype", "", "race subtype")
	f.StringVar(&draft.Rank, "rank", "", "Bronze, Silver, Gold or Diamond")
	f.IntVar(&draft.Level, "level", 0, "starting level")
	f.IntVar(&draft.MaxHP, "max-hp", 0, "override the race max HP")
	f.IntVar(&draft.MaxMP, "max-mp", 0, "override the race max MP")
	f.StringVar(&rawJSON, "json", "", "full draft document; flags fill what it leaves out")
	return cmd
}

func (c *cli) characterListCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.ListCharacters(ctx, &session.ListCharactersInput{Query: query})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tRACE\tLEVEL\tHP\tMP\tCODE")
				for _, ch := range out.Characters {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%d/%d\t%s\n",
						ch.ID, ch.Name, ch.Race, ch.Level,
						ch.CurrentHP, ch.MaxHP, ch.CurrentMP, ch.MaxMP, ch.PublicCode)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name, race, subtype or rank")
	return cmd
}

func (c *cli) characterShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a character with derived stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.GetSheet(ctx, &session.GetSheetInput{ID: args[0]})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Sheet)
			})
		},
	}
}

func (c *cli) characterEditCmd() *cobra.Command {
	var (
		name, race, subtype, rank string
		partyName, mission, notes string
		level, maxHP, maxMP       int
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit profile fields; only the flags given change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var p sheet.Profile
			if f.Changed("name") {
				p.Name = &name
			}
			if f.Changed("race") {
				p.Race = &race
			}
			if f.Changed("subtype") {
				p.Subtype = &subtype
			}
			if f.Changed("rank") {
				p.Rank = &rank
			}
			if f.Changed("level") {
				p.Level = &level
			}
			if f.Changed("max-hp") {
				p.MaxHP = &maxHP
			}
			if f.Changed("max-mp") {
				p.MaxMP = &maxMP
			}
			if f.Changed("party-name") {
				p.PartyName = &partyName
			}
			if f.Changed("mission") {
				p.MissionDirective = &mission
			}
			if f.Changed("notes") {
				p.Notes = &notes
			}

			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.UpdateProfile(ctx, &session.UpdateProfileInput{ID: args[0], Profile: p})
				if err != nil {
					return err
				}
				return printJSON(cmd, out.Character)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "character name")
	f.StringVar(&race, "race", "", "race")
	f.StringVar(&subtype, "subtype", "", "race subtype")
	f.StringVar(&rank, "rank", "", "Bronze, Silver, Gold or Diamond")
	f.IntVar(&level, "level", 0, "level")
	f.IntVar(&maxHP, "max-hp", 0, "max HP")
	f.IntVar(&maxMP, "max-mp", 0, "max MP")
	f.StringVar(&partyName, "party-name", "", "party name")
	f.StringVar(&mission, "mission", "", "mission directive")
	f.StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func (c *cli) characterDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a character locally and remotely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				if _, err := s.DeleteCharacter(ctx, &session.DeleteCharacterInput{ID: args[0]}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
