package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

func (c *cli) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the user's remote characters, then upload every local one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.UserID == "" {
				return errors.FailedPrecondition("no user configured; set --user or RPGSHEET_USER_ID")
			}
			if !c.cfg.RemoteEnabled() {
				return errors.FailedPrecondition("no remote store configured; set --redis or RPGSHEET_REDIS_ADDR")
			}

			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				in, err := s.SignIn(ctx, &session.SignInInput{UserID: c.cfg.UserID})
				if err != nil {
					return err
				}
				out, err := s.Sync(ctx)
				if err != nil {
					return err
				}
				if err := s.Flush(ctx); err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "pulled %d, pushed %d, uploaded %d\n", in.Pulled, in.Pushed, out.Queued)
				if msg := s.Status().Message; msg != "" {
					fmt.Fprintln(w, msg)
				}
				return nil
			})
		},
	}
}
