package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
)

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <public-code>",
		Short: "Follow another character's vitals live until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session.Orchestrator) error {
				out, err := s.Watch(ctx, &session.WatchInput{Code: args[0]})
				if err != nil {
					return err
				}
				view := out.View
				w := cmd.OutOrStdout()

				printVitals(w, view.Code(), view.Current())
				for {
					select {
					case <-ctx.Done():
						view.Close()
						return nil
					case ch, ok := <-view.Updates():
						if !ok {
							return nil
						}
						printVitals(w, view.Code(), ch)
					}
				}
			})
		},
	}
}

func printVitals(w io.Writer, code string, c *sheet.Character) {
	v := c.Vitals()
	fmt.Fprintf(w, "%s %s [%s] L%d  HP %d/%d  MP %d/%d\n",
		time.Now().Format(time.TimeOnly), v.Name, code, v.Level,
		v.CurrentHP, v.MaxHP, v.CurrentMP, v.MaxMP)
}
