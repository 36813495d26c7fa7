package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/NuZard84/go-speedtype/internal/terminal"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Take a typing test in the terminal",
		Long:  "Take a 60 second typing test in the terminal. Each line you enter is added to your typed text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ctrl := game.NewController("terminal", appCtx.provider, appCtx.cfg.TickInterval, appCtx.logger)
			defer ctrl.Close()

			_, err := terminal.Play(ctx, ctrl, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
