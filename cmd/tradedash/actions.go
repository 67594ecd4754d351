package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradedash/internal/action"
)

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio [value]",
		Short: "Set the bot's portfolio value",
		Long:  "Set the bot's portfolio value. Without an argument the current value is fetched and offered as the prompt default.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			api := newAPIClient(cfg, newClientID())
			d := action.NewDispatcher(api, action.SurveyPrompter{})

			if len(args) == 1 {
				err = d.SetPortfolio(ctx, args[0])
			} else {
				current := 0.0
				if state, ferr := api.FetchState(ctx); ferr == nil {
					current = state.BotState.Value.Portfolio.Or(0)
				}
				err = d.EditPortfolio(ctx, current)
			}
			if errors.Is(err, action.ErrCancelled) {
				return nil
			}
			return err
		},
	}
}

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Toggle the bot between paused and running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			d := action.NewDispatcher(newAPIClient(cfg, newClientID()), nil)
			paused, err := d.TogglePause(cmd.Context())
			if err != nil {
				return err
			}
			if paused {
				fmt.Fprintln(cmd.OutOrStdout(), "Bot paused")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Bot resumed")
			}
			return nil
		},
	}
}

func newCloseAllCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "close-all",
		Short: "Close every open position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			d := action.NewDispatcher(newAPIClient(cfg, newClientID()), action.SurveyPrompter{})
			err = d.CloseAll(cmd.Context(), yes)
			if errors.Is(err, action.ErrCancelled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
