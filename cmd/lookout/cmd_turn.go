package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(turnCmd)
	turnCmd.AddCommand(turnStartCmd, turnSteerCmd, turnInterruptCmd)

	turnStartCmd.Flags().String("model", "", "model override for this turn")
}

var turnCmd = &cobra.Command{
	Use:   "turn",
	Short: "Start, steer, or interrupt turns",
}

var turnStartCmd = &cobra.Command{
	Use:   "start <thread-id> <prompt>",
	Short: "Start a turn on a thread",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		model, _ := cmd.Flags().GetString("model")
		result, err := client.StartTurn(cmd.Context(), types.ThreadID(args[0]), api.StartTurnRequest{
			Prompt: args[1],
			Model:  model,
		})
		if err != nil {
			return fmt.Errorf("start turn: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Turn %s %s.\n", result.Turn.ID, result.Turn.Status)
		return nil
	},
}

var turnSteerCmd = &cobra.Command{
	Use:   "steer <thread-id> <turn-id> <message>",
	Short: "Inject guidance into an in-progress turn",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		if err := client.SteerTurn(cmd.Context(), types.ThreadID(args[0]), types.TurnID(args[1]), args[2]); err != nil {
			return fmt.Errorf("steer turn: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Steering sent.")
		return nil
	},
}

var turnInterruptCmd = &cobra.Command{
	Use:   "interrupt <thread-id> <turn-id>",
	Short: "Interrupt a queued or in-progress turn",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		if err := client.InterruptTurn(cmd.Context(), types.ThreadID(args[0]), types.TurnID(args[1])); err != nil {
			return fmt.Errorf("interrupt turn: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Interrupt requested.")
		return nil
	},
}
