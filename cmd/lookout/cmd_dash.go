package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/audit"
	"github.com/user/lookout/internal/config"
	"github.com/user/lookout/internal/health"
	"github.com/user/lookout/internal/notify"
	"github.com/user/lookout/internal/stream"
	"github.com/user/lookout/internal/tokens"
	"github.com/user/lookout/internal/tui"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(dashCmd)
	dashCmd.Flags().String("thread", "", "thread to open on start")
}

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		ctrl := stream.New(stream.APISource{Client: client})
		defer ctrl.Stop()

		interval := time.Duration(cfg.Health.IntervalSeconds) * time.Second
		if interval <= 0 {
			interval = health.DefaultInterval
		}
		monitor := health.New(client, interval)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go monitor.Run(ctx)

		registry := notify.NewRegistry(slog.Default())
		if cfg.Notify.TelegramToken != "" {
			tg, err := notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
			if err != nil {
				slog.Warn("telegram notifications disabled", "error", err)
			} else {
				registry.Register(tg)
			}
		}

		initial := types.ThreadID(cfg.UI.LastThread)
		if flagThread, _ := cmd.Flags().GetString("thread"); flagThread != "" {
			initial = types.ThreadID(flagThread)
		}

		model := tui.New(tui.Options{
			Client:         client,
			Controller:     ctrl,
			Monitor:        monitor,
			Estimator:      tokens.New(""),
			Notifier:       registry,
			AuditLog:       audit.NewLog(cfg.DataDir),
			InitialThread:  initial,
			InitialSection: cfg.UI.LastSection,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		final, err := program.Run()
		if err != nil {
			return fmt.Errorf("run dashboard: %w", err)
		}

		if m, ok := final.(*tui.Model); ok {
			cfg.UI.LastThread = string(m.ActiveThread())
			cfg.UI.LastSection = m.SectionName()
			if err := config.Save(cfgPath, cfg); err != nil {
				slog.Warn("save ui state", "error", err)
			}
		}
		return nil
	},
}
