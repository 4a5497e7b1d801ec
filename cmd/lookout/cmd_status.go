package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show runtime health, workspace, and task summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		var (
			h         *types.Health
			workspace *types.WorkspaceStatus
			tasks     *types.TaskPage
			threads   []types.ThreadSummary
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			h, err = client.Health(gctx)
			return err
		})
		g.Go(func() error {
			// Workspace status is optional; runtimes without a
			// configured workspace return an error here.
			workspace, _ = client.WorkspaceStatus(gctx)
			return nil
		})
		g.Go(func() error {
			var err error
			tasks, err = client.Tasks(gctx, 1)
			return err
		})
		g.Go(func() error {
			var err error
			threads, err = client.ThreadSummaries(gctx, api.ThreadQuery{Limit: 5})
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("query runtime at %s: %w", cfg.RuntimeURL, err)
		}

		fmt.Fprintf(os.Stdout, "Runtime:   %s (%s)\n", h.Status, cfg.RuntimeURL)
		if h.Mode != "" {
			fmt.Fprintf(os.Stdout, "Mode:      %s\n", h.Mode)
		}
		if workspace != nil {
			line := workspace.Workspace
			if workspace.GitRepo {
				line += fmt.Sprintf(" [%s +%d ~%d ?%d]", workspace.Branch, workspace.Staged, workspace.Unstaged, workspace.Untracked)
			}
			fmt.Fprintf(os.Stdout, "Workspace: %s\n", line)
		}
		c := tasks.Counts
		fmt.Fprintf(os.Stdout, "Tasks:     %d running, %d queued, %d failed\n", c.Running, c.Queued, c.Failed)

		if len(threads) > 0 {
			fmt.Fprintln(os.Stdout, "\nRecent threads:")
			for _, t := range threads {
				title := t.Title
				if title == "" {
					title = string(t.ID)
				}
				fmt.Fprintf(os.Stdout, "  %-40s %s\n", title, t.UpdatedAt.Local().Format("Jan 02 15:04"))
			}
		}
		return nil
	},
}
