package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/render"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.AddCommand(threadsListCmd, threadsShowCmd, threadsNewCmd, threadsSendCmd,
		threadsForkCmd, threadsCompactCmd, threadsArchiveCmd, threadsResumeCmd)

	threadsListCmd.Flags().String("search", "", "filter by title")
	threadsListCmd.Flags().Bool("archived", false, "include archived threads")
	threadsListCmd.Flags().Int("limit", 50, "maximum rows")

	threadsNewCmd.Flags().String("model", "", "model override")
	threadsNewCmd.Flags().String("workspace", "", "workspace path")
	threadsNewCmd.Flags().String("mode", "", "execution mode")

	threadsSendCmd.Flags().String("model", "", "model override for this turn")
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List threads, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		search, _ := cmd.Flags().GetString("search")
		archived, _ := cmd.Flags().GetBool("archived")
		limit, _ := cmd.Flags().GetInt("limit")

		threads, err := client.ThreadSummaries(cmd.Context(), api.ThreadQuery{
			Search:          search,
			Limit:           limit,
			IncludeArchived: archived,
		})
		if err != nil {
			return fmt.Errorf("list threads: %w", err)
		}
		if len(threads) == 0 {
			fmt.Println("No threads.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tMODEL\tLAST TURN\tUPDATED")
		for _, t := range threads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Title, t.Model, t.LatestTurnStatus, t.UpdatedAt.Local().Format("Jan 02 15:04"))
		}
		return w.Flush()
	},
}

var threadsShowCmd = &cobra.Command{
	Use:   "show <thread-id>",
	Short: "Show a thread's turns and items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		detail, err := client.ThreadDetail(cmd.Context(), types.ThreadID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch thread: %w", err)
		}

		title := detail.Thread.Title
		if title == "" {
			title = string(detail.Thread.ID)
		}
		fmt.Fprintf(os.Stdout, "%s (%s, seq %d)\n", title, detail.Thread.Model, detail.LatestSeq)

		itemsByTurn := map[types.TurnID][]types.Item{}
		for _, item := range detail.Items {
			itemsByTurn[item.TurnID] = append(itemsByTurn[item.TurnID], item)
		}
		for _, turn := range detail.Turns {
			fmt.Fprintf(os.Stdout, "\n[%s] %s\n", turn.Status, turn.Prompt)
			if turn.Error != "" {
				fmt.Fprintf(os.Stdout, "  error: %s\n", turn.Error)
			}
			for _, item := range itemsByTurn[turn.ID] {
				fmt.Fprintf(os.Stdout, "  %s\n", render.ItemText(item))
			}
		}
		return nil
	},
}

var threadsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a thread",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		model, _ := cmd.Flags().GetString("model")
		workspace, _ := cmd.Flags().GetString("workspace")
		mode, _ := cmd.Flags().GetString("mode")

		thread, err := client.CreateThread(cmd.Context(), api.CreateThreadRequest{
			Model:     model,
			Workspace: workspace,
			Mode:      mode,
		})
		if err != nil {
			return fmt.Errorf("create thread: %w", err)
		}
		fmt.Fprintln(os.Stdout, thread.ID)
		return nil
	},
}

var threadsSendCmd = &cobra.Command{
	Use:   "send <thread-id> <prompt>",
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

var threadsForkCmd = &cobra.Command{
	Use:   "fork <thread-id>",
	Short: "Fork a thread into a new one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		thread, err := client.ForkThread(cmd.Context(), types.ThreadID(args[0]))
		if err != nil {
			return fmt.Errorf("fork thread: %w", err)
		}
		fmt.Fprintln(os.Stdout, thread.ID)
		return nil
	},
}

var threadsCompactCmd = &cobra.Command{
	Use:   "compact <thread-id>",
	Short: "Ask the runtime to compact a thread's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		if _, err := client.CompactThread(cmd.Context(), types.ThreadID(args[0])); err != nil {
			return fmt.Errorf("compact thread: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Compaction requested.")
		return nil
	},
}

var threadsArchiveCmd = &cobra.Command{
	Use:   "archive <thread-id>",
	Short: "Archive a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		archived := true
		if _, err := client.UpdateThread(cmd.Context(), types.ThreadID(args[0]), api.UpdateThreadRequest{Archived: &archived}); err != nil {
			return fmt.Errorf("archive thread: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Archived.")
		return nil
	},
}

var threadsResumeCmd = &cobra.Command{
	Use:   "resume <thread-id>",
	Short: "Reactivate an archived thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		thread, err := client.ResumeThread(cmd.Context(), types.ThreadID(args[0]))
		if err != nil {
			return fmt.Errorf("resume thread: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Thread %s resumed.\n", thread.ID)
		return nil
	},
}
