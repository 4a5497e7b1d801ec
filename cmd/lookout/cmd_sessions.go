package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsRemoveCmd, sessionsResumeCmd)

	sessionsListCmd.Flags().String("search", "", "filter by title")
	sessionsListCmd.Flags().Int("limit", 50, "maximum rows")

	sessionsResumeCmd.Flags().String("model", "", "model for the resumed thread")
	sessionsResumeCmd.Flags().String("mode", "", "mode for the resumed thread")
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse recorded sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

		sessions, err := client.Sessions(cmd.Context(), search, limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tUPDATED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Title, s.MessageCount, s.UpdatedAt.Local().Format("Jan 02 15:04"))
		}
		return w.Flush()
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		detail, err := client.Session(cmd.Context(), types.SessionID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch session: %w", err)
		}

		meta := detail.Metadata
		fmt.Fprintf(os.Stdout, "Title:    %s\n", meta.Title)
		fmt.Fprintf(os.Stdout, "Model:    %s\n", meta.Model)
		fmt.Fprintf(os.Stdout, "Messages: %d\n", meta.MessageCount)
		fmt.Fprintf(os.Stdout, "Updated:  %s\n", meta.UpdatedAt.Local().Format("Jan 02 15:04"))
		if detail.SystemPrompt != "" {
			fmt.Fprintf(os.Stdout, "\n%s\n", detail.SystemPrompt)
		}
		return nil
	},
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "remove <session-id>",
	Short: "Delete a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		if err := client.DeleteSession(cmd.Context(), types.SessionID(args[0])); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Deleted.")
		return nil
	},
}

var sessionsResumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Resume a session as a live thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		model, _ := cmd.Flags().GetString("model")
		mode, _ := cmd.Flags().GetString("mode")

		resumed, err := client.ResumeSessionThread(cmd.Context(), types.SessionID(args[0]), model, mode)
		if err != nil {
			return fmt.Errorf("resume session: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Thread %s created from %d messages.\n", resumed.ThreadID, resumed.MessageCount)
		if resumed.Summary != "" {
			fmt.Fprintln(os.Stdout, resumed.Summary)
		}
		return nil
	},
}
