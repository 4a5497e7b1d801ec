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
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd, tasksShowCmd, tasksCancelCmd)

	tasksListCmd.Flags().Int("limit", 50, "maximum rows")
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect background tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List background tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		limit, _ := cmd.Flags().GetInt("limit")
		page, err := client.Tasks(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}

		c := page.Counts
		fmt.Fprintf(os.Stdout, "running %d, queued %d, completed %d, failed %d, canceled %d\n\n",
			c.Running, c.Queued, c.Completed, c.Failed, c.Canceled)
		if len(page.Tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSTATUS\tTITLE")
		for _, t := range page.Tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Kind, t.Status, t.Title)
		}
		return w.Flush()
	},
}

var tasksShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		t, err := client.Task(cmd.Context(), types.TaskID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch task: %w", err)
		}

		fmt.Fprintf(os.Stdout, "ID:      %s\n", t.ID)
		fmt.Fprintf(os.Stdout, "Kind:    %s\n", t.Kind)
		fmt.Fprintf(os.Stdout, "Title:   %s\n", t.Title)
		fmt.Fprintf(os.Stdout, "Status:  %s\n", t.Status)
		if t.ThreadID != "" {
			fmt.Fprintf(os.Stdout, "Thread:  %s\n", t.ThreadID)
		}
		fmt.Fprintf(os.Stdout, "Created: %s\n", t.CreatedAt.Local().Format("Jan 02 15:04:05"))
		if t.StartedAt != nil {
			fmt.Fprintf(os.Stdout, "Started: %s\n", t.StartedAt.Local().Format("Jan 02 15:04:05"))
		}
		if t.CompletedAt != nil {
			fmt.Fprintf(os.Stdout, "Ended:   %s\n", t.CompletedAt.Local().Format("Jan 02 15:04:05"))
		}
		if t.Error != "" {
			fmt.Fprintf(os.Stdout, "Error:   %s\n", t.Error)
		}
		return nil
	},
}

var tasksCancelCmd = &cobra.Command{
	Use:   "cancel <task-id>",
	Short: "Cancel a queued or running task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		t, err := client.CancelTask(cmd.Context(), types.TaskID(args[0]))
		if err != nil {
			return fmt.Errorf("cancel task: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Task %s %s.\n", t.ID, t.Status)
		return nil
	},
}
