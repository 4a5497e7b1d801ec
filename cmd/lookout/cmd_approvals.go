package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/audit"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(approvalsCmd)
	approvalsCmd.Flags().Int("limit", 20, "maximum records to show")
}

var approvalsCmd = &cobra.Command{
	Use:   "approvals <thread-id>",
	Short: "Show the recorded approval history for a thread",
	Long: `Approvals prints the locally recorded approval requests for a thread.
Records are written while the dashboard is streaming, so the history
covers what this machine has seen, not the runtime's full log.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		log := audit.NewLog(cfg.DataDir)

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := log.Tail(types.ThreadID(args[0]), limit)
		if err != nil {
			return fmt.Errorf("read approvals log: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No recorded approvals.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RECORDED\tEVENT\tREQUEST\tSCOPE")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				r.RecordedAt.Local().Format("Jan 02 15:04"), r.Approval.Event, r.Approval.RequestType, r.Approval.Scope)
		}
		return w.Flush()
	},
}
