package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/schedule"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(automationCmd)
	automationCmd.AddCommand(automationListCmd, automationShowCmd, automationAddCmd,
		automationUpdateCmd, automationRemoveCmd, automationPauseCmd, automationResumeCmd,
		automationRunCmd, automationRunsCmd)

	automationAddCmd.Flags().String("name", "", "automation name (required)")
	automationAddCmd.Flags().String("prompt", "", "prompt text (required)")
	automationAddCmd.Flags().String("rrule", "", "recurrence rule, e.g. FREQ=WEEKLY;BYDAY=MO;BYHOUR=9;BYMINUTE=0 (required)")
	automationAddCmd.Flags().StringSlice("cwd", nil, "working directories (absolute paths)")
	_ = automationAddCmd.MarkFlagRequired("name")
	_ = automationAddCmd.MarkFlagRequired("prompt")
	_ = automationAddCmd.MarkFlagRequired("rrule")

	automationUpdateCmd.Flags().String("name", "", "new name")
	automationUpdateCmd.Flags().String("prompt", "", "new prompt text")
	automationUpdateCmd.Flags().String("rrule", "", "new recurrence rule")
	automationUpdateCmd.Flags().StringSlice("cwd", nil, "replace working directories")

	automationRunsCmd.Flags().Int("limit", 10, "maximum runs to show")
}

var automationCmd = &cobra.Command{
	Use:   "automation",
	Short: "Manage scheduled automations",
}

var automationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List automations with their next run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		automations, err := client.Automations(cmd.Context())
		if err != nil {
			return fmt.Errorf("list automations: %w", err)
		}
		if len(automations) == 0 {
			fmt.Println("No automations configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSCHEDULE\tSTATUS\tNEXT RUN")
		for _, a := range automations {
			next := nextRunLabel(a)
			scheduleLabel := a.RRule
			if rule, err := schedule.Parse(a.RRule); err == nil {
				scheduleLabel = rule.Describe()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, scheduleLabel, a.Status, next)
		}
		return w.Flush()
	},
}

// nextRunLabel prefers the server's scheduled time and falls back to a
// local preview computed from the rule.
func nextRunLabel(a types.Automation) string {
	if a.Status == types.AutomationPaused {
		return "paused"
	}
	if a.NextRunAt != nil {
		return a.NextRunAt.Local().Format("Mon Jan 02 15:04")
	}
	rule, err := schedule.Parse(a.RRule)
	if err != nil {
		return "?"
	}
	next, err := rule.Next(time.Now())
	if err != nil {
		return "?"
	}
	return next.Local().Format("Mon Jan 02 15:04") + " (est)"
}

var automationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an automation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		prompt, _ := cmd.Flags().GetString("prompt")
		rrule, _ := cmd.Flags().GetString("rrule")
		cwds, _ := cmd.Flags().GetStringSlice("cwd")

		rule, err := schedule.Parse(rrule)
		if err != nil {
			return fmt.Errorf("invalid rrule: %w", err)
		}
		for _, cwd := range cwds {
			if err := schedule.ValidateCwd(cwd); err != nil {
				return err
			}
		}

		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)
		a, err := client.CreateAutomation(cmd.Context(), api.CreateAutomationRequest{
			Name:   name,
			Prompt: prompt,
			RRule:  rrule,
			CWDs:   cwds,
		})
		if err != nil {
			return fmt.Errorf("create automation: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Automation %q created (%s).\n", a.Name, rule.Describe())
		return nil
	},
}

var automationShowCmd = &cobra.Command{
	Use:   "show <automation-id>",
	Short: "Show one automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		a, err := client.Automation(cmd.Context(), types.AutomationID(args[0]))
		if err != nil {
			return fmt.Errorf("fetch automation: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Name:     %s\n", a.Name)
		fmt.Fprintf(os.Stdout, "Status:   %s\n", a.Status)
		fmt.Fprintf(os.Stdout, "Rule:     %s\n", a.RRule)
		if rule, err := schedule.Parse(a.RRule); err == nil {
			fmt.Fprintf(os.Stdout, "Schedule: %s\n", rule.Describe())
		}
		fmt.Fprintf(os.Stdout, "Next run: %s\n", nextRunLabel(*a))
		for _, cwd := range a.CWDs {
			fmt.Fprintf(os.Stdout, "Cwd:      %s\n", cwd)
		}
		fmt.Fprintf(os.Stdout, "Prompt:   %s\n", a.Prompt)
		return nil
	},
}

var automationUpdateCmd = &cobra.Command{
	Use:   "update <automation-id>",
	Short: "Update an automation's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req api.UpdateAutomationRequest
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("prompt") {
			prompt, _ := cmd.Flags().GetString("prompt")
			req.Prompt = &prompt
		}
		if cmd.Flags().Changed("rrule") {
			rrule, _ := cmd.Flags().GetString("rrule")
			if _, err := schedule.Parse(rrule); err != nil {
				return fmt.Errorf("invalid rrule: %w", err)
			}
			req.RRule = &rrule
		}
		if cmd.Flags().Changed("cwd") {
			cwds, _ := cmd.Flags().GetStringSlice("cwd")
			for _, cwd := range cwds {
				if err := schedule.ValidateCwd(cwd); err != nil {
					return err
				}
			}
			req.CWDs = &cwds
		}

		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)
		a, err := client.UpdateAutomation(cmd.Context(), types.AutomationID(args[0]), req)
		if err != nil {
			return fmt.Errorf("update automation: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Automation %q updated.\n", a.Name)
		return nil
	},
}

var automationRemoveCmd = &cobra.Command{
	Use:   "remove <automation-id>",
	Short: "Delete an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		if err := client.DeleteAutomation(cmd.Context(), types.AutomationID(args[0])); err != nil {
			return fmt.Errorf("delete automation: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Deleted.")
		return nil
	},
}

var automationPauseCmd = &cobra.Command{
	Use:   "pause <automation-id>",
	Short: "Pause an automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		a, err := client.PauseAutomation(cmd.Context(), types.AutomationID(args[0]))
		if err != nil {
			return fmt.Errorf("pause automation: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Automation %q paused.\n", a.Name)
		return nil
	},
}

var automationResumeCmd = &cobra.Command{
	Use:   "resume <automation-id>",
	Short: "Resume a paused automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		a, err := client.ResumeAutomation(cmd.Context(), types.AutomationID(args[0]))
		if err != nil {
			return fmt.Errorf("resume automation: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Automation %q active.\n", a.Name)
		return nil
	},
}

var automationRunCmd = &cobra.Command{
	Use:   "run <automation-id>",
	Short: "Trigger an automation immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		run, err := client.RunAutomation(cmd.Context(), types.AutomationID(args[0]))
		if err != nil {
			return fmt.Errorf("run automation: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Run %s %s.\n", run.ID, run.Status)
		return nil
	},
}

var automationRunsCmd = &cobra.Command{
	Use:   "runs <automation-id>",
	Short: "Show an automation's run history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := client.AutomationRuns(cmd.Context(), types.AutomationID(args[0]), limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCHEDULED\tSTATUS\tTHREAD\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				r.ScheduledFor.Local().Format("Jan 02 15:04"), r.Status, r.ThreadID, r.Error)
		}
		return w.Flush()
	},
}
