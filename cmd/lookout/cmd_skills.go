package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
)

func init() {
	rootCmd.AddCommand(skillsCmd, mcpCmd)
	mcpCmd.AddCommand(mcpServersCmd, mcpToolsCmd)
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the runtime's skill registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		page, err := client.Skills(cmd.Context())
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		if len(page.Skills) == 0 {
			fmt.Println("No skills found.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Directory: %s\n", page.Directory)
		for _, warning := range page.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, s := range page.Skills {
			fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
		}
		return w.Flush()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Inspect configured MCP servers",
}

var mcpServersCmd = &cobra.Command{
	Use:   "servers",
	Short: "List MCP servers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		servers, err := client.MCPServers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list mcp servers: %w", err)
		}
		if len(servers) == 0 {
			fmt.Println("No MCP servers configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENABLED\tCONNECTED\tTARGET")
		for _, s := range servers {
			target := s.Command
			if target == "" {
				target = s.URL
			}
			fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", s.Name, s.Enabled, s.Connected, target)
		}
		return w.Flush()
	},
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools <server>",
	Short: "List one server's tools",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		tools, err := client.MCPTools(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("list mcp tools: %w", err)
		}
		if len(tools) == 0 {
			fmt.Println("No tools exposed.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, t := range tools {
			fmt.Fprintf(w, "%s\t%s\n", t.PrefixedName, t.Description)
		}
		return w.Flush()
	},
}
