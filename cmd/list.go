package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the resolved command groups without running anything",
	Long: `Print the command groups and run settings after applying the
config file, environment overrides and defaults. Nothing is executed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		printGroup("format", "sequential, fix mode", cfg.Commands.Format)
		printGroup("check", "parallel, check mode", cfg.Commands.Check)
		printGroup("common", "parallel, both modes", cfg.Commands.Common)

		fmt.Printf("run:\n")
		fmt.Printf("  shell:   %s\n", cfg.Run.Shell)
		if cfg.Run.Workers == 0 {
			fmt.Printf("  workers: unlimited\n")
		} else {
			fmt.Printf("  workers: %d\n", cfg.Run.Workers)
		}

		return nil
	},
}

func printGroup(name, policy string, commands []string) {
	fmt.Printf("%s (%s):\n", name, policy)
	if len(commands) == 0 {
		fmt.Printf("  (none)\n")
	}
	for i, command := range commands {
		fmt.Printf("  %d. %s\n", i+1, command)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
