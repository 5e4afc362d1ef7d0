package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "delegations",
	Short: "Nym wallet delegation utilities",
	Long:  "Inspect the mixnode delegations of a Nym wallet through the wallet backend",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
