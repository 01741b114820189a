package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adminpanel",
	Short: "Server-rendered admin panel",
	Long:  `A server-rendered admin panel with session-based login, a forgot-password email flow, and a dashboard.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
