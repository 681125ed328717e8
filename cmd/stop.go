/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stopCmd stops the scheduled tasks of a running daemon
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stops the daemon's tasks",
	Long:  `Stops the daemon's tasks, which are started previously by 'start' command.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stop called.")

		// send a value to the 'quit' channel, defined in the root command file.
		quit <- true
		close(quit)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
