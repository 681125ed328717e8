/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"based/domain/config"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "based",
	Short: "Runs the BASED treasury policy daemon",
	Long: `Runs the BASED treasury policy daemon: it ticks the monetary policy
every epoch, routes seigniorage to the forge, and serves the bond market.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string

// quit signals the scheduled tasks, started by the 'start' command, to stop.
var quit = make(chan bool)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.json", "config file")
}

func initConfig() {
	config.ReadConfig(cfgFile)
}
