/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"cacheprofiler/logging"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var measurementsDir string
var graphsDir string
var logLevel string

// RootCmd draws the most recent measurement file when called without a subcommand
var RootCmd = &cobra.Command{
	Use:   "cacheprofiler",
	Short: "Measure cache latency and plot the results",
	Long: `With no subcommand, the most recently created file in the measurements
directory is parsed and plotted as test size against median latency into
graphs/graph_<timestamp>.png.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, cmd.ErrOrStderr())
	},
	RunE: visualize,
}

// Execute adds all child commands to the root command and sets Flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute(ctx context.Context) {
	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to execute command: "+err.Error())
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&measurementsDir, "measurements", "measurements", "Directory to take the most recent measurement file from")
	RootCmd.PersistentFlags().StringVar(&graphsDir, "graphs", "graphs", "Directory the graph is written to")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
}
