package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codio-labs/codio-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codio-api",
	Short: "Codio video analysis API server",
	Long: `Codio API - extract code from programming videos

The pipeline downloads a video, samples frames at a fixed interval, and
classifies each frame with a vision model to find the code on screen.
Viewers can then pause at any timestamp and retrieve the exact code shown,
search the transcript, and browse detected programming concepts.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig loads the configuration when a command needs it
func loadConfig() error {
	if err := config.Init(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
