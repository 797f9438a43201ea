package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codio-labs/codio-api/internal/database"
	"github.com/codio-labs/codio-api/pkg/config"
)

var processForce bool

// processCmd runs the analysis pipeline for one video and waits for it
var processCmd = &cobra.Command{
	Use:   "process <url>",
	Short: "Process a video from the command line",
	Long: `Download and analyze a single video without starting the API server.

The command runs the full pipeline (download, frame sampling, classification)
and blocks until it finishes, printing progress along the way.

Example:
  codio-api process https://www.youtube.com/watch?v=dQw4w9WgXcQ
  codio-api process --force https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&processForce, "force", false, "reprocess even if a cached analysis exists")
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps := buildDependencies(cfg, db)

	result, err := deps.Registry.Start(cmd.Context(), args[0], processForce)
	if err != nil {
		return fmt.Errorf("failed to start processing: %w", err)
	}
	if result.AlreadyComplete {
		fmt.Printf("Video %s already analyzed (use --force to reprocess)\n", result.VideoID)
		return nil
	}

	fmt.Printf("Processing video %s\n", result.VideoID)

	// Forward Ctrl-C to the job so it cancels cleanly instead of dying mid-save
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	job, ok := deps.Registry.ActiveJob(result.VideoID)
	if !ok {
		return fmt.Errorf("job for video %s ended before it could be tracked", result.VideoID)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastStage := ""
	for {
		select {
		case <-stop:
			fmt.Println("\nCancelling...")
			deps.Registry.Cancel(result.VideoID)
		case <-ticker.C:
			snap := job.Snapshot()
			if snap.Stage != lastStage {
				fmt.Printf("[%3d%%] %s\n", snap.Progress, snap.Stage)
				lastStage = snap.Stage
			}
		case <-job.Done():
			snap := job.Snapshot()
			fmt.Printf("[%3d%%] %s\n", snap.Progress, snap.Stage)
			if snap.Status == "failed" {
				return fmt.Errorf("processing failed: %s", snap.Error)
			}
			return nil
		}
	}
}
