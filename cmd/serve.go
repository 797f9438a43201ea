package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codio-labs/codio-api/api"
	"github.com/codio-labs/codio-api/api/types"
	"github.com/codio-labs/codio-api/internal/database"
	conceptsService "github.com/codio-labs/codio-api/internal/services/concepts"
	"github.com/codio-labs/codio-api/internal/services/processing"
	"github.com/codio-labs/codio-api/internal/services/resolver"
	segmentsService "github.com/codio-labs/codio-api/internal/services/segments"
	transcriptsService "github.com/codio-labs/codio-api/internal/services/transcripts"
	"github.com/codio-labs/codio-api/pkg/classifier"
	"github.com/codio-labs/codio-api/pkg/config"
	"github.com/codio-labs/codio-api/pkg/framesource"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Codio API server with the configured settings.

The server accepts video processing requests and serves pause-to-code
lookups, transcript search, and concept detection.

Example:
  codio-api serve
  codio-api serve --port 9090
  codio-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
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

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	fmt.Printf("Starting Codio API server on %s:%d\n", serverHost, serverPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		fmt.Println("\nShutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		fmt.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	fmt.Println("Server gracefully stopped")
	return nil
}

// buildDependencies wires the service graph from configuration
func buildDependencies(cfg *config.Config, db *database.DB) *types.Dependencies {
	source := framesource.NewYTDLPSource(framesource.Options{
		YTDLPPath:  cfg.YTDLP.Path,
		FFmpegPath: cfg.YTDLP.FFmpegPath,
		VideoDir:   cfg.Storage.VideoDir,
		Timeout:    cfg.YTDLP.Timeout,
		SubLangs:   cfg.YTDLP.SubLangs,
	})

	clf := classifier.NewGeminiClient(classifier.GeminiConfig{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		Model:           cfg.Gemini.Model,
		Timeout:         cfg.Gemini.Timeout,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		TopK:            cfg.Gemini.TopK,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})

	segSvc := segmentsService.NewService(segmentsService.NewRepository(db.DB))
	registry := processing.NewRegistry(segSvc, source, clf, processing.Config{
		FrameInterval:     cfg.Processing.FrameInterval,
		ClassifierRetries: cfg.Processing.ClassifierRetries,
		RetryBackoff:      cfg.Processing.RetryBackoff,
		GracePeriod:       cfg.Processing.JobGracePeriod,
		KeepVideos:        cfg.Storage.KeepVideos,
	})

	transcriptSvc := transcriptsService.NewService(source)
	conceptSvc := conceptsService.NewService(conceptsService.NewRepository(db.DB), transcriptSvc, segSvc, clf)

	return &types.Dependencies{
		DB:                db,
		Registry:          registry,
		SegmentService:    segSvc,
		Resolver:          resolver.NewService(segSvc),
		TranscriptService: transcriptSvc,
		ConceptService:    conceptSvc,
		DefaultTolerance:  cfg.Processing.DefaultTolerance,
	}
}
