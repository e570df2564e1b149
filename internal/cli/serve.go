package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/web"
)

var (
	serveAddr string
	serveEnv  string
	warmUp    bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Serve starts the web dashboard.

Every page view is one render pass: the widget values come from the query
string, the cached dataset is filtered and all six charts are rebuilt.

Example:
  cirrhosis serve
  cirrhosis serve --addr :8080 --env production
  CIRRHOSIS_SERVER_REQUESTS_PER_SECOND=5 cirrhosis serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
	serveCmd.Flags().StringVar(&serveEnv, "env", "", "environment (development, production)")
	serveCmd.Flags().BoolVar(&warmUp, "warm", true, "download the dataset before accepting requests")
	addFetchFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if cmd.Flags().Changed("env") {
		cfg.Server.Env = serveEnv
	}
	applyFetchFlags(cmd, cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.NewPipeline(cfg, logger)

	if warmUp {
		// A failed warm-up is not fatal: the page reports the load error and retries on the next view
		if _, err := p.Table(ctx); err != nil {
			logging.LogError(logger, "dataset warm-up failed", err)
		}
	}

	srv, err := web.NewServer(cfg.Server, p, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	return srv.ListenAndServe(ctx)
}
