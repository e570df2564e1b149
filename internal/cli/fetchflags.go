package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
)

// Dataset download flags shared by serve, render and batch
var (
	fetchTimeout time.Duration
	userAgent    string
	noCache      bool
	httpProxy    string
	httpsProxy   string
)

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "timeout for the dataset download")
	cmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh download)")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// applyFetchFlags copies explicitly set download flags over cfg
func applyFetchFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("fetch-timeout") {
		cfg.HTTP.Timeout = fetchTimeout
	}
	if flags.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if flags.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
}
