package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/server"
)

var (
	srvAddr      string
	srvProvider  string
	srvModel     string
	srvNoPreload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API and the insight endpoint",
	Long: `Start the HTTP API used by the web dashboard:

  GET  /api/dashboard   every aggregate view of the current snapshot
  POST /api/reload      re-read the survey source
  POST /api/insights    {stats, chartData, paidRatio?, yearlyPaid?} -> {insights}
  GET  /healthz         liveness and snapshot info`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if cmd.Flags().Changed("addr") && srvAddr != "" {
			addr = srvAddr
		}
		g, err := newGenerator(c, runtimeOptions{ProviderFlag: srvProvider, ModelFlag: srvModel})
		if err != nil {
			return err
		}
		s := server.New(server.Config{
			Addr:           addr,
			Source:         c.SurveySource(),
			Loader:         newLoader(c),
			Insights:       g,
			AllowedOrigins: c.AllowedOrigins,
			Logger:         logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !srvNoPreload {
			// A failed preload is retried on the first dashboard request.
			if _, err := s.Reload(ctx); err != nil {
				logger.Warn("initial survey load failed", "err", err)
			}
		}
		return s.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.StringVar(&srvAddr, "addr", "", "listen address (overrides listen_addr)")
	f.StringVar(&srvProvider, "provider", "", "LLM provider for /api/insights (overrides config)")
	f.StringVar(&srvModel, "model", "", "model for /api/insights (overrides config)")
	f.BoolVar(&srvNoPreload, "no-preload", false, "do not load the survey before accepting requests")
}
