package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the pipelines over HTTP:

  GET  /health    health check
  POST /humanize  {"text": "..."}
  POST /detect    {"text": "...", "trusted_human": false}

Example:
  humanizer serve
  humanizer serve --port 8080
  PORT=8080 OPENAI_API_KEY=sk-... humanizer serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "listen port (default 3000, or $PORT)")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("Starting humanizer",
		zap.String("version", Version),
		zap.String("provider", a.cfg.LLM.Provider),
		zap.String("model", a.cfg.LLM.Model),
		zap.Bool("cache", a.cfg.Cache.Enabled),
	)
	a.checkProvider(ctx)

	srv := server.New(a.cfg.Server, a.humanizer, a.detector, a.log.Named("http"))
	return srv.Run(ctx)
}
