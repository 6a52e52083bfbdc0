// -- cmd/serve.go --
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/docpilot/docpilot/internal/browser"
	"github.com/docpilot/docpilot/internal/config"
	"github.com/docpilot/docpilot/internal/docs"
	"github.com/docpilot/docpilot/internal/mcp"
	"github.com/docpilot/docpilot/internal/observability"
)

// shutdownGrace bounds how long browser teardown may take on exit.
const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP stdio server exposing the document tools.",
	Long: `Serve declares the fourteen document-editing tools over MCP on
stdin/stdout and fulfills each by driving Google Docs in a Chrome instance.
The browser is launched lazily on the first tool call and reused until the
server exits. All logging goes to stderr; stdout belongs to the protocol.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()

	cfg, err := config.NewFromViper(viper.GetViper())
	if err != nil {
		return err
	}

	manager := browser.NewManager(cfg, logger)
	executor := browser.NewExecutor(logger)
	pipelines := docs.NewPipelines(manager, executor, cfg, logger)
	srv := mcp.NewServer(Version, pipelines, logger)

	// The Chrome process must not outlive the server, whichever way it ends.
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := manager.Shutdown(ctx); err != nil {
			logger.Warn("Browser shutdown failed.", zap.Error(err))
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ServeStdio()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	logger.Info("MCP stdio server running.")
	select {
	case s := <-sig:
		logger.Info("Signal received; shutting down.", zap.String("signal", s.String()))
		return nil
	case err := <-serveErr:
		if err != nil {
			logger.Error("MCP server terminated.", zap.Error(err))
		}
		return err
	}
}
