// Command mapchat answers questions about Google location history.
//
// Usage:
//
//	mapchat serve             # web UI and JSON API
//	mapchat ingest FILE       # import a Timeline export and enrich its places
//	mapchat enrich [--refresh]
//	mapchat migrate up|down
//	mapchat export            # write visits as Parquet to the export sink
//	mapchat mcp               # MCP server on stdio
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"github.com/spf13/cobra"

	"github.com/tigerroll/mapchat/internal/app"
	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

//go:embed resources/application.yaml
var embeddedConfig []byte

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Errorf("%v", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mapchat",
		Short:         "Chat with your Google location history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("env-file", "", "path of the .env file (default $ENV_FILE_PATH or .env)")

	root.AddCommand(
		newServeCommand(),
		newIngestCommand(),
		newEnrichCommand(),
		newMigrateCommand(),
		newExportCommand(),
		newMCPCommand(),
	)
	return root
}

// appParams resolves the shared application inputs for cmd.
func appParams(cmd *cobra.Command) app.Params {
	envFilePath, _ := cmd.Flags().GetString("env-file")
	if envFilePath == "" {
		envFilePath = os.Getenv("ENV_FILE_PATH")
	}
	if envFilePath == "" {
		envFilePath = ".env"
	}
	return app.Params{EnvFilePath: envFilePath, EmbeddedConfig: config.EmbeddedConfig(embeddedConfig)}
}
