package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/tigerroll/mapchat/internal/adapter/database/migration"
	"github.com/tigerroll/mapchat/internal/agent"
	"github.com/tigerroll/mapchat/internal/app"
	"github.com/tigerroll/mapchat/internal/export"
	"github.com/tigerroll/mapchat/internal/ingest"
	"github.com/tigerroll/mapchat/internal/mcpserver"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat and upload pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fxApp := fx.New(app.Serve(appParams(cmd))...)
			if err := fxApp.Err(); err != nil {
				return err
			}
			// Run blocks until SIGINT/SIGTERM or a shutdown request.
			fxApp.Run()
			return nil
		},
	}
}

func newIngestCommand() *cobra.Command {
	var skipEnrich bool
	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Import a Timeline export, then enrich the new places",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var svc *ingest.Service
			task, err := app.Start(cmd.Context(), app.Core(appParams(cmd)), app.AutoMigrate, app.Ingestion, fx.Populate(&svc))
			if err != nil {
				return err
			}
			defer task.Stop()

			if skipEnrich {
				result, err := svc.Ingest(cmd.Context(), f)
				if err != nil {
					return err
				}
				return printJSON(cmd, result)
			}
			result, err := svc.Upload(cmd.Context(), f)
			if result != nil {
				if perr := printJSON(cmd, result); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&skipEnrich, "skip-enrich", false, "import visits without calling the Places API")
	return cmd
}

func newEnrichCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fetch Places details for visited places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc *ingest.Service
			task, err := app.Start(cmd.Context(), app.Core(appParams(cmd)), app.AutoMigrate, app.Ingestion, fx.Populate(&svc))
			if err != nil {
				return err
			}
			defer task.Stop()

			result, err := svc.Enrich(cmd.Context(), refresh)
			if result != nil {
				if perr := printJSON(cmd, result); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch every visited place, not only places without details")
	return cmd
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or drop the schema",
	}
	run := func(apply func(*cobra.Command, *migration.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			var m *migration.Migrator
			task, err := app.Start(cmd.Context(), app.Core(appParams(cmd)), fx.Populate(&m))
			if err != nil {
				return err
			}
			defer task.Stop()

			if err := apply(cmd, m); err != nil {
				return err
			}
			version, dirty, ok, err := m.Version()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "schema version: none")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d (dirty: %t)\n", version, dirty)
			return nil
		}
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Create every missing table",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *migration.Migrator) error {
				return m.Up(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop every table, discarding all data",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *migration.Migrator) error {
				return m.Down(cmd.Context())
			}),
		},
	)
	return cmd
}

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the visit log as Parquet to the configured sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc *export.Service
			task, err := app.Start(cmd.Context(), app.Core(appParams(cmd)), app.AutoMigrate, app.Export, fx.Populate(&svc))
			if err != nil {
				return err
			}
			defer task.Stop()

			result, err := svc.ExportVisits(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the agent as MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var chat *agent.Agent
			task, err := app.Start(cmd.Context(), app.Core(appParams(cmd)), app.AutoMigrate, app.Chat, fx.Populate(&chat))
			if err != nil {
				return err
			}
			defer task.Stop()

			// Logs go to stderr; stdout carries the protocol.
			return server.ServeStdio(mcpserver.New(chat))
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
