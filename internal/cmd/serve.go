// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/xlinker/internal/rpcserver"
	"github.com/dotandev/xlinker/internal/telemetry"
)

var bannerColor = color.New(color.FgGreen, color.Bold)

var (
	servePort string
	serveOTLP string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON-RPC server",
	Long: `serve starts a JSON-RPC 2.0 server exposing static_link and
dynamic_index as remote methods, for build pipelines that want the
linker as a service instead of a CLI invocation.

Example:
  xlinker serve --port 8080`,
	RunE: serveExec,
}

func serveExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var cleanup func()
	if cfg.TraceEnabled {
		var err error
		cleanup, err = telemetry.Init(ctx, telemetry.Config{
			Enabled:     true,
			ExporterURL: firstNonEmpty(serveOTLP, cfg.TraceEndpoint),
			ServiceName: "xlinker-serve",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer cleanup()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nreceived interrupt signal, shutting down...")
		cancel()
	}()

	bannerColor.Printf("starting xlinker JSON-RPC server on port %s\n", servePort)

	server := rpcserver.NewServer()
	return server.Start(ctx, servePort)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port to listen on")
	serveCmd.Flags().StringVar(&serveOTLP, "otlp-url", "", "OTLP exporter URL (overrides the config file's trace_endpoint)")

	rootCmd.AddCommand(serveCmd)
}
