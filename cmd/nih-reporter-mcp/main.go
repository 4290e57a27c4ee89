// Command nih-reporter-mcp serves NIH Reporter API tools over the Model
// Context Protocol, on stdio by default or over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nih-reporter-mcp/internal/config"
	"nih-reporter-mcp/internal/mcp"
	"nih-reporter-mcp/internal/reporter"
	"nih-reporter-mcp/internal/server"
	"nih-reporter-mcp/internal/tools"
)

var version = mcp.ServerVersion

func main() {
	rootCmd := &cobra.Command{
		Use:   "nih-reporter-mcp",
		Short: "MCP server for the NIH Reporter research-grants API",
		Long: `nih-reporter-mcp exposes the public NIH Reporter API to AI assistants as MCP tools:
project search, project details, recent awards, investigator search, spending
categories, and server-side trend analysis.

With no subcommand it serves the stdio transport, reading newline-delimited
JSON-RPC messages from stdin until it is closed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio()
		},
	}

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio()
		},
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve MCP over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nih-reporter-mcp v%s\n", version)
		},
	}

	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup wires config, logging, the API client, and the tool registry into a
// dispatcher. Logs go to stderr so stdout stays clean for the stdio transport.
func setup() (*config.Config, zerolog.Logger, *mcp.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("parse log level: %w", err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	client := reporter.New(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()})
	m := mcp.NewServer(tools.Registry(client), logger)
	return cfg, logger, m, nil
}

func runStdio() error {
	_, logger, m, err := setup()
	if err != nil {
		return err
	}
	logger.Info().Str("version", version).Msg("starting stdio transport")
	if err := m.ServeStdio(context.Background(), os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

func runHTTP() error {
	cfg, logger, m, err := setup()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		logger.Warn().Msg("MCP_TOKEN not set; endpoints will be open")
	}

	srv := server.New(server.Config{Port: cfg.Port, Token: cfg.Token}, m, logger)
	logger.Info().Str("port", cfg.Port).Str("version", version).Msg("starting HTTP transport")

	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")
	if certFile != "" && keyFile != "" {
		logger.Info().Msg("TLS enabled")
		return http.ListenAndServeTLS(":"+cfg.Port, certFile, keyFile, srv.Router())
	}
	return http.ListenAndServe(":"+cfg.Port, srv.Router())
}
