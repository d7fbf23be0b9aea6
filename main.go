package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/pbeaumont/mcp-fused-search/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	// Import all tool packages to register them
	_ "github.com/pbeaumont/mcp-fused-search/internal/imports"
)

// Version information (set during build)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// isStdioMode tracks the active transport so error paths know whether
// writing to stderr is safe
var isStdioMode bool

// parseLogLevel parses the LOG_LEVEL environment variable and returns the
// appropriate logrus level. Defaults to WarnLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	logLevelStr := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))

	switch logLevelStr {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

// configureLogger directs log output. In stdio mode nothing may ever reach
// stdout or stderr (it would corrupt the MCP protocol), so logs go to a file
// under the user's home directory, or are discarded if that fails.
func configureLogger(logger *logrus.Logger, stdioMode bool) *os.File {
	logLevel := parseLogLevel()
	if stdioMode && logLevel < logrus.WarnLevel {
		logLevel = logrus.WarnLevel
	}
	logger.SetLevel(logLevel)

	if !stdioMode {
		logger.SetOutput(os.Stderr)
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil
	}
	logDir := filepath.Join(homeDir, ".mcp-fused-search", "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		logger.SetOutput(io.Discard)
		return nil
	}
	logFile := filepath.Join(logDir, "mcp-fused-search.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return nil
	}
	logger.SetOutput(file)
	return file
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	app := &cli.Command{
		Name:    "mcp-fused-search",
		Usage:   "MCP server fusing DataForSEO and Brave web search results",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "transport",
				Aliases: []string{"t"},
				Value:   "stdio",
				Usage:   "Transport type (stdio, sse, or http)",
			},
			&cli.StringFlag{
				Name:  "port",
				Value: "18080",
				Usage: "Port to use for HTTP transports (SSE and Streamable HTTP)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Value: "http://localhost",
				Usage: "Base URL for HTTP transports",
			},
			&cli.StringFlag{
				Name:  "endpoint-path",
				Value: "/http",
				Usage: "Endpoint path for Streamable HTTP transport",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("mcp-fused-search version %s\n", Version)
					fmt.Printf("Commit: %s\n", Commit)
					fmt.Printf("Built: %s\n", BuildDate)
					return nil
				},
			},
		},
		Action: func(cliCtx context.Context, cmd *cli.Command) error {
			transport := cmd.String("transport")
			port := cmd.String("port")
			baseURL := cmd.String("base-url")
			isStdioMode = transport == "stdio"

			logFile := configureLogger(logger, isStdioMode)
			if logFile != nil {
				defer func() { _ = logFile.Close() }()
			}

			registry.Init(logger)

			if !isStdioMode {
				logger.Infof("Starting mcp-fused-search version %s (commit: %s, built: %s)",
					Version, Commit, BuildDate)
			}

			mcpSrv := mcpserver.NewMCPServer("mcp-fused-search", Version)

			registeredTools := registry.GetTools()
			logger.WithField("tool_count", len(registeredTools)).Debug("MCP server created, registering tools")

			for toolName, toolImpl := range registeredTools {
				// Capture variables to avoid closure race condition
				name := toolName
				tool := toolImpl

				if !isStdioMode {
					logger.Infof("Registering tool: %s", name)
				}

				mcpSrv.AddTool(tool.Definition(), func(toolCtx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					currentTool, ok := registry.GetTool(name)
					if !ok {
						return nil, fmt.Errorf("tool not found: %s", name)
					}

					args, ok := request.Params.Arguments.(map[string]any)
					if !ok {
						return nil, fmt.Errorf("invalid arguments type: expected map[string]interface{}, got %T", request.Params.Arguments)
					}

					result, err := currentTool.Execute(toolCtx, registry.GetLogger(), registry.GetCache(), args)
					if err != nil {
						if !isStdioMode {
							logger.WithError(err).Errorf("Tool execution failed: %s", name)
						}
						return nil, fmt.Errorf("tool execution failed: %w", err)
					}
					return result, nil
				})
			}

			logger.WithField("transport", transport).Debug("Starting server")
			switch transport {
			case "stdio":
				return mcpserver.ServeStdio(mcpSrv)
			case "sse":
				sseServer := mcpserver.NewSSEServer(mcpSrv, mcpserver.WithBaseURL(baseURL+"/sse"))
				return sseServer.Start(":" + port)
			case "http":
				httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv,
					mcpserver.WithEndpointPath(cmd.String("endpoint-path")))
				return httpServer.Start(":" + port)
			default:
				return fmt.Errorf("unsupported transport: %s", transport)
			}
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		// In stdio mode nothing may be written to stdout or stderr, the MCP
		// protocol owns both
		if !isStdioMode {
			logger.Errorf("Error: %v", err)
		}
		os.Exit(1)
	}
}
