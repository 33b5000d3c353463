package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hnthap/kb-mcp/kb"
	"github.com/hnthap/kb-mcp/readers"
	"github.com/mark3labs/mcp-go/server"
)

func openLogger(cfg *Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil)), func() {}, nil
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return slog.New(slog.NewJSONHandler(logFile, nil)), func() { logFile.Close() }, nil
}

// buildAnswerer loads the knowledge base once at boot. A load failure is
// fatal in the standalone-service shape and degrades to a fixed "not loaded"
// reply in the tool-library shape.
func buildAnswerer(cfg *Config, logger *slog.Logger) (answerer, error) {
	reader := &readers.XLSXReader{Log: logger}
	rows, err := reader.ReadRows(cfg.DataFile)
	if err != nil {
		if !cfg.OptionalData {
			return nil, fmt.Errorf("failed to load knowledge base: %w", err)
		}

		logger.Warn("knowledge base unavailable, serving degraded answers", "error", err)
		return kb.Unavailable{}, nil
	}

	logger.Info("knowledge base loaded", "rows", len(rows), "file", cfg.DataFile)

	return kb.NewEngine(rows,
		kb.WithThreshold(cfg.Threshold),
		kb.WithStopWords(cfg.StopWords),
		kb.WithLogger(logger),
	), nil
}

func main() {
	cfgPath := flag.String("config", "cfg/config.yaml", "Configuration file for the MCP server")
	flag.Parse()

	cfg, err := readConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ans, err := buildAnswerer(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Relay != nil {
		relay := &Relay{
			URL:   cfg.Relay.URL,
			Delay: time.Duration(cfg.Relay.ReconnectMs) * time.Millisecond,
			Ans:   ans,
			Log:   logger,
		}
		go relay.Run(ctx)
	}

	srv := NewKBServer(ans)

	switch cfg.Transport {
	case "stdio":
		log.Println(server.ServeStdio(srv))
	default:
		gw := &httpGateway{
			ans:      ans,
			log:      logger,
			fallback: server.NewStreamableHTTPServer(srv),
		}
		logger.Info("serving http", "addr", cfg.ServerAddr)
		log.Println(http.ListenAndServe(cfg.ServerAddr, newHTTPMux(gw)))
	}
}
