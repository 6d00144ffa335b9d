// Command setlog-mcp exposes Setlog data to MCP clients over stdio. It can
// talk to a remote Setlog server with a bearer token, or query the database
// directly when given a config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/setlog/internal/config"
	"github.com/claude/setlog/internal/mcp"
	"github.com/claude/setlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Setlog server URL for remote mode")
	token := flag.String("token", "", "bearer token for remote mode (from /api/auth/login)")
	configPath := flag.String("config", "", "config file for direct database mode")
	userID := flag.Int("user", 1, "user id to scope queries to in direct database mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("setlog-mcp", Version)
		return
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	switch {
	case *serverURL != "":
		if *token == "" {
			fmt.Fprintf(os.Stderr, "Error: -token is required with -server\n")
			os.Exit(1)
		}
		ds = mcp.NewHTTPClient(*serverURL, *token)
		log.Info("remote mode", "server", *serverURL)

	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("direct database mode", "user", *userID)

	default:
		fmt.Fprintf(os.Stderr, "Usage: setlog-mcp -server <URL> -token <T>\n")
		fmt.Fprintf(os.Stderr, "       setlog-mcp -config <config.yaml> [-user N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)

	uid := *userID
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
