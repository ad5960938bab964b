// Command frontier serves frontier-based exploration targets over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/frontier.explorer/internal/api"
	"github.com/banshee-data/frontier.explorer/internal/config"
	"github.com/banshee-data/frontier.explorer/internal/db"
	"github.com/banshee-data/frontier.explorer/internal/session"
	"github.com/banshee-data/frontier.explorer/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	configPath  = flag.String("config", "", "Path to explorer config JSON (defaults built in)")
	dbPath      = flag.String("db", "frontier.db", "SQLite database path; empty disables query history")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// loadConfig returns the defaults when path is empty.
func loadConfig(path string) (*config.ExplorerConfig, error) {
	if path == "" {
		return config.EmptyConfig(), nil
	}
	return config.LoadConfig(path)
}

// newHandler mounts the API and, when a database is attached, the debug
// admin routes, wrapped in access logging and the request deadline.
func newHandler(cfg *config.ExplorerConfig, database *db.DB) (http.Handler, error) {
	srv := api.NewServer(session.NewStore(nil), database, cfg)
	mux := srv.ServeMux()
	if database != nil {
		if err := database.AttachAdminRoutes(mux); err != nil {
			return nil, err
		}
	}
	return srv.Handler(mux), nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current())
		return
	}
	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var database *db.DB
	if *dbPath != "" {
		database, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()
	}

	handler, err := newHandler(cfg, database)
	if err != nil {
		log.Fatalf("failed to build handler: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		server := &http.Server{
			Addr:    *listen,
			Handler: handler,
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("frontier %s listening on %s", version.Current(), *listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("failed to start server: %v", err)
				stop()
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
	os.Exit(0)
}
