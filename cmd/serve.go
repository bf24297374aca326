package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/db"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/prefs"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/server"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/session"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/site"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the whitepaper with live navigation",
	Long: `Starts the HTTP server. Each open page holds a WebSocket session that
tracks the active section, drives outline jumps and remembers the
visitor's language and theme.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("allow-all") {
			cfg.Server.AllowAllOrigins = serveAllowAll
		}

		logger, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		cat, err := openCatalog(cfg)
		if err != nil {
			return err
		}
		renderer, err := site.NewRenderer(cat)
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}

		dbPath := filepath.Join(cfg.Server.DataDir, db.FileName)
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		hub := session.NewHub(cat, cfg.SessionOptions(logger))
		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, renderer, prefs.NewStore(database), hub, logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "whitepaper server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Languages: %v (default %s)\n", cat.Locales(), cat.DefaultLocale())
		fmt.Fprintf(os.Stderr, "  Jump policy: %s, settle: %s\n", cfg.Navigation.Policy, cfg.Navigation.SettleMode)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
