package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"giftshop.GO/app"
	"giftshop.GO/cron"
)

var (
	serveMigrate bool
	serveNoCron  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the in-process refresh scheduler",
	RunE: func(c *cobra.Command, args []string) error {
		return Serve()
	},
}

// Serve runs the HTTP server until SIGINT or SIGTERM.
func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return serve(ctx, a)
}

func serve(ctx context.Context, a *app.App) error {
	if serveMigrate {
		if err := a.Migrate(); err != nil {
			return err
		}
	}
	// an empty catalog still serves; the scheduler retries the refresh
	if err := a.Start(ctx); err != nil {
		a.Log.Warn("initial catalog load failed", zap.Error(err))
	}

	if !serveNoCron {
		c, err := cron.StartCron(a.CronJobs(), a.Log)
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	e := app.NewServer(a)
	addr := ":" + a.Config.Port
	errc := make(chan error, 1)
	go func() {
		a.Log.Info("server running", zap.String("addr", addr))
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Create or update the catalog tables with gorm before serving")
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "Do not schedule the refresh and session sweep jobs")
	rootCmd.AddCommand(serveCmd)
}
