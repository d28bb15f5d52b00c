package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stagehandhq/stagehand/adapter/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		cfg := a.Config

		availabilityHandler := api.NewAvailabilityHandler(
			a.SetAvailability,
			a.ClearAvailability,
			a.CreateBlock,
			a.DeleteBlock,
			a.GetAvailability,
			a.GetBlockedRanges,
			a.ListBlocks,
			a.Importer,
			a.Exporter,
		)
		bookingHandler := api.NewBookingHandler(
			a.CreateBooking,
			a.UpdateBookingStatus,
			a.GetBooking,
			a.ListBookings,
		)

		server := api.NewServer(api.ServerConfig{
			Addr:         cfg.APIAddr,
			ReadTimeout:  cfg.APIReadTimeout,
			WriteTimeout: cfg.APIWriteTimeout,
			IdleTimeout:  cfg.APIIdleTimeout,
		}, availabilityHandler, bookingHandler, a.Logger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
