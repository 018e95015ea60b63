package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/export"
	"github.com/piwi3910/lumispec/internal/logging"
	"github.com/piwi3910/lumispec/internal/mockapi"
	"github.com/piwi3910/lumispec/internal/model"
)

func mockAPICmd(flags *globalFlags) *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve an in-memory backend for demos and manual testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := flags.logLevel
			if level == "" {
				level = "info"
			}
			logger, err := logging.New(logging.Config{Level: level, Development: true})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			srv := mockapi.New(logger.Named("mockapi"))
			if seed {
				srv.Seed()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, srv.Handler(), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3333", "Listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "Load a sample data set")
	return cmd
}

// serve runs an HTTP server until ctx is done.
func serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock backend listening", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down mock backend")
		return server.Shutdown(shutdownCtx)
	}
}

type exportFunc func(path string, p model.Product) error

var exporters = map[string]exportFunc{
	"pdf":    export.ExportPDF,
	"labels": export.ExportLabels,
	"xlsx":   export.ExportXLSX,
}

func exportCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a product without opening the console",
	}
	for _, kind := range []struct{ name, short string }{
		{"pdf", "Write the specification sheet PDF"},
		{"labels", "Write QR sample labels as a PDF"},
		{"xlsx", "Write the specification and measurements workbook"},
	} {
		write := exporters[kind.name]
		cmd.AddCommand(&cobra.Command{
			Use:   kind.name + " <productID> <output>",
			Short: kind.short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runExport(cmd.Context(), *flags, args[0], args[1], write)
			},
		})
	}
	return cmd
}

func runExport(ctx context.Context, flags globalFlags, productID, out string, write exportFunc) error {
	cfg, _, err := loadSettings(flags, os.Getenv)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hub := newHub(cfg, logger)
	p, err := hub.ShowProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetching product %s: %w", productID, err)
	}
	if err := write(out, p); err != nil {
		return fmt.Errorf("exporting product %s: %w", productID, err)
	}
	logger.Info("exported", zap.String("product", productID), zap.String("path", out))
	return nil
}
