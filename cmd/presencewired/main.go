// Command presencewired relays presence updates received over HTTP to a
// local presence channel or a remote websocket agent.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/presencewire/presencewire-go/internal/configstore"
	"github.com/presencewire/presencewire-go/internal/httpapi"
	"github.com/presencewire/presencewire-go/internal/logger"
	"github.com/presencewire/presencewire-go/presencewire"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagListen   string
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:           "presencewired",
		Short:         "Presence relay daemon",
		Long:          "presencewired accepts presence updates over HTTP and relays them to a local presence channel or a remote websocket agent, as selected by its configuration.",
		Version:       presencewire.LibraryVersion,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&flagConfig, "config", configstore.DefaultPath(), "config file path")
	root.Flags().StringVar(&flagListen, "listen", "127.0.0.1:3994", "HTTP intake listen address")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: none, error, warn, info, verbose, debug")

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("presencewired: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	sink := logger.NewConsole("presencewired")
	zlog := sink.Zerolog()

	manager := presencewire.NewTransportManager(&presencewire.Options{
		Logger: presencewire.LoggerOptions{Logger: sink, Level: level},
	})
	defer manager.Teardown()

	store := configstore.New(flagConfig, zlog)
	manager.Configure(store.Load())

	watcher, err := store.Watch(func(cfg presencewire.Config) {
		manager.Configure(cfg)
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("config watcher unavailable, hot reload disabled")
	} else {
		defer watcher.Stop()
	}

	handler := httpapi.NewHandler(manager, store, zlog)
	srv := &http.Server{
		Addr:              flagListen,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	zlog.Info().Str("addr", flagListen).Msg("http intake listening")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case s := <-sig:
		zlog.Info().Str("signal", s.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
