package serve

import (
	"context"
	"log/slog"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rubixchain/rubix-dapp/cmd/config"
	"github.com/rubixchain/rubix-dapp/cmd/util"
	"github.com/rubixchain/rubix-dapp/internal/app/subsystems/api/http"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/orchestrator"
	"github.com/rubixchain/rubix-dapp/internal/runner"
	"github.com/rubixchain/rubix-dapp/internal/version"
	"github.com/rubixchain/rubix-dapp/internal/wallet"
	"github.com/rubixchain/rubix-dapp/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewCmd(cfg *config.ServeConfig, vip *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dApp server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return util.Load(cmd, vip, "rubix-dapp")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := util.Decode(vip, cfg); err != nil {
				return err
			}
			if err := cfg.Tracker.Validate(); err != nil {
				return err
			}

			return Serve(cfg)
		},
	}

	// bind config file flag
	cmd.Flags().StringP("config", "c", "", "config file (default rubix-dapp.yaml)")

	// bind config
	_ = util.Bind(cfg, cmd.Flags(), vip)

	return cmd
}

func Serve(cfg *config.ServeConfig) error {
	// logger
	if _, err := log.Setup(os.Stdout, cfg.LogLevel); err != nil {
		slog.Error("failed to parse log level", "error", err)
		return err
	}

	slog.Info("starting rubix-dapp", "version", version.Full())

	// metrics
	reg := prometheus.NewRegistry()
	metrics := metrics.New(reg)

	// request status store
	store, err := cfg.Store.New()
	if err != nil {
		return err
	}
	if err := store.Start(); err != nil {
		slog.Error("failed to start store", "store", store, "error", err)
		return err
	}

	// shared configuration
	provider := configstore.New(configstore.NewBackend(&cfg.Settings), &cfg.Settings)

	clientCfg := cfg.Client()
	dial := cfg.Node.Dialer(metrics)

	// runner and orchestrator
	runner := runner.New(provider, dial, store, runner.NewHTTPExecutor(cfg.Runner.ExecutorUrl, &netHttp.Client{Timeout: cfg.Runner.ExecutorTimeout}), metrics)
	orchestrator := orchestrator.New(&cfg.Orchestrator, provider, dial, clientCfg.NewTracker(metrics), metrics)

	// api
	api := http.New(&http.Deps{
		Config:  provider,
		Store:   store,
		Runner:  runner,
		Lister:  orchestrator,
		Wallet:  wallet.NewRegistry(),
		Metrics: metrics,

		CallbackRoutes: callbackRoutes(provider),
	}, &cfg.Http)

	errors := make(chan error, 1)
	go api.Start(errors)

	// metrics server
	mux := netHttp.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsServer := &netHttp.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		for {
			slog.Info("starting metrics server", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err == netHttp.ErrServerClosed {
				return
			}

			slog.Error("restarting metrics server...", "error", err)
			time.Sleep(5 * time.Second)
		}
	}()

	// halt until we get a shutdown signal or an error
	// occurs, whichever happens first
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case s := <-sig:
		slog.Info("shutdown signal received, shutting down", "signal", s)
	case serveErr = <-errors:
		slog.Error("api error received, shutting down", "error", serveErr)
	}

	if err := api.Stop(); err != nil {
		slog.Warn("error stopping api", "api", api, "error", err)
	}

	if err := metricsServer.Close(); err != nil {
		slog.Warn("error stopping metrics server", "error", err)
	}

	if err := store.Stop(); err != nil {
		slog.Error("failed to stop store", "store", store, "error", err)
		return err
	}

	return serveErr
}

// callbackRoutes reads the callback paths once at startup, routes added
// to the document later need a restart.
func callbackRoutes(provider *configstore.Provider) []string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app, err := provider.App(ctx)
	if err != nil {
		slog.Warn("failed to read callback routes from configuration", "error", err)
		return nil
	}

	routes := app.CallbackRoutes()
	slog.Info("callback routes", "routes", routes)

	return routes
}
